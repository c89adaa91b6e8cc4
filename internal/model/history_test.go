package model

import (
	"fmt"
	"testing"
)

func layoutWithText(text string) *Layout {
	el := NewElement(TypeText)
	el.Text = text
	return &Layout{SizeID: "80x40", Elements: []*Element{el}}
}

func TestHistoryUndoRedo(t *testing.T) {
	first := layoutWithText("first")
	h := NewHistory(first)

	second := first.Clone()
	second.Elements[0].Text = "second"
	h.Commit(second)

	got, ok := h.Undo()
	if !ok {
		t.Fatal("Undo failed")
	}
	if got.Elements[0].Text != "first" {
		t.Errorf("undo restored %q, want %q", got.Elements[0].Text, "first")
	}

	got, ok = h.Redo()
	if !ok {
		t.Fatal("Redo failed")
	}
	if got.Elements[0].Text != "second" {
		t.Errorf("redo restored %q, want %q", got.Elements[0].Text, "second")
	}
}

func TestHistoryNoOpAtEnds(t *testing.T) {
	h := NewHistory(layoutWithText("only"))
	if _, ok := h.Undo(); ok {
		t.Error("Undo at oldest snapshot should be a no-op")
	}
	if _, ok := h.Redo(); ok {
		t.Error("Redo at newest snapshot should be a no-op")
	}
}

func TestHistorySnapshotsAreCopies(t *testing.T) {
	l := layoutWithText("original")
	h := NewHistory(l)

	edited := l.Clone()
	edited.Elements[0].Text = "edited"
	h.Commit(edited)

	// Mutating the live layout must not change stored history.
	edited.Elements[0].Text = "mutated-after-commit"

	got, _ := h.Undo()
	if got.Elements[0].Text != "original" {
		t.Errorf("undo restored %q, want %q", got.Elements[0].Text, "original")
	}
	got, _ = h.Redo()
	if got.Elements[0].Text != "edited" {
		t.Errorf("redo restored %q, want %q", got.Elements[0].Text, "edited")
	}
}

func TestHistoryTruncatesRedoOnCommit(t *testing.T) {
	h := NewHistory(layoutWithText("a"))
	h.Commit(layoutWithText("b"))
	h.Commit(layoutWithText("c"))

	h.Undo() // back to b
	h.Commit(layoutWithText("d"))

	if h.CanRedo() {
		t.Error("commit after undo should discard redo entries")
	}
	got, _ := h.Undo()
	if got.Elements[0].Text != "b" {
		t.Errorf("undo after branch restored %q, want %q", got.Elements[0].Text, "b")
	}
}

func TestHistoryCap(t *testing.T) {
	h := NewHistory(layoutWithText("base"))

	for i := 0; i < 60; i++ {
		h.Commit(layoutWithText(fmt.Sprintf("state-%d", i)))
	}

	if h.Depth() != maxHistory {
		t.Errorf("depth = %d, want %d", h.Depth(), maxHistory)
	}

	// The newest state must be intact after overflow.
	if h.CanRedo() {
		t.Error("index should sit at the newest snapshot")
	}
	got, _ := h.Undo()
	if got.Elements[0].Text != "state-58" {
		t.Errorf("undo restored %q, want state-58", got.Elements[0].Text)
	}

	// Walk all the way back: the oldest retained snapshot is not the seed.
	steps := 1
	for h.CanUndo() {
		got, _ = h.Undo()
		steps++
	}
	if steps != maxHistory-1 {
		t.Errorf("undo steps = %d, want %d", steps, maxHistory-1)
	}
	if got.Elements[0].Text == "base" {
		t.Error("oldest snapshot should have been dropped at the cap")
	}
}
