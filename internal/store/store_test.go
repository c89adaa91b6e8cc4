package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labelpress/internal/model"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	st := OpenAt(t.TempDir())

	layout := model.DefaultLayout("80x40")
	layout.Elements[0].Text = "CAFE TORRADO"
	require.NoError(t, st.Save(layout))
	assert.True(t, st.Exists("80x40"))

	got, err := st.Load("80x40")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "80x40", got.SizeID)
	require.Len(t, got.Elements, len(layout.Elements))
	assert.Equal(t, "CAFE TORRADO", got.Elements[0].Text)
	assert.Equal(t, layout.Elements[0].ID, got.Elements[0].ID)
}

func TestLoadAbsentReturnsNil(t *testing.T) {
	st := OpenAt(t.TempDir())

	got, err := st.Load("50x30")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.False(t, st.Exists("50x30"))
}

func TestLoadCorruptFile(t *testing.T) {
	dir := t.TempDir()
	st := OpenAt(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "layout-80x40.json"), []byte("{broken"), 0o644))

	_, err := st.Load("80x40")
	assert.Error(t, err)
}

func TestSaveIsPerSize(t *testing.T) {
	st := OpenAt(t.TempDir())
	require.NoError(t, st.Save(model.DefaultLayout("80x40")))
	require.NoError(t, st.Save(model.DefaultLayout("40x25")))

	a, err := st.Load("80x40")
	require.NoError(t, err)
	b, err := st.Load("40x25")
	require.NoError(t, err)
	assert.Equal(t, "80x40", a.SizeID)
	assert.Equal(t, "40x25", b.SizeID)
}

func TestSaveLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	st := OpenAt(dir)
	require.NoError(t, st.Save(model.DefaultLayout("80x40")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "layout-80x40.json", entries[0].Name())
}
