package qr

import (
	"bytes"
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPNGIsCached(t *testing.T) {
	c := NewCache()

	a, err := c.PNG("https://example.com/p1")
	require.NoError(t, err)
	require.NotEmpty(t, a)

	b, err := c.PNG("https://example.com/p1")
	require.NoError(t, err)
	assert.True(t, bytes.Equal(a, b))

	other, err := c.PNG("https://example.com/p2")
	require.NoError(t, err)
	assert.False(t, bytes.Equal(a, other))
}

func TestEmptyValueIsAnError(t *testing.T) {
	c := NewCache()
	_, err := c.PNG("")
	assert.Error(t, err)
	_, err = c.Image("", 64)
	assert.Error(t, err)
}

func TestImageIsScaledToRequest(t *testing.T) {
	c := NewCache()

	img, err := c.Image("https://example.com/p1", 72)
	require.NoError(t, err)
	assert.Equal(t, 72, img.Bounds().Dx())
	assert.Equal(t, 72, img.Bounds().Dy())

	// The cached base is returned untouched at its native size.
	img, err = c.Image("https://example.com/p1", basePx)
	require.NoError(t, err)
	assert.Equal(t, basePx, img.Bounds().Dx())
}

func TestFetchDeliversAsync(t *testing.T) {
	c := NewCache()
	got := make(chan image.Image, 1)

	c.Fetch("https://example.com/p1", 64, func(img image.Image) {
		got <- img
	})

	select {
	case img := <-got:
		assert.Equal(t, 64, img.Bounds().Dx())
	case <-time.After(5 * time.Second):
		t.Fatal("Fetch never delivered")
	}
}
