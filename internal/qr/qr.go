// Package qr generates QR code images and caches them by encoded value, so
// repeated renders of the same value (canvas refreshes, multi-copy print
// runs) reuse one generated code.
package qr

import (
	"fmt"
	"image"
	"sync"

	qrcode "github.com/skip2/go-qrcode"
	xdraw "golang.org/x/image/draw"
)

// basePx is the pixel size codes are generated at. Display sizes are
// derived by scaling the cached base image rather than re-encoding.
const basePx = 256

// Cache holds generated QR codes keyed by their encoded value.
type Cache struct {
	mu    sync.Mutex
	codes map[string]image.Image
	pngs  map[string][]byte
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		codes: make(map[string]image.Image),
		pngs:  make(map[string][]byte),
	}
}

// PNG returns the code for value as PNG bytes, generating and caching it on
// first use. An empty value is an error; callers treat a failed code as a
// missing element rather than a fatal condition.
func (c *Cache) PNG(value string) ([]byte, error) {
	if value == "" {
		return nil, fmt.Errorf("qr: empty value")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if png, ok := c.pngs[value]; ok {
		return png, nil
	}

	png, err := qrcode.Encode(value, qrcode.Medium, basePx)
	if err != nil {
		return nil, fmt.Errorf("qr: encode %q: %w", value, err)
	}
	c.pngs[value] = png
	return png, nil
}

// Image returns the code for value as an image scaled to sizePx, or an
// error when the value cannot be encoded. The base image is cached; only
// the cheap nearest-neighbor scale runs per call.
func (c *Cache) Image(value string, sizePx int) (image.Image, error) {
	if value == "" {
		return nil, fmt.Errorf("qr: empty value")
	}
	if sizePx < 1 {
		sizePx = 1
	}

	c.mu.Lock()
	base, ok := c.codes[value]
	c.mu.Unlock()

	if !ok {
		code, err := qrcode.New(value, qrcode.Medium)
		if err != nil {
			return nil, fmt.Errorf("qr: encode %q: %w", value, err)
		}
		base = code.Image(basePx)
		c.mu.Lock()
		c.codes[value] = base
		c.mu.Unlock()
	}

	if base.Bounds().Dx() == sizePx {
		return base, nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, sizePx, sizePx))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), base, base.Bounds(), xdraw.Src, nil)
	return dst, nil
}

// Fetch resolves the code for value asynchronously and invokes done with
// the scaled image once ready. Generation failures are silently dropped;
// the canvas treats "not yet resolved" as a valid transient state and
// simply renders nothing for the element.
func (c *Cache) Fetch(value string, sizePx int, done func(image.Image)) {
	go func() {
		img, err := c.Image(value, sizePx)
		if err != nil {
			return
		}
		done(img)
	}()
}
