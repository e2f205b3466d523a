package cache_test

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"floatview/internal/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestPNG writes a small solid-color PNG and returns its path.
func writeTestPNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestDecodedHitAndMiss(t *testing.T) {
	dir := t.TempDir()
	path := writeTestPNG(t, dir, "a.png", 8, 8)

	c := cache.New(10)

	img, err := c.Decoded(path)
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())

	// Second read is served from cache even if the file disappears.
	require.NoError(t, os.Remove(path))
	again, err := c.Decoded(path)
	require.NoError(t, err)
	assert.Equal(t, img, again)
}

func TestDecodedNotFound(t *testing.T) {
	c := cache.New(10)

	_, err := c.Decoded(filepath.Join(t.TempDir(), "missing.png"))
	assert.ErrorIs(t, err, cache.ErrNotFound)
}

func TestDecodedNotAnImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fake.png")
	require.NoError(t, os.WriteFile(path, []byte("not image data"), 0o644))

	c := cache.New(10)
	_, err := c.Decoded(path)
	assert.ErrorIs(t, err, cache.ErrNotFound)

	// A failed decode never occupies an entry.
	decoded, _ := c.Sizes()
	assert.Zero(t, decoded)
}

func TestFIFOEviction(t *testing.T) {
	dir := t.TempDir()
	c := cache.New(3)

	var paths []string
	for i := 0; i < 4; i++ {
		paths = append(paths, writeTestPNG(t, dir, fmt.Sprintf("img%d.png", i), 4, 4))
	}

	for _, p := range paths[:3] {
		_, err := c.Decoded(p)
		require.NoError(t, err)
	}
	decoded, _ := c.Sizes()
	assert.Equal(t, 3, decoded)

	// Inserting a 4th distinct key evicts exactly the earliest-inserted.
	_, err := c.Decoded(paths[3])
	require.NoError(t, err)

	decoded, _ = c.Sizes()
	assert.Equal(t, 3, decoded)
	assert.False(t, c.Contains(paths[0]))
	assert.True(t, c.Contains(paths[1]))
	assert.True(t, c.Contains(paths[2]))
	assert.True(t, c.Contains(paths[3]))
}

func TestFIFONotLRU(t *testing.T) {
	dir := t.TempDir()
	c := cache.New(2)

	a := writeTestPNG(t, dir, "a.png", 4, 4)
	b := writeTestPNG(t, dir, "b.png", 4, 4)
	x := writeTestPNG(t, dir, "x.png", 4, 4)

	_, err := c.Decoded(a)
	require.NoError(t, err)
	_, err = c.Decoded(b)
	require.NoError(t, err)

	// Re-access a, then overflow. FIFO still evicts a, recency is ignored.
	_, err = c.Decoded(a)
	require.NoError(t, err)
	_, err = c.Decoded(x)
	require.NoError(t, err)

	assert.False(t, c.Contains(a))
	assert.True(t, c.Contains(b))
	assert.True(t, c.Contains(x))
}

func TestScaledFitsBounds(t *testing.T) {
	dir := t.TempDir()
	path := writeTestPNG(t, dir, "wide.png", 200, 100)

	c := cache.New(10)

	img, err := c.Scaled(path, 100, 100)
	require.NoError(t, err)

	// Aspect ratio preserved within the requested bounds.
	assert.LessOrEqual(t, img.Bounds().Dx(), 100)
	assert.LessOrEqual(t, img.Bounds().Dy(), 100)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 50, img.Bounds().Dy())
}

func TestScaledResizeRecomputesCurrentImageOnly(t *testing.T) {
	dir := t.TempDir()
	a := writeTestPNG(t, dir, "a.png", 100, 100)
	b := writeTestPNG(t, dir, "b.png", 100, 100)

	c := cache.New(10)

	_, err := c.Scaled(a, 80, 80)
	require.NoError(t, err)
	_, err = c.Scaled(b, 80, 80)
	require.NoError(t, err)

	_, scaled := c.Sizes()
	assert.Equal(t, 2, scaled)

	// Window resize: only the requested image is re-scaled, not the tier.
	img, err := c.Scaled(a, 40, 40)
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())

	_, scaled = c.Sizes()
	assert.Equal(t, 2, scaled)

	// Same size again is a plain cache hit.
	again, err := c.Scaled(a, 40, 40)
	require.NoError(t, err)
	assert.Equal(t, img, again)
}

func TestInvalidateAll(t *testing.T) {
	dir := t.TempDir()
	path := writeTestPNG(t, dir, "a.png", 8, 8)

	c := cache.New(10)
	_, err := c.Decoded(path)
	require.NoError(t, err)
	_, err = c.Scaled(path, 4, 4)
	require.NoError(t, err)

	c.InvalidateAll()

	decoded, scaled := c.Sizes()
	assert.Zero(t, decoded)
	assert.Zero(t, scaled)
}

func TestDecodable(t *testing.T) {
	dir := t.TempDir()
	good := writeTestPNG(t, dir, "ok.png", 4, 4)
	bad := filepath.Join(dir, "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("junk"), 0o644))

	assert.True(t, cache.Decodable(good))
	assert.False(t, cache.Decodable(bad))
	assert.False(t, cache.Decodable(filepath.Join(dir, "absent.png")))
}
