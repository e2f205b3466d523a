// Package cache holds decoded and display-scaled images for the viewer.
//
// Both tiers are bounded FIFO maps keyed by file path. FIFO rather than LRU
// is deliberate: preview sets are small and short-lived, and insertion-order
// eviction is enough to keep memory bounded when a session cycles through
// many generated temp files.
package cache

import (
	"image"
	"os"
	"sync"

	// Decoders for the formats the pipeline emits.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"floatview/internal/errors"
	"floatview/internal/log"

	"github.com/nfnt/resize"
)

// ErrNotFound is returned when an image cannot be read or decoded. It never
// indicates a cache fault; callers skip the entry and carry on.
var ErrNotFound = errors.New("image not found or not decodable")

// DefaultCapacity is the per-tier entry bound used when none is configured.
const DefaultCapacity = 50

// Cache is the viewer's two-tier image cache.
type Cache struct {
	mu       sync.Mutex
	capacity int

	decoded      map[string]image.Image
	decodedOrder []string

	scaled      map[string]image.Image
	scaledOrder []string

	// One display size for the whole scaled tier. A window resize changes
	// it, which re-scales only the image being rendered next, not the
	// entire tier.
	lastWidth  int
	lastHeight int
}

// New creates a cache bounded to capacity entries per tier.
func New(capacity int) *Cache {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Cache{
		capacity: capacity,
		decoded:  make(map[string]image.Image),
		scaled:   make(map[string]image.Image),
	}
}

// Decoded returns the decoded image for path, reading it from disk on a
// miss. Returns ErrNotFound when the file is unreadable or not an image.
func (c *Cache) Decoded(path string) (image.Image, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.decodedLocked(path)
}

func (c *Cache) decodedLocked(path string) (image.Image, error) {
	if img, ok := c.decoded[path]; ok {
		return img, nil
	}

	img, err := decodeFile(path)
	if err != nil {
		log.LogWithFields(log.F("file", path), log.F("error", err)).Warn("failed to load image")
		return nil, ErrNotFound
	}

	c.insertDecoded(path, img)
	return img, nil
}

// Scaled returns the image at path scaled to fit within width x height,
// preserving aspect ratio. The cache key is the path alone; a stored
// rendering is reused only while the display size is unchanged.
func (c *Cache) Scaled(path string, width, height int) (image.Image, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sizeChanged := width != c.lastWidth || height != c.lastHeight
	if !sizeChanged {
		if img, ok := c.scaled[path]; ok {
			return img, nil
		}
	}

	full, err := c.decodedLocked(path)
	if err != nil {
		return nil, err
	}

	scaledImg := resize.Thumbnail(uint(width), uint(height), full, resize.Lanczos3)

	if sizeChanged {
		// Stored renderings at the old size stay in place; each is
		// re-scaled lazily the next time it is displayed.
		c.lastWidth = width
		c.lastHeight = height
	}
	if _, ok := c.scaled[path]; ok {
		c.scaled[path] = scaledImg
		return scaledImg, nil
	}

	c.insertScaled(path, scaledImg)
	return scaledImg, nil
}

// InvalidateAll clears both tiers. Called whenever the active path list
// changes.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.decoded = make(map[string]image.Image)
	c.decodedOrder = c.decodedOrder[:0]
	c.scaled = make(map[string]image.Image)
	c.scaledOrder = c.scaledOrder[:0]
}

// Sizes returns the entry counts of the decoded and scaled tiers.
func (c *Cache) Sizes() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.decoded), len(c.scaled)
}

// Contains reports whether path is present in the decoded tier.
func (c *Cache) Contains(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.decoded[path]
	return ok
}

func (c *Cache) insertDecoded(path string, img image.Image) {
	if len(c.decoded) >= c.capacity {
		oldest := c.decodedOrder[0]
		c.decodedOrder = c.decodedOrder[1:]
		delete(c.decoded, oldest)
	}
	c.decoded[path] = img
	c.decodedOrder = append(c.decodedOrder, path)
}

func (c *Cache) insertScaled(path string, img image.Image) {
	if len(c.scaled) >= c.capacity {
		oldest := c.scaledOrder[0]
		c.scaledOrder = c.scaledOrder[1:]
		delete(c.scaled, oldest)
	}
	c.scaled[path] = img
	c.scaledOrder = append(c.scaledOrder, path)
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// Decodable reports whether the file at path opens and parses as an image
// header. Used by session restore to verify a stored list is still showable
// without paying for full decodes.
func Decodable(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	_, _, err = image.DecodeConfig(f)
	return err == nil
}
