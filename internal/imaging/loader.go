package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// cached is one decoded file together with the stat data it was read at.
type cached struct {
	img     image.Image
	format  string
	size    int64
	modTime time.Time
}

// ImageCache keeps decoded images keyed by path so repeated tool calls on the
// same photo decode it once.
//
// An entry is reused only while the file's size and modification time are
// unchanged; a file rewritten in place is decoded again on the next Load.
// Photos are rotated upright according to their EXIF orientation tag before
// they are cached, so every pipeline stage sees the picture as it was taken.
//
// ImageCache is safe for concurrent use. Two goroutines missing on the same
// path may both decode it; the later result wins.
type ImageCache struct {
	mu      sync.RWMutex
	entries map[string]*cached
}

// NewImageCache returns an empty cache.
func NewImageCache() *ImageCache {
	return &ImageCache{entries: make(map[string]*cached)}
}

// Load returns the decoded image at path, from the cache when the file has
// not changed since it was last read. PNG, JPEG, GIF, BMP, TIFF and WebP are
// supported. The path is used verbatim as the key.
func (c *ImageCache) Load(path string) (image.Image, error) {
	e, err := c.load(path)
	if err != nil {
		return nil, err
	}
	return e.img, nil
}

func (c *ImageCache) load(path string) (*cached, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	c.mu.RLock()
	e, ok := c.entries[path]
	c.mu.RUnlock()
	if ok && e.size == stat.Size() && e.modTime.Equal(stat.ModTime()) {
		return e, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	e = &cached{
		img:     img,
		format:  format,
		size:    stat.Size(),
		modTime: stat.ModTime(),
	}
	c.mu.Lock()
	c.entries[path] = e
	c.mu.Unlock()
	return e, nil
}

// Format returns the decoder name recorded when path was loaded, or "unknown"
// if the path is not cached.
func (c *ImageCache) Format(path string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if e, ok := c.entries[path]; ok && e.format != "" {
		return e.format
	}
	return "unknown"
}

// Len reports how many images are cached.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear drops every cached image.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*cached)
	c.mu.Unlock()
}

// Evict drops path from the cache. Unknown paths are ignored.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.entries, path)
	c.mu.Unlock()
}

// ImageInfo describes an input photo.
type ImageInfo struct {
	Width  int `json:"width"`
	Height int `json:"height"`

	// Format is the decoder that read the file ("png", "jpeg", "gif", "bmp",
	// "tiff" or "webp"), detected from content rather than extension.
	Format string `json:"format"`

	// Grayscale is set for single-channel sources. Their three Canny planes
	// are identical.
	Grayscale bool `json:"grayscale"`

	HasAlpha      bool  `json:"has_alpha"`
	FileSizeBytes int64 `json:"file_size_bytes"`

	// TextMaskSize is the padded working size the text mask is computed at
	// for the padding passed to LoadImageInfo.
	TextMaskSize DimensionsResult `json:"textmask_size"`
}

// LoadImageInfo loads path through cache and describes it. Width and Height
// are after EXIF orientation is applied.
func LoadImageInfo(cache *ImageCache, path string, padding int) (*ImageInfo, error) {
	e, err := cache.load(path)
	if err != nil {
		return nil, err
	}
	if padding < 0 {
		padding = 0
	}

	bounds := e.img.Bounds()
	info := &ImageInfo{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        e.format,
		FileSizeBytes: e.size,
		TextMaskSize: DimensionsResult{
			Width:  bounds.Dx() + 2*padding,
			Height: bounds.Dy() + 2*padding,
		},
	}
	switch e.img.(type) {
	case *image.Gray, *image.Gray16:
		info.Grayscale = true
	case *image.NRGBA, *image.NRGBA64, *image.RGBA, *image.RGBA64:
		info.HasAlpha = !opaque(e.img)
	}
	return info, nil
}

// opaque reports whether img declares itself fully opaque.
func opaque(img image.Image) bool {
	o, ok := img.(interface{ Opaque() bool })
	return ok && o.Opaque()
}

// DimensionsResult is a width and height pair.
type DimensionsResult struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// GetDimensions loads path through cache and returns its size.
func GetDimensions(cache *ImageCache, path string) (*DimensionsResult, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}
	bounds := img.Bounds()
	return &DimensionsResult{Width: bounds.Dx(), Height: bounds.Dy()}, nil
}

// Save writes img to path, choosing the encoder from the file extension
// (".png", ".jpg", ".gif", ".bmp", ".tif").
func Save(img image.Image, path string) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save image %s: %w", path, err)
	}
	return nil
}
