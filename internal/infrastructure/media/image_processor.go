// Package media provides image processing utilities
package media

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	"github.com/AtRiskMedia/quartzgo/internal/infrastructure/observability/logging"
)

// IconSizes are the square thumbnail edges generated from the site icon:
// favicon, apple-touch-icon and manifest icon.
var IconSizes = []int{32, 180, 512}

// ImageProcessor derives published image variants from source assets.
type ImageProcessor struct {
	quality float32
	logger  *logging.ChanneledLogger
}

// NewImageProcessor creates a new ImageProcessor instance
func NewImageProcessor(logger *logging.ChanneledLogger) *ImageProcessor {
	return &ImageProcessor{
		quality: 85,
		logger:  logger,
	}
}

// GenerateIconThumbnails writes one square WebP per IconSizes entry into
// dstDir, named <base>-<size>.webp. Paths of the written files are returned.
// On failure, thumbnails already written by this call are removed.
func (p *ImageProcessor) GenerateIconThumbnails(src, dstDir string) ([]string, error) {
	f, err := os.Open(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open icon: %w", err)
	}
	defer f.Close()

	img, err := imaging.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode icon %s: %w", src, err)
	}

	if err := os.MkdirAll(dstDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	paths := make([]string, 0, len(IconSizes))

	for _, size := range IconSizes {
		thumb := imaging.Fill(img, size, size, imaging.Center, imaging.Lanczos)
		thumbPath := filepath.Join(dstDir, fmt.Sprintf("%s-%d.webp", base, size))

		// imaging cannot encode webp.
		if err := webp.Save(thumbPath, thumb, &webp.Options{Quality: p.quality}); err != nil {
			for _, written := range paths {
				os.Remove(written)
			}
			return nil, fmt.Errorf("failed to save WebP thumbnail %s: %w", thumbPath, err)
		}
		paths = append(paths, thumbPath)
	}

	p.logger.Media().Info("Icon thumbnails generated", "source", src, "count", len(paths))
	return paths, nil
}
