package render

import (
	"fmt"
	"os"
	"path/filepath"
)

// BackgroundKind tags the variant of background source feeding the encoder.
type BackgroundKind int

const (
	// BackgroundVideo loops a clip for the full output duration.
	BackgroundVideo BackgroundKind = iota
	// BackgroundImage freezes a still for the full output duration.
	BackgroundImage
	// BackgroundGenerated synthesizes a solid color field via lavfi.
	BackgroundGenerated
)

func (k BackgroundKind) String() string {
	switch k {
	case BackgroundVideo:
		return "video"
	case BackgroundImage:
		return "image"
	case BackgroundGenerated:
		return "generated"
	default:
		return "unknown"
	}
}

// Background is the resolved visual source for one render. Exactly one is
// chosen per render; Path is set for video/image, ColorSpec for generated.
type Background struct {
	Kind      BackgroundKind
	Path      string
	ColorSpec string
}

const (
	backgroundVideoName = "default.mp4"
	backgroundImageName = "default.jpg"
)

// ResolveBackground picks the background source in strict priority order:
// looping video clip, then still image, then — only when allowGenerated is
// set — a black color field sized to the output canvas. With no asset and no
// fallback it returns ErrBackgroundMissing.
func ResolveBackground(assetRoot string, durationSec float64, allowGenerated bool) (Background, error) {
	videoPath := filepath.Join(assetRoot, backgroundVideoName)
	if fileExists(videoPath) {
		return Background{Kind: BackgroundVideo, Path: videoPath}, nil
	}

	imagePath := filepath.Join(assetRoot, backgroundImageName)
	if fileExists(imagePath) {
		return Background{Kind: BackgroundImage, Path: imagePath}, nil
	}

	if allowGenerated {
		spec := fmt.Sprintf("color=c=black:s=%dx%d:d=%g", outputWidth, outputHeight, durationSec)
		return Background{Kind: BackgroundGenerated, ColorSpec: spec}, nil
	}

	return Background{}, fmt.Errorf("%w (looked for %s and %s under %s)",
		ErrBackgroundMissing, backgroundVideoName, backgroundImageName, assetRoot)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
