// Bloomwatch - Algal Bloom Risk Assessment for Ponds and Lakes
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bloomwatch

package imaging

import (
	"image"
	"io"

	// Registered decoders for the supported photograph formats.
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"

	"github.com/tomtom215/bloomwatch/internal/models"
)

// Config holds the extraction thresholds. The defaults are the values the
// shipped model artifacts were trained against; changing them invalidates
// trained artifacts.
type Config struct {
	// WorkingWidth and WorkingHeight are the fixed resolution every image
	// is resized to before classification.
	WorkingWidth  int `koanf:"working_width" validate:"min=1"`
	WorkingHeight int `koanf:"working_height" validate:"min=1"`

	// HueMinDeg and HueMaxDeg bound the algae-green hue band in degrees
	// (0-360). The default band targets green and yellow-green bloom tones.
	HueMinDeg float64 `koanf:"hue_min_deg" validate:"min=0,max=360"`
	HueMaxDeg float64 `koanf:"hue_max_deg" validate:"min=0,max=360"`

	// SatMin and ValMin are minimum saturation and value on a 0-255 scale.
	// They exclude washed-out highlights and deep shadow respectively.
	SatMin uint8 `koanf:"sat_min"`
	ValMin uint8 `koanf:"val_min"`

	// MinClusterArea is the minimum connected-component area in pixels for
	// a component to count as a cluster. Rejects 1-2 pixel sensor noise.
	MinClusterArea int `koanf:"min_cluster_area" validate:"min=1"`
}

// DefaultConfig returns the extraction thresholds used in production.
func DefaultConfig() Config {
	return Config{
		WorkingWidth:   640,
		WorkingHeight:  480,
		HueMinDeg:      35,
		HueMaxDeg:      85,
		SatMin:         40,
		ValMin:         40,
		MinClusterArea: 5,
	}
}

// Extractor turns a raw photograph into ImageFeatures. Stateless and safe
// for concurrent use.
type Extractor struct {
	cfg Config
}

// NewExtractor creates an extractor with the given thresholds. Zero-value
// dimensions fall back to the defaults.
func NewExtractor(cfg Config) *Extractor {
	def := DefaultConfig()
	if cfg.WorkingWidth <= 0 {
		cfg.WorkingWidth = def.WorkingWidth
	}
	if cfg.WorkingHeight <= 0 {
		cfg.WorkingHeight = def.WorkingHeight
	}
	if cfg.MinClusterArea <= 0 {
		cfg.MinClusterArea = def.MinClusterArea
	}
	if cfg.HueMinDeg == 0 && cfg.HueMaxDeg == 0 {
		cfg.HueMinDeg = def.HueMinDeg
		cfg.HueMaxDeg = def.HueMaxDeg
	}
	return &Extractor{cfg: cfg}
}

// Extract decodes the image from r and computes its vegetation features.
// Returns *InvalidImageError when the data cannot be decoded and
// *UnsupportedSizeError when dimensions are degenerate.
func (e *Extractor) Extract(r io.Reader) (models.ImageFeatures, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return models.ImageFeatures{}, &InvalidImageError{Reason: "decode failed", Err: err}
	}
	return e.features(img)
}

// features computes ImageFeatures from an already-decoded image.
func (e *Extractor) features(img image.Image) (models.ImageFeatures, error) {
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return models.ImageFeatures{}, &UnsupportedSizeError{Width: bounds.Dx(), Height: bounds.Dy()}
	}

	rgba := e.normalize(img)
	w, h := e.cfg.WorkingWidth, e.cfg.WorkingHeight

	mask := make([]bool, w*h)
	greenCount := 0
	for y := 0; y < h; y++ {
		row := rgba.Pix[y*rgba.Stride : y*rgba.Stride+w*4]
		for x := 0; x < w; x++ {
			if e.isAlgaeGreen(row[x*4], row[x*4+1], row[x*4+2]) {
				mask[y*w+x] = true
				greenCount++
			}
		}
	}

	total := w * h
	ratio := 100 * float64(greenCount) / float64(total)

	// Zero green pixels short-circuits the structural invariant: no
	// component analysis, density and cluster count exactly zero.
	if greenCount == 0 {
		return models.ImageFeatures{}, nil
	}

	sizes := componentSizes(mask, w, h)
	clusters := 0
	largest := 0
	for _, size := range sizes {
		if size >= e.cfg.MinClusterArea {
			clusters++
		}
		if size > largest {
			largest = size
		}
	}

	density := float64(largest) / float64(greenCount)
	if density > 1 {
		density = 1
	}
	if density < 0 {
		density = 0
	}

	return models.ImageFeatures{
		GreenRatio:   ratio,
		DensityScore: density,
		ClusterCount: clusters,
	}, nil
}

// normalize resizes the image to the working resolution.
func (e *Extractor) normalize(img image.Image) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, e.cfg.WorkingWidth, e.cfg.WorkingHeight))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// isAlgaeGreen classifies a pixel by its HSV representation.
func (e *Extractor) isAlgaeGreen(r, g, b uint8) bool {
	hue, sat, val := rgbToHSV(r, g, b)
	return hue >= e.cfg.HueMinDeg && hue <= e.cfg.HueMaxDeg &&
		sat >= float64(e.cfg.SatMin) && val >= float64(e.cfg.ValMin)
}

// rgbToHSV converts 8-bit RGB to hue in degrees [0,360) with saturation and
// value on a 0-255 scale.
func rgbToHSV(r, g, b uint8) (hue, sat, val float64) {
	rf, gf, bf := float64(r), float64(g), float64(b)

	maxC := rf
	if gf > maxC {
		maxC = gf
	}
	if bf > maxC {
		maxC = bf
	}
	minC := rf
	if gf < minC {
		minC = gf
	}
	if bf < minC {
		minC = bf
	}
	delta := maxC - minC

	val = maxC
	if maxC == 0 {
		return 0, 0, 0
	}
	sat = delta / maxC * 255

	if delta == 0 {
		return 0, sat, val
	}
	switch maxC {
	case rf:
		hue = 60 * ((gf - bf) / delta)
	case gf:
		hue = 60 * ((bf-rf)/delta + 2)
	default:
		hue = 60 * ((rf-gf)/delta + 4)
	}
	if hue < 0 {
		hue += 360
	}
	return hue, sat, val
}
