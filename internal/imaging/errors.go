// Bloomwatch - Algal Bloom Risk Assessment for Ponds and Lakes
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bloomwatch

package imaging

import "fmt"

// InvalidImageError reports an image that could not be decoded or whose
// format is unsupported. The caller must re-prompt for a new image; the
// pipeline never retries decoding automatically.
type InvalidImageError struct {
	Reason string
	Err    error
}

func (e *InvalidImageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid image: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid image: %s", e.Reason)
}

func (e *InvalidImageError) Unwrap() error { return e.Err }

// UnsupportedSizeError reports an image with degenerate dimensions.
type UnsupportedSizeError struct {
	Width  int
	Height int
}

func (e *UnsupportedSizeError) Error() string {
	return fmt.Sprintf("unsupported image size %dx%d: width and height must be positive", e.Width, e.Height)
}
