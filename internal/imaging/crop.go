package imaging

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"
)

// CropToInk extracts the inked part of a line image for recognition.
//
// The ink bounds are cropped, surrounded by margin pixels of background,
// inverted to dark-on-light when the background is Black, scaled by scale
// (Lanczos) and thresholded back to two levels at mid-grey.
func CropToInk(img image.Image, background Bit, margin int, scale float64) (*image.Gray, error) {
	if margin < 0 {
		return nil, fmt.Errorf("invalid margin: %d", margin)
	}
	ink, ok := InkBounds(img, background)
	if !ok {
		return nil, fmt.Errorf("image has no ink")
	}

	cropped := imaging.Crop(img, ink)
	out := imaging.New(ink.Dx()+2*margin, ink.Dy()+2*margin, background)
	out = imaging.Paste(out, cropped, image.Pt(margin, margin))

	if background == Black {
		out = imaging.Invert(out)
	}

	if scale > 0 && scale != 1.0 {
		newWidth := int(float64(out.Bounds().Dx()) * scale)
		newHeight := int(float64(out.Bounds().Dy()) * scale)
		if newWidth < 1 || newHeight < 1 {
			return nil, fmt.Errorf("scale %.2f too small for %dx%d crop", scale, out.Bounds().Dx(), out.Bounds().Dy())
		}
		out = imaging.Resize(out, newWidth, newHeight, imaging.Lanczos)
	}

	return segment.Threshold(out, 128), nil
}
