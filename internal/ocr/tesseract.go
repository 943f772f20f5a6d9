package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"
)

// Recognize runs Tesseract on img as a single line of text.
//
// The image is encoded to PNG in memory, so no temporary file is needed.
//
// Parameters:
//   - img: the (already prepared) line image.
//   - language: Tesseract language code, e.g. "eng".
//   - tessdataPrefix: optional tessdata directory; empty uses the default.
//
// Returns the raw recognised text, or an error if Tesseract cannot be
// initialised or recognition fails.
func Recognize(img image.Image, language, tessdataPrefix string) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode image for OCR: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if tessdataPrefix != "" {
		if err := client.SetTessdataPrefix(tessdataPrefix); err != nil {
			return "", fmt.Errorf("failed to set tessdata path: %w", err)
		}
	}

	if err := client.SetLanguage(language); err != nil {
		return "", fmt.Errorf("failed to set language: %w", err)
	}

	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_LINE); err != nil {
		return "", fmt.Errorf("failed to set page segmentation mode: %w", err)
	}

	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return text, nil
}
