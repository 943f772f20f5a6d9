package ocr

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/ironsheep/ocr-linegen/internal/imaging"
)

// Options controls Verify.
type Options struct {
	// Language is the Tesseract language code. Defaults to "eng".
	Language string
	// Scale is the upscaling factor applied before recognition.
	Scale float64
	// Margin is the background border (in source pixels) kept around the ink.
	Margin int
	// Background is the background bit of the rendered image.
	Background imaging.Bit
	// MinSimilarity is the threshold for VerifyResult.Passed.
	MinSimilarity float64
	// TessdataPrefix overrides the tessdata directory when non-empty.
	TessdataPrefix string
}

// VerifyResult reports how well a rendered line reads back.
type VerifyResult struct {
	ImagePath  string  `json:"image_path"`
	Expected   string  `json:"expected"`
	Recognized string  `json:"recognized"`
	Distance   int     `json:"distance"`
	Similarity float64 `json:"similarity"`
	Passed     bool    `json:"passed"`
}

// Verify recognises the line image at imagePath and compares it with
// groundTruth.
//
// The image is loaded, cropped to its ink with opts.Margin pixels of border,
// scaled by opts.Scale and binarised before it is passed to Recognize.
// Surrounding whitespace of the recognised text is ignored.
//
// Returns an error if the image cannot be loaded, has no ink, or Tesseract
// fails. A low similarity is not an error; check Passed.
func Verify(imagePath, groundTruth string, opts Options) (*VerifyResult, error) {
	if opts.Language == "" {
		opts.Language = "eng"
	}

	img, err := imaging.Load(imagePath)
	if err != nil {
		return nil, err
	}

	prepared, err := imaging.CropToInk(img, opts.Background, opts.Margin, opts.Scale)
	if err != nil {
		return nil, err
	}

	text, err := Recognize(prepared, opts.Language, opts.TessdataPrefix)
	if err != nil {
		return nil, err
	}

	recognized := strings.TrimSpace(text)
	distance, similarity := Similarity(groundTruth, recognized)

	return &VerifyResult{
		ImagePath:  imagePath,
		Expected:   groundTruth,
		Recognized: recognized,
		Distance:   distance,
		Similarity: similarity,
		Passed:     similarity >= opts.MinSimilarity,
	}, nil
}

// Similarity returns the rune-level Levenshtein distance between expected
// and recognized and the normalised similarity in [0, 1].
func Similarity(expected, recognized string) (distance int, similarity float64) {
	longest := max(utf8.RuneCountInString(expected), utf8.RuneCountInString(recognized))
	if longest == 0 {
		return 0, 1
	}
	distance = levenshtein.ComputeDistance(expected, recognized)
	return distance, 1 - float64(distance)/float64(longest)
}
