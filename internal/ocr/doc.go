// Package ocr reads rendered line images back with Tesseract.
//
// This package wraps the Tesseract OCR engine (via gosseract/v2) to check
// that a generated line image is legible: the image is cropped to its ink,
// upscaled, binarised and recognised as a single text line, and the result
// is compared with the ground-truth text using Levenshtein distance.
//
// # Prerequisites
//
// Tesseract and its development headers must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr libtesseract-dev
//   - macOS: brew install tesseract
//
// Language data files are required for each language used:
//   - Ubuntu/Debian: apt-get install tesseract-ocr-eng (for English)
//
// A custom tessdata directory can be given with Options.TessdataPrefix.
//
// # Similarity
//
// Similarity is 1 - distance/max(len(expected), len(recognized)), counted
// in runes. Two empty strings are identical (similarity 1).
//
// # Performance Considerations
//
// OCR is far slower than rendering. Verification is therefore off by
// default and enabled per run from the [Verify] configuration section.
package ocr
