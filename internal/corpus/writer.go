package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// GroundTruthPath returns the path of the ground-truth file for a line index.
func GroundTruthPath(outputDir string, index int) string {
	return filepath.Join(outputDir, strconv.Itoa(index)+".gt.txt")
}

// WriteGroundTruth writes text to <outputDir>/<index>.gt.txt and returns the
// path.
//
// The output directory and its parents are created if needed. The text is
// written exactly as given, UTF-8, without a trailing newline. An existing
// file is overwritten.
func WriteGroundTruth(text string, index int, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := GroundTruthPath(outputDir, index)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("failed to write ground truth: %w", err)
	}
	return path, nil
}
