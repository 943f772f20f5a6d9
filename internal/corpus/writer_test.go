package corpus

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGroundTruthPath(t *testing.T) {
	got := GroundTruthPath("out", 12)
	if want := filepath.Join("out", "12.gt.txt"); got != want {
		t.Errorf("GroundTruthPath = %q, want %q", got, want)
	}
}

func TestWriteGroundTruth(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteGroundTruth("Hello Wörld", 0, dir)
	if err != nil {
		t.Fatalf("WriteGroundTruth failed: %v", err)
	}
	if path != filepath.Join(dir, "0.gt.txt") {
		t.Errorf("path = %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read back: %v", err)
	}
	if string(data) != "Hello Wörld" {
		t.Errorf("content = %q, want %q (no trailing newline)", data, "Hello Wörld")
	}
}

func TestWriteGroundTruth_Overwrites(t *testing.T) {
	dir := t.TempDir()

	if _, err := WriteGroundTruth("a much longer first version", 5, dir); err != nil {
		t.Fatalf("first write failed: %v", err)
	}
	path, err := WriteGroundTruth("short", 5, dir)
	if err != nil {
		t.Fatalf("second write failed: %v", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "short" {
		t.Errorf("content = %q, want %q", data, "short")
	}
}

func TestWriteGroundTruth_CreatesDirectories(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "c")

	path, err := WriteGroundTruth("x", 3, dir)
	if err != nil {
		t.Fatalf("WriteGroundTruth failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("file not created: %v", err)
	}
}

func TestWriteGroundTruth_OutputIsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := WriteGroundTruth("x", 0, file); err == nil {
		t.Error("WriteGroundTruth should fail when the output path is a file")
	}
}
