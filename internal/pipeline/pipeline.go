// Package pipeline drives line reading, ground-truth writing, rendering and
// optional OCR verification for one run.
package pipeline

import (
	"errors"
	"fmt"
	"log"

	"github.com/ironsheep/ocr-linegen/internal/config"
	"github.com/ironsheep/ocr-linegen/internal/corpus"
	"github.com/ironsheep/ocr-linegen/internal/ocr"
	"github.com/ironsheep/ocr-linegen/internal/render"
)

// Summary counts what a run produced.
type Summary struct {
	LinesRead      int     `json:"lines_read"`
	BlankLines     int     `json:"blank_lines"`
	TextFiles      int     `json:"text_files"`
	Images         int     `json:"images"`
	RenderFailures int     `json:"render_failures"`
	Verified       int     `json:"verified"`
	VerifyFailures int     `json:"verify_failures"`
	MeanSimilarity float64 `json:"mean_similarity"`
}

// Options configure a Pipeline.
type Options struct {
	// Logger receives progress and error messages. Nil uses log.Default().
	Logger *log.Logger
	// Debug enables per-line detail.
	Debug bool
}

type verifyFunc func(imagePath, groundTruth string, opts ocr.Options) (*ocr.VerifyResult, error)

// Pipeline processes the configured input file line by line.
type Pipeline struct {
	cfg    *config.Config
	log    *log.Logger
	debug  bool
	verify verifyFunc

	similaritySum float64
}

// New creates a pipeline for cfg. The config is only read.
func New(cfg *config.Config, opts Options) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Pipeline{
		cfg:    cfg,
		log:    logger,
		debug:  opts.Debug,
		verify: ocr.Verify,
	}
}

// Run is shorthand for New(cfg, opts).Run().
func Run(cfg *config.Config, opts Options) (*Summary, error) {
	return New(cfg, opts).Run()
}

// Run reads every input line and, for each non-blank one in order, writes
// <index>.gt.txt, renders <index>.tif and optionally verifies the image.
//
// A missing or undecodable input file is logged and returned before any
// output is produced. A failure to write a ground-truth file stops the run.
// Render and verify failures are logged and only skip that line's image or
// check; the text file for the line is kept.
func (p *Pipeline) Run() (*Summary, error) {
	sum := &Summary{}
	input := p.cfg.Paths.InputTextFile

	r, err := corpus.Open(input)
	if err != nil {
		switch {
		case errors.Is(err, corpus.ErrInputNotFound):
			p.log.Printf("Input text file not found at: %s", input)
		case errors.Is(err, corpus.ErrInvalidEncoding):
			p.log.Printf("Cannot read file '%s' with UTF-8 encoding.", input)
			p.log.Printf("Try using a different encoding or check the file for special characters.")
		default:
			p.log.Printf("Failed to read input text file: %v", err)
		}
		return sum, err
	}

	for {
		line, ok := r.Next()
		if !ok {
			break
		}
		sum.LinesRead++
		if err := p.processLine(line, sum); err != nil {
			return sum, err
		}
	}

	if sum.Verified > 0 {
		sum.MeanSimilarity = p.similaritySum / float64(sum.Verified)
	}

	p.log.Printf("Processed %d lines: %d text files, %d images, %d images skipped",
		sum.LinesRead, sum.TextFiles, sum.Images, sum.RenderFailures)
	if p.cfg.Verify.Enabled {
		p.log.Printf("Verified %d images: mean similarity %.3f, %d below threshold",
			sum.Verified, sum.MeanSimilarity, sum.VerifyFailures)
	}
	return sum, nil
}

func (p *Pipeline) processLine(line corpus.Line, sum *Summary) error {
	if line.Blank() {
		sum.BlankLines++
		p.debugf("Skipping blank line %d", line.Index)
		return nil
	}

	text, err := corpus.Normalize(line.Text(), p.cfg.Settings.Normalization)
	if err != nil {
		return fmt.Errorf("line %d: %w", line.Index, err)
	}

	gtPath, err := corpus.WriteGroundTruth(text, line.Index, p.cfg.Paths.OutputDir)
	if err != nil {
		return fmt.Errorf("line %d: %w", line.Index, err)
	}
	sum.TextFiles++
	p.debugf("Ground truth saved to: %s", gtPath)

	res, ok := p.renderLine(text, line.Index)
	if !ok {
		sum.RenderFailures++
		return nil
	}
	sum.Images++

	if p.cfg.Verify.Enabled {
		p.verifyLine(res.Path, text, sum)
	}
	return nil
}

func (p *Pipeline) renderLine(text string, index int) (*render.Result, bool) {
	fontPath := p.cfg.Paths.FontPath

	p.log.Printf("Loading font from: %s", fontPath)
	res, err := render.RenderLine(text, fontPath, index, p.cfg.Paths.OutputDir, p.cfg.Settings.RenderOptions())
	if err != nil {
		if errors.Is(err, render.ErrFontNotFound) {
			p.log.Printf("Font file not found at: %s", fontPath)
		} else {
			p.log.Printf("An error occurred: %v", err)
		}
		return nil, false
	}

	p.log.Printf("Image saved to: %s with DPI: %d", res.Path, res.DPI)
	p.debugf("Line %d layout: canvas %dx%d, text %dx%d, x=%d",
		index, res.Layout.CanvasWidth, res.Layout.CanvasHeight,
		res.Layout.TextWidth, res.Layout.TextHeight, res.Layout.X)
	return res, true
}

func (p *Pipeline) verifyLine(imagePath, text string, sum *Summary) {
	v := p.cfg.Verify
	res, err := p.verify(imagePath, text, ocr.Options{
		Language:       v.Language,
		Scale:          v.Scale,
		Margin:         v.Margin,
		Background:     p.cfg.Settings.BackgroundColor,
		MinSimilarity:  v.MinSimilarity,
		TessdataPrefix: v.TessdataPrefix,
	})
	if err != nil {
		sum.VerifyFailures++
		p.log.Printf("Verification failed for %s: %v", imagePath, err)
		return
	}

	sum.Verified++
	p.similaritySum += res.Similarity
	if !res.Passed {
		sum.VerifyFailures++
		p.log.Printf("Low OCR similarity for %s: %.3f (expected %q, got %q)",
			imagePath, res.Similarity, res.Expected, res.Recognized)
		return
	}
	p.debugf("Verified %s: similarity %.3f", imagePath, res.Similarity)
}

func (p *Pipeline) debugf(format string, args ...interface{}) {
	if p.debug {
		p.log.Printf(format, args...)
	}
}
