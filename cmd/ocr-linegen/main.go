package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/ironsheep/ocr-linegen/internal/config"
	"github.com/ironsheep/ocr-linegen/internal/corpus"
	"github.com/ironsheep/ocr-linegen/internal/imaging"
	"github.com/ironsheep/ocr-linegen/internal/pipeline"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("ocr-linegen %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printUsage()
			return
		case "inspect":
			if len(os.Args) != 3 {
				fmt.Fprintln(os.Stderr, "usage: ocr-linegen inspect <image.tif>")
				os.Exit(2)
			}
			if err := inspect(os.Args[2]); err != nil {
				log.Fatalf("Inspect failed: %v", err)
			}
			return
		case "overlay":
			if len(os.Args) < 4 || len(os.Args) > 5 {
				fmt.Fprintln(os.Stderr, "usage: ocr-linegen overlay <image.tif> <out.png> [grid-spacing]")
				os.Exit(2)
			}
			spacing := 10
			if len(os.Args) == 5 {
				n, err := strconv.Atoi(os.Args[4])
				if err != nil {
					log.Fatalf("Invalid grid spacing %q: %v", os.Args[4], err)
				}
				spacing = n
			}
			if err := overlay(os.Args[2], os.Args[3], spacing); err != nil {
				log.Fatalf("Overlay failed: %v", err)
			}
			return
		}
	}

	configPath := flag.String("config", "config.ini", "path to the INI configuration file")
	flag.Parse()

	log.SetFlags(log.Ldate | log.Ltime)
	debug := os.Getenv("OCR_LINEGEN_LOG_LEVEL") == "debug"
	if debug {
		log.Printf("ocr-linegen v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	if err := run(*configPath, debug); err != nil {
		log.Fatal(err)
	}
}

// run loads the configuration and processes the input file. A missing or
// undecodable input file has already been reported by the pipeline and ends
// the run normally.
func run(configPath string, debug bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	_, err = pipeline.Run(cfg, pipeline.Options{Debug: debug})
	switch {
	case err == nil,
		errors.Is(err, corpus.ErrInputNotFound),
		errors.Is(err, corpus.ErrInvalidEncoding):
		return nil
	default:
		return fmt.Errorf("run failed: %w", err)
	}
}

func inspect(path string) error {
	info, err := imaging.LoadImageInfo(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(info)
}

func overlay(in, out string, spacing int) error {
	img, err := imaging.Load(in)
	if err != nil {
		return err
	}
	opts := imaging.DefaultOverlayOptions()
	opts.GridSpacing = spacing
	opts.Background = imaging.DominantBit(img)
	if err := imaging.SaveOverlay(img, out, opts); err != nil {
		return err
	}
	fmt.Printf("Overlay saved to: %s\n", out)
	return nil
}

func printUsage() {
	fmt.Println("ocr-linegen - render text lines as OCR training images")
	fmt.Println()
	fmt.Println("Usage: ocr-linegen [-config config.ini]")
	fmt.Println("       ocr-linegen inspect <image.tif>")
	fmt.Println("       ocr-linegen overlay <image.tif> <out.png> [grid-spacing]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -config <path>   Configuration file (default config.ini)")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  OCR_LINEGEN_LOG_LEVEL=debug  Enable debug logging")
	fmt.Println()
	fmt.Println("For every non-blank line i of the input file, writes i.gt.txt and")
	fmt.Println("i.tif (1-bit TIFF) into the configured output directory.")
}
