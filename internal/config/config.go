// Package config loads the dataset generator settings from an INI file.
//
// The file has a [Paths] section and a [Settings] section, both required,
// plus an optional [Verify] section:
//
//	[Paths]
//	input_text_file = lines.txt
//	output_dir = out
//	font_path = fonts/DejaVuSans.ttf
//
//	[Settings]
//	char_spacing = 10
//	text_alignment = center
//	padding = 10
//	font_size = 60
//	background_color = 1
//	text_color = 0
//	dpi = 300
//
// Key names are case-insensitive. A Config is immutable once loaded and is
// passed by pointer to the pipeline.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/ironsheep/ocr-linegen/internal/corpus"
	"github.com/ironsheep/ocr-linegen/internal/imaging"
	"github.com/ironsheep/ocr-linegen/internal/render"
)

// Config is the complete run configuration.
type Config struct {
	Paths    Paths
	Settings Settings
	Verify   Verify
}

// Paths locates the input, output and font.
type Paths struct {
	InputTextFile string
	OutputDir     string
	FontPath      string
}

// Settings controls how each line is rendered.
type Settings struct {
	CharSpacing int
	// TextAlignment is kept as written. It is only checked when a line is
	// rendered, so a bad value skips images but still writes text files.
	TextAlignment   string
	Padding         int
	FontSize        int
	BackgroundColor imaging.Bit
	TextColor       imaging.Bit
	DPI             int

	// Normalization is applied to each trimmed line before it is written
	// and rendered. Empty means the text is used verbatim.
	Normalization string
	Compression   imaging.Compression
}

// Verify controls the optional OCR read-back of every rendered image.
type Verify struct {
	Enabled        bool
	Language       string
	Scale          float64
	Margin         int
	MinSimilarity  float64
	TessdataPrefix string
}

// Default returns the render defaults used when a caller does not supply
// its own values. Paths are left empty.
func Default() *Config {
	r := render.DefaultOptions()
	return &Config{
		Settings: Settings{
			CharSpacing:     r.Spacing,
			TextAlignment:   r.Alignment,
			Padding:         r.Padding,
			FontSize:        r.FontSize,
			BackgroundColor: r.Background,
			TextColor:       r.Foreground,
			DPI:             r.DPI,
			Compression:     r.Compression,
		},
		Verify: Verify{
			Language: "eng",
			Scale:    2.0,
			Margin:   4,
		},
	}
}

// RenderOptions returns the renderer options described by s.
func (s Settings) RenderOptions() render.Options {
	return render.Options{
		FontSize:    s.FontSize,
		Background:  s.BackgroundColor,
		Foreground:  s.TextColor,
		DPI:         s.DPI,
		Spacing:     s.CharSpacing,
		Padding:     s.Padding,
		Alignment:   s.TextAlignment,
		Compression: s.Compression,
	}
}

// Load reads and validates the configuration file at path.
//
// Every [Paths] and [Settings] key listed in the package documentation is
// required. Integer settings must parse as integers, colours must be 0 or 1,
// and font_size and dpi must be positive. Any failure is returned as an error
// naming the offending section and key.
func Load(path string) (*Config, error) {
	f, err := ini.LoadSources(loadOptions, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return fromFile(f)
}

// Parse reads configuration from in-memory INI data.
func Parse(data []byte) (*Config, error) {
	f, err := ini.LoadSources(loadOptions, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return fromFile(f)
}

// loadOptions keeps '#' and ';' inside values: only whole-line comments are
// recognised.
var loadOptions = ini.LoadOptions{
	InsensitiveKeys:     true,
	IgnoreInlineComment: true,
}

func fromFile(f *ini.File) (*Config, error) {
	cfg := Default()
	r := &reader{file: f}

	cfg.Paths.InputTextFile = r.str("Paths", "input_text_file")
	cfg.Paths.OutputDir = r.str("Paths", "output_dir")
	cfg.Paths.FontPath = r.str("Paths", "font_path")

	s := &cfg.Settings
	s.CharSpacing = r.integer("Settings", "char_spacing")
	s.TextAlignment = r.str("Settings", "text_alignment")
	s.Padding = r.integer("Settings", "padding")
	s.FontSize = r.integer("Settings", "font_size")
	s.BackgroundColor = r.bit("Settings", "background_color")
	s.TextColor = r.bit("Settings", "text_color")
	s.DPI = r.integer("Settings", "dpi")
	if r.err != nil {
		return nil, r.err
	}

	if s.FontSize <= 0 {
		return nil, fmt.Errorf("config [Settings] font_size: must be positive, got %d", s.FontSize)
	}
	if s.DPI <= 0 {
		return nil, fmt.Errorf("config [Settings] dpi: must be positive, got %d", s.DPI)
	}

	settings := f.Section("Settings")
	if settings.HasKey("unicode_normalization") {
		form := settings.Key("unicode_normalization").String()
		_, ok, err := corpus.ParseForm(form)
		if err != nil {
			return nil, fmt.Errorf("config [Settings] unicode_normalization: %w", err)
		}
		if ok {
			s.Normalization = strings.ToUpper(strings.TrimSpace(form))
		}
	}
	if settings.HasKey("tiff_compression") {
		c, err := imaging.ParseCompression(settings.Key("tiff_compression").String())
		if err != nil {
			return nil, fmt.Errorf("config [Settings] tiff_compression: %w", err)
		}
		s.Compression = c
	}

	if err := loadVerify(f, &cfg.Verify); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadVerify(f *ini.File, v *Verify) error {
	sec, err := f.GetSection("Verify")
	if err != nil {
		return nil
	}

	if sec.HasKey("enabled") {
		b, err := sec.Key("enabled").Bool()
		if err != nil {
			return fmt.Errorf("config [Verify] enabled: %w", err)
		}
		v.Enabled = b
	}
	if sec.HasKey("language") {
		v.Language = sec.Key("language").String()
	}
	if sec.HasKey("scale") {
		scale, err := sec.Key("scale").Float64()
		if err != nil {
			return fmt.Errorf("config [Verify] scale: %w", err)
		}
		if scale <= 0 {
			return fmt.Errorf("config [Verify] scale: must be positive, got %g", scale)
		}
		v.Scale = scale
	}
	if sec.HasKey("margin") {
		m, err := strconv.Atoi(strings.TrimSpace(sec.Key("margin").String()))
		if err != nil {
			return fmt.Errorf("config [Verify] margin: %w", err)
		}
		if m < 0 {
			return fmt.Errorf("config [Verify] margin: must not be negative, got %d", m)
		}
		v.Margin = m
	}
	if sec.HasKey("min_similarity") {
		ms, err := sec.Key("min_similarity").Float64()
		if err != nil {
			return fmt.Errorf("config [Verify] min_similarity: %w", err)
		}
		if ms < 0 || ms > 1 {
			return fmt.Errorf("config [Verify] min_similarity: must be within 0..1, got %g", ms)
		}
		v.MinSimilarity = ms
	}
	if sec.HasKey("tessdata_prefix") {
		v.TessdataPrefix = sec.Key("tessdata_prefix").String()
	}
	return nil
}

// reader collects the first lookup error so required keys can be read in a
// straight line.
type reader struct {
	file *ini.File
	err  error
}

func (r *reader) key(section, name string) *ini.Key {
	if r.err != nil {
		return nil
	}
	sec, err := r.file.GetSection(section)
	if err != nil {
		r.err = fmt.Errorf("config: missing section [%s]", section)
		return nil
	}
	k, err := sec.GetKey(name)
	if err != nil {
		r.err = fmt.Errorf("config: missing key %s in [%s]", name, section)
		return nil
	}
	return k
}

func (r *reader) str(section, name string) string {
	k := r.key(section, name)
	if k == nil {
		return ""
	}
	return k.String()
}

func (r *reader) integer(section, name string) int {
	k := r.key(section, name)
	if k == nil {
		return 0
	}
	v, err := strconv.Atoi(strings.TrimSpace(k.String()))
	if err != nil {
		r.err = fmt.Errorf("config [%s] %s: invalid integer %q", section, name, k.String())
		return 0
	}
	return v
}

func (r *reader) bit(section, name string) imaging.Bit {
	v := r.integer(section, name)
	if r.err != nil {
		return imaging.Black
	}
	b, err := imaging.BitFromInt(v)
	if err != nil {
		r.err = fmt.Errorf("config [%s] %s: %w", section, name, err)
	}
	return b
}
