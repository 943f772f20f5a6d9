package imaging

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Compression selects how the TIFF strip is stored.
type Compression int

const (
	CompressionNone Compression = iota
	CompressionPackBits
	CompressionDeflate
)

// TIFF tag numbers and field types used by the encoder and reader.
const (
	tagImageWidth      = 256
	tagImageLength     = 257
	tagBitsPerSample   = 258
	tagCompression     = 259
	tagPhotometric     = 262
	tagStripOffsets    = 273
	tagSamplesPerPixel = 277
	tagRowsPerStrip    = 278
	tagStripByteCounts = 279
	tagXResolution     = 282
	tagYResolution     = 283
	tagResolutionUnit  = 296

	dtShort    = 3
	dtLong     = 4
	dtRational = 5

	photometricBlackIsZero = 1
	resolutionUnitInch     = 2
	resolutionUnitCM       = 3
)

// ParseCompression maps a configuration value to a Compression.
//
// Accepted values (case-insensitive): "" / "none" / "raw", "packbits",
// "deflate" / "zip".
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "raw":
		return CompressionNone, nil
	case "packbits":
		return CompressionPackBits, nil
	case "deflate", "zip":
		return CompressionDeflate, nil
	default:
		return CompressionNone, fmt.Errorf("unknown TIFF compression: %s", s)
	}
}

func (c Compression) String() string {
	switch c {
	case CompressionPackBits:
		return "packbits"
	case CompressionDeflate:
		return "deflate"
	default:
		return "none"
	}
}

func (c Compression) tagValue() uint32 {
	switch c {
	case CompressionPackBits:
		return 32773
	case CompressionDeflate:
		return 8
	default:
		return 1
	}
}

// TIFFOptions controls EncodeTIFF.
type TIFFOptions struct {
	// DPI is written to both XResolution and YResolution. Must be positive.
	DPI int
	// Compression of the single image strip.
	Compression Compression
}

type ifdEntry struct {
	tag   uint16
	typ   uint16
	count uint32
	value uint32
}

// EncodeTIFF writes b as a 1-bit baseline TIFF.
//
// The file is little-endian and laid out as header, strip data, IFD and then
// the two resolution rationals. Bits are stored with BlackIsZero photometric
// interpretation, so a White bit is stored as 1.
//
// Returns an error if the bitmap is empty, the DPI is not positive, or
// writing fails.
func EncodeTIFF(w io.Writer, b *Bitmap, opts TIFFOptions) error {
	width, height := b.Rect.Dx(), b.Rect.Dy()
	if width <= 0 || height <= 0 {
		return fmt.Errorf("cannot encode empty bitmap (%dx%d)", width, height)
	}
	if opts.DPI <= 0 {
		return fmt.Errorf("invalid DPI: %d", opts.DPI)
	}

	strip, err := compressStrip(b, opts.Compression)
	if err != nil {
		return fmt.Errorf("failed to compress strip: %w", err)
	}

	stripOffset := uint32(8)
	ifdOffset := stripOffset + uint32(len(strip))
	if ifdOffset%2 == 1 {
		ifdOffset++
	}

	entries := []ifdEntry{
		{tagImageWidth, dtLong, 1, uint32(width)},
		{tagImageLength, dtLong, 1, uint32(height)},
		{tagBitsPerSample, dtShort, 1, 1},
		{tagCompression, dtShort, 1, opts.Compression.tagValue()},
		{tagPhotometric, dtShort, 1, photometricBlackIsZero},
		{tagStripOffsets, dtLong, 1, stripOffset},
		{tagSamplesPerPixel, dtShort, 1, 1},
		{tagRowsPerStrip, dtLong, 1, uint32(height)},
		{tagStripByteCounts, dtLong, 1, uint32(len(strip))},
		{tagXResolution, dtRational, 1, 0},
		{tagYResolution, dtRational, 1, 0},
		{tagResolutionUnit, dtShort, 1, resolutionUnitInch},
	}
	ifdSize := uint32(2 + len(entries)*12 + 4)
	xResOffset := ifdOffset + ifdSize
	yResOffset := xResOffset + 8
	entries[9].value = xResOffset
	entries[10].value = yResOffset

	le := binary.LittleEndian
	out := make([]byte, yResOffset+8)
	copy(out, "II")
	le.PutUint16(out[2:], 42)
	le.PutUint32(out[4:], ifdOffset)
	copy(out[stripOffset:], strip)

	p := out[ifdOffset:]
	le.PutUint16(p, uint16(len(entries)))
	p = p[2:]
	for _, e := range entries {
		le.PutUint16(p[0:], e.tag)
		le.PutUint16(p[2:], e.typ)
		le.PutUint32(p[4:], e.count)
		if e.typ == dtShort {
			le.PutUint16(p[8:], uint16(e.value))
		} else {
			le.PutUint32(p[8:], e.value)
		}
		p = p[12:]
	}
	// next IFD offset stays 0

	le.PutUint32(out[xResOffset:], uint32(opts.DPI))
	le.PutUint32(out[xResOffset+4:], 1)
	le.PutUint32(out[yResOffset:], uint32(opts.DPI))
	le.PutUint32(out[yResOffset+4:], 1)

	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("failed to write TIFF: %w", err)
	}
	return nil
}

// SaveTIFF encodes b to the file at path, replacing any existing file.
func SaveTIFF(path string, b *Bitmap, opts TIFFOptions) error {
	var buf bytes.Buffer
	if err := EncodeTIFF(&buf, b, opts); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}

func compressStrip(b *Bitmap, c Compression) ([]byte, error) {
	height := b.Rect.Dy()
	switch c {
	case CompressionNone:
		out := make([]byte, 0, b.Stride*height)
		for y := 0; y < height; y++ {
			out = append(out, b.row(y)...)
		}
		return out, nil
	case CompressionPackBits:
		var out []byte
		for y := 0; y < height; y++ {
			out = packBits(out, b.row(y))
		}
		return out, nil
	case CompressionDeflate:
		var buf bytes.Buffer
		zw := zlib.NewWriter(&buf)
		for y := 0; y < height; y++ {
			if _, err := zw.Write(b.row(y)); err != nil {
				return nil, err
			}
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported compression %d", c)
	}
}

// packBits appends the PackBits encoding of src to dst.
//
// Runs of three or more identical bytes become replicate runs, everything
// else is emitted as literal runs of at most 128 bytes.
func packBits(dst, src []byte) []byte {
	i := 0
	for i < len(src) {
		j := i + 1
		for j < len(src) && src[j] == src[i] && j-i < 128 {
			j++
		}
		if j-i >= 3 {
			dst = append(dst, byte(int8(1-(j-i))), src[i])
			i = j
			continue
		}

		start := i
		for i < len(src) && i-start < 128 {
			if i+2 < len(src) && src[i] == src[i+1] && src[i] == src[i+2] {
				break
			}
			i++
		}
		dst = append(dst, byte(i-start-1))
		dst = append(dst, src[start:i]...)
	}
	return dst
}

// TIFFInfo holds the header fields read back by DecodeTIFFInfo.
type TIFFInfo struct {
	Width          int
	Height         int
	BitsPerSample  int
	Compression    int
	Photometric    int
	XResolution    float64
	YResolution    float64
	ResolutionUnit int
}

// DPI returns the horizontal resolution in dots per inch, converting from
// centimetres when needed. Zero means no resolution was recorded.
func (t *TIFFInfo) DPI() float64 {
	if t.ResolutionUnit == resolutionUnitCM {
		return t.XResolution * 2.54
	}
	return t.XResolution
}

var errNotTIFF = errors.New("not a TIFF file")

// DecodeTIFFInfo reads the first IFD of a TIFF file and returns its basic
// header fields, including the resolution tags that image decoders drop.
//
// Both byte orders are accepted. Only the first image is inspected.
func DecodeTIFFInfo(r io.ReaderAt) (*TIFFInfo, error) {
	var hdr [8]byte
	if _, err := r.ReadAt(hdr[:], 0); err != nil {
		return nil, fmt.Errorf("failed to read TIFF header: %w", err)
	}

	var bo binary.ByteOrder
	switch string(hdr[:2]) {
	case "II":
		bo = binary.LittleEndian
	case "MM":
		bo = binary.BigEndian
	default:
		return nil, errNotTIFF
	}
	if bo.Uint16(hdr[2:]) != 42 {
		return nil, errNotTIFF
	}
	ifdOffset := int64(bo.Uint32(hdr[4:]))

	var cnt [2]byte
	if _, err := r.ReadAt(cnt[:], ifdOffset); err != nil {
		return nil, fmt.Errorf("failed to read IFD: %w", err)
	}
	n := int(bo.Uint16(cnt[:]))
	raw := make([]byte, n*12)
	if _, err := r.ReadAt(raw, ifdOffset+2); err != nil {
		return nil, fmt.Errorf("failed to read IFD entries: %w", err)
	}

	info := &TIFFInfo{ResolutionUnit: resolutionUnitInch}
	for i := 0; i < n; i++ {
		e := raw[i*12 : (i+1)*12]
		tag := bo.Uint16(e[0:])
		typ := bo.Uint16(e[2:])

		var v uint32
		if typ == dtShort {
			v = uint32(bo.Uint16(e[8:]))
		} else {
			v = bo.Uint32(e[8:])
		}

		switch tag {
		case tagImageWidth:
			info.Width = int(v)
		case tagImageLength:
			info.Height = int(v)
		case tagBitsPerSample:
			info.BitsPerSample = int(v)
		case tagCompression:
			info.Compression = int(v)
		case tagPhotometric:
			info.Photometric = int(v)
		case tagResolutionUnit:
			info.ResolutionUnit = int(v)
		case tagXResolution, tagYResolution:
			res, err := readRational(r, bo, int64(v))
			if err != nil {
				return nil, err
			}
			if tag == tagXResolution {
				info.XResolution = res
			} else {
				info.YResolution = res
			}
		}
	}
	return info, nil
}

func readRational(r io.ReaderAt, bo binary.ByteOrder, off int64) (float64, error) {
	var b [8]byte
	if _, err := r.ReadAt(b[:], off); err != nil {
		return 0, fmt.Errorf("failed to read rational: %w", err)
	}
	num, den := bo.Uint32(b[0:]), bo.Uint32(b[4:])
	if den == 0 {
		return 0, nil
	}
	return float64(num) / float64(den), nil
}
