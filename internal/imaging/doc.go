// Package imaging provides the raster primitives used to produce OCR line images.
//
// This package implements a strictly two-level (bilevel) bitmap, a baseline
// TIFF encoder for such bitmaps that embeds DPI metadata, and the small set of
// inspection helpers used to check rendered output: loading, metadata, ink
// bounds, margins and cropping. All coordinates use the standard Go image
// convention where (0,0) is the top-left corner, X increases rightward and Y
// increases downward.
//
// # Bit Values
//
// A Bit is either Black (0) or White (1). This matches the values accepted by
// the background_color and text_color settings, so a configured colour can be
// converted with BitFromInt and used directly.
//
// # TIFF Output
//
// EncodeTIFF writes a single-strip, 1 bit per sample TIFF with
// PhotometricInterpretation BlackIsZero. The X and Y resolution tags carry
// the configured DPI and the resolution unit is inches. DPI is informational
// only and never changes the pixel dimensions.
//
// Supported compressions:
//   - CompressionNone: raw packed rows (the default)
//   - CompressionPackBits: per-row PackBits run-length encoding
//   - CompressionDeflate: zlib (Adobe Deflate) over the whole strip
//
// # Thread Safety
//
// A Bitmap is not safe for concurrent mutation. The encoding and inspection
// functions are stateless.
package imaging
