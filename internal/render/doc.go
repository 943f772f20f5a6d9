// Package render rasterises a single line of text into a bilevel TIFF.
//
// Rendering happens in two passes over the runes of the line. The sizing
// pass measures every rune with the pen at the origin and derives the text
// width (sum of rune widths plus spacing between runes) and the text height
// (tallest rune). The canvas is the text box plus padding on every side.
// The draw pass starts at the aligned x position, measures every rune again
// at the current pen position, draws it, and advances by the measured width
// plus spacing, including after the final rune.
//
// # Rune Boxes
//
// A rune's box spans horizontally from the leftmost of its ink and its pen
// position to the rightmost of its ink and its advance, so spaces have a
// width equal to their advance. Vertically the box covers only the ink;
// runes without ink have zero height.
//
// # Known Inconsistencies
//
// The two passes differ in two ways:
//
//   - The draw pass measures at the pen position while the sizing pass
//     measures at the origin. With fractional pen positions the rounded
//     widths may differ by a pixel.
//   - The draw pass adds spacing after the last rune while the sizing pass
//     does not, which matters only for the final cursor position.
//
// # Output
//
// Glyphs are drawn anti-aliased onto a grayscale scratch canvas and then
// thresholded at mid-grey (bild's segment.Threshold) into an
// imaging.Bitmap, which is saved as <index>.tif with the configured DPI.
package render
