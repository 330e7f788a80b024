// Package imaging normalizes embedded raster images to directly renderable
// pixel encodings and persists them losslessly.
//
// The one non-obvious path is four-channel subtractive color stored with
// the inverted convention, common in print-oriented sources: channels are
// inverted before the standard CMYK-to-RGB conversion, and the result is
// pulled back to 75% saturation because the inverted convention
// oversaturates. Alpha-bearing images pass through as RGBA, monochrome and
// paletted images are promoted to truecolor.
package imaging
