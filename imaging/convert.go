package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"math"
	"os"

	// Stdlib decoders for the common embedded encodings.
	_ "image/gif"
	_ "image/jpeg"

	// Lossless encodings that show up in print-oriented documents.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// saturationFactor is applied after the inverted CMYK conversion, which
// oversaturates. 0.75 keeps 75% of the converted chroma.
const saturationFactor = 0.75

// Decode decodes encoded image bytes into an image.Image.
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("imaging: decode: %w", err)
	}
	return img, nil
}

// Normalize decodes encoded image bytes and converts the pixels to a
// directly renderable encoding. Images using the inverted four-channel
// subtractive convention are converted to RGB and desaturated; images
// carrying an alpha channel pass through as RGBA; monochrome and paletted
// images are promoted to truecolor.
//
// A decode failure is returned as an error; callers treat it as a
// per-item recoverable condition.
func Normalize(data []byte) (image.Image, error) {
	img, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return NormalizeImage(img), nil
}

// NormalizeImage is the pixel-space half of Normalize, for callers that
// already hold a decoded image.
func NormalizeImage(img image.Image) image.Image {
	switch src := img.(type) {
	case *image.CMYK:
		rgb := invertedCMYKToRGB(src)
		adjustSaturation(rgb, saturationFactor)
		return rgb
	case *image.NRGBA:
		return src
	case *image.RGBA:
		return src
	case *image.NRGBA64, *image.RGBA64, *image.NYCbCrA:
		return toNRGBA(src)
	default:
		// Gray, Gray16, Paletted, YCbCr and anything else: promote to
		// opaque truecolor.
		return toRGBA(src)
	}
}

// invertedCMYKToRGB converts four-channel subtractive pixels stored with the
// inverted convention (0 = full coverage) to RGB. For each channel the raw
// byte is first inverted and normalized, then the standard conversion
// output = 255 * (1-coverage) * (1-key) is applied.
func invertedCMYKToRGB(src *image.CMYK) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))

	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			si := src.PixOffset(b.Min.X+x, b.Min.Y+y)
			c := (255 - float64(src.Pix[si+0])) / 255
			m := (255 - float64(src.Pix[si+1])) / 255
			yl := (255 - float64(src.Pix[si+2])) / 255
			k := (255 - float64(src.Pix[si+3])) / 255

			di := dst.PixOffset(x, y)
			dst.Pix[di+0] = clampByte(255 * (1 - c) * (1 - k))
			dst.Pix[di+1] = clampByte(255 * (1 - m) * (1 - k))
			dst.Pix[di+2] = clampByte(255 * (1 - yl) * (1 - k))
			dst.Pix[di+3] = 255
		}
	}
	return dst
}

// adjustSaturation blends each pixel toward its ITU-R 601 luminance.
// factor 1 leaves the image unchanged, 0 produces grayscale.
func adjustSaturation(img *image.RGBA, factor float64) {
	for i := 0; i < len(img.Pix); i += 4 {
		r := int(img.Pix[i])
		g := int(img.Pix[i+1])
		b := int(img.Pix[i+2])
		l := float64((r*299 + g*587 + b*114) / 1000)

		img.Pix[i+0] = clampByte(l + factor*(float64(r)-l))
		img.Pix[i+1] = clampByte(l + factor*(float64(g)-l))
		img.Pix[i+2] = clampByte(l + factor*(float64(b)-l))
	}
}

func clampByte(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

func toNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// EncodePNG writes img as an uncompressed PNG. Compression is deliberately
// left to the archive layer, which deflates every non-marker entry anyway.
func EncodePNG(w io.Writer, img image.Image) error {
	enc := png.Encoder{CompressionLevel: png.NoCompression}
	if err := enc.Encode(w, img); err != nil {
		return fmt.Errorf("imaging: encode png: %w", err)
	}
	return nil
}

// SavePNG writes img as an uncompressed PNG file at path.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("imaging: create %s: %w", path, err)
	}
	if err := EncodePNG(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
