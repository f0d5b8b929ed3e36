// Package imageutil decodes referenced images into the metadata and
// encoder-ready byte streams the pipeline embeds into PDF files.
//
// Supported formats: png, jpeg, gif, webp, bmp. Baseline JPEG data passes
// through untouched (PDF decodes DCT natively); every other format is
// flattened to 8-bit RGB over a white background and deflate-compressed.
package imageutil

import (
	"bytes"
	"compress/zlib"
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"

	// Decoder registrations for image.Decode / image.DecodeConfig.
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// MaxImageBytes limits source image size to prevent memory exhaustion (default 64MB).
var MaxImageBytes = 64 << 20

// Sentinel errors for image loading.
var (
	ErrDecode   = errors.New("image decode failed")
	ErrTooLarge = errors.New("image exceeds maximum size")
)

// Stream filter names as they appear in the PDF image dictionary.
const (
	FilterDCT   = "DCTDecode"
	FilterFlate = "FlateDecode"
)

// Color space names as they appear in the PDF image dictionary.
const (
	ColorSpaceRGB  = "DeviceRGB"
	ColorSpaceGray = "DeviceGray"
)

// Resource is a decoded image ready for embedding: dimension metadata for
// the layout engine plus the exact stream bytes and dictionary entries the
// PDF encoder writes out.
type Resource struct {
	WidthPx     int
	HeightPx    int
	Format      string // source format tag: "png", "jpeg", ...
	ByteLen     int    // size of the source file
	ColorSpace  string
	BitsPerComp int
	Filter      string
	Data        []byte
}

// Load reads and decodes the image at path.
// Returns ErrDecode for unreadable, truncated, unsupported, or
// zero-dimension images, and ErrTooLarge for oversized source files.
func Load(path string) (*Resource, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if info.Size() > int64(MaxImageBytes) {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrTooLarge, info.Size(), MaxImageBytes)
	}

	raw, err := os.ReadFile(path) // #nosec G304 -- path is containment-checked by the resolver
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	// A nominally valid header with no pixels is a decode failure, not a
	// zero-size placement.
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: zero dimensions (%dx%d)", ErrDecode, cfg.Width, cfg.Height)
	}

	res := &Resource{
		WidthPx:     cfg.Width,
		HeightPx:    cfg.Height,
		Format:      format,
		ByteLen:     len(raw),
		BitsPerComp: 8,
	}

	if format == "jpeg" && dctCompatible(cfg.ColorModel) {
		return loadJPEG(raw, cfg, res)
	}
	return loadFlattened(raw, res)
}

// dctCompatible reports whether a JPEG color model can be embedded without
// re-encoding. CMYK JPEGs carry inverted channels in some encoders, so they
// take the flatten path instead.
func dctCompatible(m color.Model) bool {
	return m == color.YCbCrModel || m == color.GrayModel
}

// loadJPEG validates the full JPEG and passes its bytes through untouched.
func loadJPEG(raw []byte, cfg image.Config, res *Resource) (*Resource, error) {
	if _, err := jpeg.Decode(bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	res.Filter = FilterDCT
	res.Data = raw
	if cfg.ColorModel == color.GrayModel {
		res.ColorSpace = ColorSpaceGray
	} else {
		res.ColorSpace = ColorSpaceRGB
	}
	return res, nil
}

// loadFlattened decodes any registered format to 8-bit RGB composited over
// white, then deflate-compresses the pixel data.
func loadFlattened(raw []byte, res *Resource) (*Resource, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	pixels := flattenRGB(img)

	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(pixels); err != nil {
		return nil, fmt.Errorf("%w: compressing pixels: %v", ErrDecode, err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("%w: compressing pixels: %v", ErrDecode, err)
	}

	res.Filter = FilterFlate
	res.ColorSpace = ColorSpaceRGB
	res.Data = buf.Bytes()
	return res, nil
}

// flattenRGB converts an image to packed 8-bit RGB, compositing any alpha
// channel over a white background.
func flattenRGB(img image.Image) []byte {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := make([]byte, 0, w*h*3)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			// Premultiplied components: white shows through as (65535 - a).
			out = append(out,
				compositeWhite(r, a),
				compositeWhite(g, a),
				compositeWhite(b, a),
			)
		}
	}
	return out
}

func compositeWhite(c, a uint32) byte {
	v := c + (0xffff - a)
	if v > 0xffff {
		v = 0xffff
	}
	return byte(v >> 8)
}
