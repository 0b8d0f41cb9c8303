package extraction

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	xdraw "golang.org/x/image/draw"
)

// contrastFactor is applied around the midpoint after grayscale conversion.
// Recognition engines read low-contrast scans noticeably worse.
const contrastFactor = 1.5

// ImagePreprocessor normalizes a raster image before recognition: grayscale,
// contrast boost, and a uniform downscale when either dimension exceeds the
// ceiling.
type ImagePreprocessor struct {
	maxDimension int
}

func NewImagePreprocessor(maxDimension int) *ImagePreprocessor {
	if maxDimension <= 0 {
		maxDimension = 2500
	}
	return &ImagePreprocessor{maxDimension: maxDimension}
}

// Process returns the normalized image.
func (p *ImagePreprocessor) Process(src image.Image) image.Image {
	gray := grayscaleWithContrast(src, contrastFactor)
	return p.clampSize(gray)
}

// EncodePNG encodes an image to PNG bytes for the recognition backend.
func (p *ImagePreprocessor) EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func grayscaleWithContrast(src image.Image, factor float64) *image.Gray {
	bounds := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			g := color.GrayModel.Convert(src.At(x, y)).(color.Gray)
			v := (float64(g.Y)-128)*factor + 128
			if v < 0 {
				v = 0
			} else if v > 255 {
				v = 255
			}
			dst.SetGray(x-bounds.Min.X, y-bounds.Min.Y, color.Gray{Y: uint8(v)})
		}
	}
	return dst
}

func (p *ImagePreprocessor) clampSize(src *image.Gray) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	longer := w
	if h > longer {
		longer = h
	}
	if longer <= p.maxDimension {
		return src
	}

	scale := float64(p.maxDimension) / float64(longer)
	dw := int(float64(w) * scale)
	dh := int(float64(h) * scale)
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}

	dst := image.NewGray(image.Rect(0, 0, dw, dh))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}
