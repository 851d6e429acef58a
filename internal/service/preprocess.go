package service

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Adaptive threshold parameters used for label photos.
const (
	ThresholdBlockSize = 11
	ThresholdC         = 2
)

// PreparedImage is an uploaded label ready for text extraction.
type PreparedImage struct {
	Binary      *image.Gray
	Format      string // decoder name, e.g. "jpeg"
	ContentType string // sniffed from the raw bytes
	Extension   string // includes the leading dot
}

// DefaultMaxImagePixels bounds the decoded size of an upload when no limit is given.
const DefaultMaxImagePixels = 40_000_000

// Preprocessor decodes label photos and binarizes them for OCR.
type Preprocessor struct {
	maxDimension int
	maxPixels    int64
}

// NewPreprocessor creates a Preprocessor. Images whose longest side exceeds
// maxDimension are downscaled first; zero disables downscaling. Images
// declaring more than maxPixels pixels are rejected before decoding; zero
// means DefaultMaxImagePixels.
func NewPreprocessor(maxDimension, maxPixels int) *Preprocessor {
	if maxPixels <= 0 {
		maxPixels = DefaultMaxImagePixels
	}
	return &Preprocessor{maxDimension: maxDimension, maxPixels: int64(maxPixels)}
}

// Prepare decodes raw image bytes and returns the thresholded grayscale image.
func (p *Preprocessor) Prepare(data []byte) (*PreparedImage, error) {
	if len(data) == 0 {
		return nil, ErrUnreadableImage
	}

	// The header is enough to size the decode buffer, so check it first.
	header, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableImage, err)
	}
	if pixels := int64(header.Width) * int64(header.Height); pixels > p.maxPixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrImageTooLarge, header.Width, header.Height, p.maxPixels)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableImage, err)
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return nil, ErrUnreadableImage
	}

	mtype := mimetype.Detect(data)
	gray := p.downscale(Grayscale(img))

	return &PreparedImage{
		Binary:      AdaptiveThreshold(gray, ThresholdBlockSize, ThresholdC),
		Format:      format,
		ContentType: mtype.String(),
		Extension:   mtype.Extension(),
	}, nil
}

func (p *Preprocessor) downscale(img *image.Gray) *image.Gray {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	longest := max(width, height)
	if p.maxDimension <= 0 || longest <= p.maxDimension {
		return img
	}

	scale := float64(p.maxDimension) / float64(longest)
	newWidth := max(1, int(math.Round(float64(width)*scale)))
	newHeight := max(1, int(math.Round(float64(height)*scale)))

	dst := image.NewGray(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst
}

// Grayscale converts img using ITU-R BT.601 luma weights in 14-bit fixed point.
func Grayscale(img image.Image) *image.Gray {
	bounds := img.Bounds()
	dst := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	if g, ok := img.(*image.Gray); ok {
		draw.Copy(dst, image.Point{}, g, bounds, draw.Src, nil)
		return dst
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			// 0.299, 0.587, 0.114 scaled by 1<<14
			luma := (r>>8)*4899 + (g>>8)*9617 + (b>>8)*1868
			dst.Pix[(y-bounds.Min.Y)*dst.Stride+(x-bounds.Min.X)] = uint8((luma + 1<<13) >> 14)
		}
	}
	return dst
}

// AdaptiveThreshold binarizes src against a gaussian-weighted local mean.
// A pixel becomes 255 when it is brighter than mean - c, otherwise 0.
// blockSize must be odd; borders replicate the edge pixels.
func AdaptiveThreshold(src *image.Gray, blockSize, c int) *image.Gray {
	mean := gaussianBlur(src, gaussianKernel(blockSize))

	bounds := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := 0; y < bounds.Dy(); y++ {
		srcRow := src.Pix[y*src.Stride:]
		meanRow := mean.Pix[y*mean.Stride:]
		dstRow := dst.Pix[y*dst.Stride:]
		for x := 0; x < bounds.Dx(); x++ {
			if int(srcRow[x])-int(meanRow[x]) > -c {
				dstRow[x] = 255
			}
		}
	}
	return dst
}

// gaussianKernel returns normalised weights for an odd kernel size with
// sigma derived from the size: 0.3*((size-1)*0.5-1)+0.8.
func gaussianKernel(size int) []float64 {
	sigma := 0.3*(float64(size-1)*0.5-1) + 0.8
	half := size / 2
	kernel := make([]float64, size)

	var sum float64
	for i := range kernel {
		d := float64(i - half)
		kernel[i] = math.Exp(-(d * d) / (2 * sigma * sigma))
		sum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

// gaussianBlur applies a separable kernel with replicated borders. The
// result is rounded to 8 bits.
func gaussianBlur(src *image.Gray, kernel []float64) *image.Gray {
	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	half := len(kernel) / 2

	clamp := func(v, hi int) int {
		if v < 0 {
			return 0
		}
		if v > hi {
			return hi
		}
		return v
	}

	horizontal := make([]float64, width*height)
	for y := 0; y < height; y++ {
		row := src.Pix[y*src.Stride:]
		for x := 0; x < width; x++ {
			var acc float64
			for k, w := range kernel {
				acc += w * float64(row[clamp(x+k-half, width-1)])
			}
			horizontal[y*width+x] = acc
		}
	}

	dst := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var acc float64
			for k, w := range kernel {
				acc += w * horizontal[clamp(y+k-half, height-1)*width+x]
			}
			dst.Pix[y*dst.Stride+x] = uint8(math.Min(255, math.Max(0, math.Round(acc))))
		}
	}
	return dst
}
