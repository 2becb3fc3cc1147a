package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
)

// contrastFactor stretches grey levels away from the image mean.
const contrastFactor = 2.0

// Preprocess decodes a JPEG or PNG photo, converts it to grayscale,
// doubles its contrast and re-encodes it as PNG.
func Preprocess(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	gray := toGray(src)
	enhanceContrast(gray, contrastFactor)

	var buf bytes.Buffer
	if err := png.Encode(&buf, gray); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}

func toGray(src image.Image) *image.Gray {
	b := src.Bounds()
	gray := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			gray.Set(x, y, color.GrayModel.Convert(src.At(x, y)))
		}
	}
	return gray
}

// enhanceContrast moves every pixel away from the mean grey level by factor.
func enhanceContrast(img *image.Gray, factor float64) {
	if len(img.Pix) == 0 {
		return
	}

	var sum int
	for _, p := range img.Pix {
		sum += int(p)
	}
	mean := float64(sum)/float64(len(img.Pix)) + 0.5
	mean = float64(int(mean))

	for i, p := range img.Pix {
		v := mean + factor*(float64(p)-mean)
		switch {
		case v < 0:
			v = 0
		case v > 255:
			v = 255
		}
		img.Pix[i] = uint8(v + 0.5)
	}
}
