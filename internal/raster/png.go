package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"
	"os"
)

// EncodePNG writes the field as an 8-bit grayscale PNG. Each sample is
// mapped to round(255 * sample). The field must be rectangular and
// non-empty.
func EncodePNG(w io.Writer, field [][]float64) error {
	if len(field) == 0 || len(field[0]) == 0 {
		return fmt.Errorf("cannot encode empty field")
	}

	height := len(field)
	width := len(field[0])

	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		if len(field[y]) != width {
			return fmt.Errorf("ragged field: row %d has %d samples, want %d", y, len(field[y]), width)
		}
		for x := 0; x < width; x++ {
			img.Pix[y*img.Stride+x] = uint8(math.Round(255 * field[y][x]))
		}
	}

	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

// EncodePNGBytes is EncodePNG into a fresh byte slice.
func EncodePNGBytes(field [][]float64) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, field); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile encodes the field as grayscale PNG and persists it at path.
func WriteFile(path string, field [][]float64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := EncodePNG(f, field); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	return nil
}
