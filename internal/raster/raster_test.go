package raster

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FieldMesh/noisemap/internal/noise"
)

func TestRenderShapeAndRange(t *testing.T) {
	gen := noise.NewGenerator(1337)
	gen.SetFrequency(0.008)
	gen.SetFractalOctaves(5)

	field := Render(55, 50, gen)
	require.Len(t, field, 50)
	for y, row := range field {
		require.Len(t, row, 55, "row %d", y)
		for x, v := range row {
			assert.GreaterOrEqual(t, v, 0.0, "(%d, %d)", x, y)
			assert.LessOrEqual(t, v, 1.0, "(%d, %d)", x, y)
		}
	}
}

func TestRenderMatchesDirectEvaluation(t *testing.T) {
	gen := noise.NewGenerator(42)
	gen.SetFrequency(1.0)
	gen.SetFractalOctaves(1)

	field := Render(2, 2, gen)

	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			want := (gen.GetNoise(float64(x), float64(y)) + 1) * 0.5
			assert.Equal(t, want, field[y][x], "(%d, %d)", x, y)
			// Integer lattice points evaluate to exactly 0 for a single
			// octave, so every pixel of this grid is mid-gray.
			assert.Equal(t, 0.5, field[y][x], "(%d, %d)", x, y)
		}
	}
}

func TestRenderDeterminism(t *testing.T) {
	a := noise.NewGenerator(99)
	b := noise.NewGenerator(99)
	assert.Equal(t, Render(16, 12, a), Render(16, 12, b))
}

func TestEncodePNGByteContract(t *testing.T) {
	field := [][]float64{
		{0.0, 1.0},
		{0.5, 0.25},
	}
	want := []uint8{0, 255, 128, 64} // round(255 * sample), row-major

	var buf bytes.Buffer
	require.NoError(t, EncodePNG(&buf, field))

	img, err := png.Decode(&buf)
	require.NoError(t, err)

	gray, ok := img.(*image.Gray)
	require.True(t, ok, "expected single-channel grayscale output, got %T", img)
	require.Equal(t, image.Rect(0, 0, 2, 2), gray.Bounds())

	i := 0
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			assert.Equal(t, want[i], gray.GrayAt(x, y).Y, "(%d, %d)", x, y)
			i++
		}
	}
}

func TestEncodePNGRejectsBadFields(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, EncodePNG(&buf, nil))
	assert.Error(t, EncodePNG(&buf, [][]float64{}))
	assert.Error(t, EncodePNG(&buf, [][]float64{{0.5, 0.5}, {0.5}}))
}

func TestWriteFile(t *testing.T) {
	gen := noise.NewGenerator(7)
	field := Render(8, 6, gen)

	path := filepath.Join(t.TempDir(), "field.png")
	require.NoError(t, WriteFile(path, field))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 6), img.Bounds())
}
