package raster

import (
	"github.com/FieldMesh/noisemap/internal/noise"
)

// Render samples the generator once per pixel over a width x height grid and
// returns row-major brightness values in [0,1]. Pixel coordinates are passed
// straight to GetNoise, which already applies the configured base frequency;
// the [-1,1] result is rescaled via (v+1)*0.5.
func Render(width, height int, gen noise.GeneratorInterface) [][]float64 {
	field := make([][]float64, height)
	for y := 0; y < height; y++ {
		row := make([]float64, width)
		for x := 0; x < width; x++ {
			v := gen.GetNoise(float64(x), float64(y))
			b := (v + 1) * 0.5
			if b < 0 {
				b = 0
			}
			if b > 1 {
				b = 1
			}
			row[x] = b
		}
		field[y] = row
	}
	return field
}
