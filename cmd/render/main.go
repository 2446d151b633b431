package main

import (
	"fmt"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/FieldMesh/noisemap/internal/noise"
	"github.com/FieldMesh/noisemap/internal/noisemap"
	"github.com/FieldMesh/noisemap/internal/raster"
)

// Reference render settings for the demonstration image.
const (
	width      = 550
	height     = 500
	frequency  = 0.008
	octaves    = 5
	lacunarity = 2.0
	gain       = 0.5
)

func main() {
	log.SetPrefix("[noisemap] ")

	// The seed is reported before generation so a run can be reproduced.
	seed := uint32(rand.Int63n(noisemap.MaxRandomSeed))
	log.Info("Using random seed", "seed", seed)

	gen := noise.NewGenerator(seed)
	gen.SetNoiseType(noise.TypePerlin)
	gen.SetFrequency(frequency)
	gen.SetFractalOctaves(octaves)
	gen.SetFractalLacunarity(lacunarity)
	gen.SetFractalGain(gain)

	field := raster.Render(width, height, gen)

	path := fmt.Sprintf("noisemap_%d.png", seed)
	if err := raster.WriteFile(path, field); err != nil {
		log.Fatal("Failed to write image", "error", err, "path", path)
	}

	log.Info("Saved noise map", "path", path, "seed", seed, "width", width, "height", height)
}
