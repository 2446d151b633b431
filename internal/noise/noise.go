package noise

import (
	"math"
	"math/rand"
)

// NoiseType selects the noise algorithm a Generator evaluates.
type NoiseType int

const (
	TypeOpenSimplex2 NoiseType = iota
	TypeOpenSimplex2S
	TypeCellular
	TypePerlin
	TypeValueCubic
	TypeValue
)

func (t NoiseType) String() string {
	switch t {
	case TypeOpenSimplex2:
		return "open_simplex_2"
	case TypeOpenSimplex2S:
		return "open_simplex_2s"
	case TypeCellular:
		return "cellular"
	case TypePerlin:
		return "perlin"
	case TypeValueCubic:
		return "value_cubic"
	case TypeValue:
		return "value"
	default:
		return "unknown"
	}
}

// GeneratorInterface defines the interface for noise generation operations.
// This enables dependency injection and makes services easily testable.
type GeneratorInterface interface {
	GetNoise(x, y float64) float64
	GetSeed() uint32
	SetNoiseType(t NoiseType)
	SetFrequency(freq float64)
	SetFractalOctaves(octaves int)
	SetFractalLacunarity(lacunarity float64)
	SetFractalGain(gain float64)
}

// grad2 holds the 8 gradient directions used for corner dot products.
// Order matters: gradients are selected by hash & 7.
var grad2 = [8][2]float64{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {-1, 1}, {1, -1}, {-1, -1},
}

// Generator produces 2D fractal gradient noise from a seeded permutation
// table. Evaluation reads only immutable table state, so a single instance
// is safe for concurrent reads as long as the setters are not called
// concurrently with evaluation.
type Generator struct {
	seed      uint32
	noiseType NoiseType

	frequency  float64
	octaves    int
	lacunarity float64
	gain       float64

	// 256 shuffled entries duplicated to 512 so corner lookups never wrap.
	perm [512]int
}

// NewGenerator creates a noise generator with the given seed and the
// default fractal configuration (frequency 0.01, 3 octaves, lacunarity 2.0,
// gain 0.5, Perlin noise type).
func NewGenerator(seed uint32) *Generator {
	g := &Generator{
		noiseType:  TypePerlin,
		frequency:  0.01,
		octaves:    3,
		lacunarity: 2.0,
		gain:       0.5,
	}
	g.Reseed(seed)
	return g
}

// Reseed rebuilds the permutation table for the given seed. The shuffle is a
// Fisher-Yates pass driven by math/rand seeded with the engine seed, so the
// table is a pure function of the seed: reseeding with the value the
// generator already holds reproduces the identical table.
func (g *Generator) Reseed(seed uint32) {
	g.seed = seed

	rng := rand.New(rand.NewSource(int64(seed)))
	for i := 0; i < 256; i++ {
		g.perm[i] = i
	}
	for i := 255; i > 0; i-- {
		j := rng.Intn(i + 1)
		g.perm[i], g.perm[j] = g.perm[j], g.perm[i]
	}
	for i := 0; i < 256; i++ {
		g.perm[256+i] = g.perm[i]
	}
}

// GetSeed returns the seed the permutation table was built from.
func (g *Generator) GetSeed() uint32 {
	return g.seed
}

// SetNoiseType selects the noise algorithm. Only TypePerlin is implemented;
// every other type silently falls back to the Perlin path.
func (g *Generator) SetNoiseType(t NoiseType) {
	g.noiseType = t
}

// SetFrequency sets the coordinate scale applied before evaluation.
func (g *Generator) SetFrequency(freq float64) {
	g.frequency = freq
}

// SetFractalOctaves sets the octave count, coerced to a minimum of 1.
func (g *Generator) SetFractalOctaves(octaves int) {
	if octaves < 1 {
		octaves = 1
	}
	g.octaves = octaves
}

// SetFractalLacunarity sets the per-octave frequency multiplier.
func (g *Generator) SetFractalLacunarity(lacunarity float64) {
	g.lacunarity = lacunarity
}

// SetFractalGain sets the per-octave amplitude multiplier.
func (g *Generator) SetFractalGain(gain float64) {
	g.gain = gain
}

// fade is the quintic smoothing curve 6t^5 - 15t^4 + 10t^3. Zero first and
// second derivatives at t=0 and t=1 keep grid lines from showing through.
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// grad picks one of the 8 gradient directions from a corner hash and
// returns its dot product with (x, y).
func grad(hash int, x, y float64) float64 {
	g := grad2[hash&7]
	return g[0]*x + g[1]*y
}

// permHash composes two permutation lookups into a corner hash. Masking
// with 255 wraps negative cell indices positively.
func (g *Generator) permHash(ix, iy int) int {
	return g.perm[(g.perm[ix&255]+(iy&255))&255]
}

// perlin2 evaluates one octave of raw gradient noise at (x, y). The result
// is unclamped and lands roughly in [-sqrt2, sqrt2]; fractal normalization
// keeps the combined value manageable.
func (g *Generator) perlin2(x, y float64) float64 {
	xi := int(math.Floor(x))
	yi := int(math.Floor(y))
	xf := x - math.Floor(x)
	yf := y - math.Floor(y)

	u := fade(xf)
	v := fade(yf)

	h00 := g.permHash(xi, yi)
	h10 := g.permHash(xi+1, yi)
	h01 := g.permHash(xi, yi+1)
	h11 := g.permHash(xi+1, yi+1)

	n00 := grad(h00, xf, yf)
	n10 := grad(h10, xf-1.0, yf)
	n01 := grad(h01, xf, yf-1.0)
	n11 := grad(h11, xf-1.0, yf-1.0)

	nx0 := lerp(n00, n10, u)
	nx1 := lerp(n01, n11, u)
	return lerp(nx0, nx1, v)
}

// perlinFractal sums octaves of perlin2 with the configured lacunarity and
// gain, then normalizes by the accumulated amplitude.
func (g *Generator) perlinFractal(x, y float64) float64 {
	total := 0.0
	amplitude := 1.0
	frequency := 1.0
	maxAmplitude := 0.0

	for i := 0; i < g.octaves; i++ {
		total += g.perlin2(x*frequency, y*frequency) * amplitude
		maxAmplitude += amplitude
		amplitude *= g.gain
		frequency *= g.lacunarity
	}

	if maxAmplitude == 0 {
		return 0.0
	}
	return total / maxAmplitude
}

// GetNoise returns the fractal noise value at (x, y), scaled by the
// configured frequency and clamped to [-1, 1]. Normalizing by the amplitude
// sum does not bound the result for every lacunarity/gain combination, so
// the clamp stays.
func (g *Generator) GetNoise(x, y float64) float64 {
	fx := x * g.frequency
	fy := y * g.frequency

	var v float64
	switch g.noiseType {
	case TypePerlin:
		v = g.perlinFractal(fx, fy)
	default:
		// Unimplemented noise types alias to the Perlin path.
		v = g.perlinFractal(fx, fy)
	}

	if v > 1.0 {
		v = 1.0
	}
	if v < -1.0 {
		v = -1.0
	}
	return v
}
