package noisemap

import (
	"time"
)

const (
	// MaxDimension bounds stored map size so a single request cannot
	// produce an unbounded blob.
	MaxDimension = 4096

	// MaxRandomSeed is the exclusive upper bound for seeds drawn when a
	// request does not supply one.
	MaxRandomSeed = 1000000
)

// CreateMapRequest carries render parameters. Zero-valued fields fall back
// to the configured defaults; a nil Seed draws a random seed in
// [0, MaxRandomSeed).
type CreateMapRequest struct {
	Seed       *int64  `json:"seed,omitempty"`
	Width      int     `json:"width,omitempty"`
	Height     int     `json:"height,omitempty"`
	Frequency  float64 `json:"frequency,omitempty"`
	Octaves    int     `json:"octaves,omitempty"`
	Lacunarity float64 `json:"lacunarity,omitempty"`
	Gain       float64 `json:"gain,omitempty"`
}

// MapMetadata describes a stored rendered map. Seed is always the seed that
// was actually used, so any image can be reproduced from its metadata.
type MapMetadata struct {
	MapID      string    `json:"map_id"`
	Seed       int64     `json:"seed"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	Frequency  float64   `json:"frequency"`
	Octaves    int       `json:"octaves"`
	Lacunarity float64   `json:"lacunarity"`
	Gain       float64   `json:"gain"`
	CreatedAt  time.Time `json:"created_at"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}
