package noisemap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/FieldMesh/noisemap/internal/config"
	"github.com/FieldMesh/noisemap/internal/db"
	"github.com/FieldMesh/noisemap/internal/noise"
	"github.com/FieldMesh/noisemap/internal/raster"
)

// ErrMapNotFound reports a lookup for a map id that is not stored.
var ErrMapNotFound = errors.New("map not found")

type Manager struct {
	queries  *db.LoggingQueries
	defaults config.RenderConfig
}

func NewManager(database *sql.DB, defaults config.RenderConfig) *Manager {
	return &Manager{
		queries:  db.NewLoggingQueries(database),
		defaults: defaults,
	}
}

// CreateMap renders a noise map and stores it alongside the parameters that
// produced it. Unset request fields take the configured defaults; when no
// seed is supplied one is drawn at random and reported in the returned
// metadata.
func (m *Manager) CreateMap(ctx context.Context, req CreateMapRequest) (*MapMetadata, error) {
	params, err := m.resolveParams(req)
	if err != nil {
		return nil, err
	}

	log.Debug("rendering noise map", "seed", params.Seed, "width", params.Width, "height", params.Height,
		"frequency", params.Frequency, "octaves", params.Octaves, "lacunarity", params.Lacunarity, "gain", params.Gain)

	gen := noise.NewGenerator(uint32(params.Seed))
	gen.SetNoiseType(noise.TypePerlin)
	gen.SetFrequency(params.Frequency)
	gen.SetFractalOctaves(params.Octaves)
	gen.SetFractalLacunarity(params.Lacunarity)
	gen.SetFractalGain(params.Gain)

	field := raster.Render(params.Width, params.Height, gen)
	image, err := raster.EncodePNGBytes(field)
	if err != nil {
		return nil, fmt.Errorf("failed to encode map image: %w", err)
	}

	mapID := uuid.NewString()
	err = m.queries.CreateMap(ctx, db.CreateMapParams{
		MapID:      mapID,
		Seed:       params.Seed,
		Width:      int64(params.Width),
		Height:     int64(params.Height),
		Frequency:  params.Frequency,
		Octaves:    int64(params.Octaves),
		Lacunarity: params.Lacunarity,
		Gain:       params.Gain,
		Image:      image,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store map: %w", err)
	}

	stored, err := m.queries.GetMap(ctx, mapID)
	if err != nil {
		return nil, fmt.Errorf("failed to read back map: %w", err)
	}

	meta := metadataFromRow(stored)
	log.Info("rendered noise map", "map_id", meta.MapID, "seed", meta.Seed, "width", meta.Width, "height", meta.Height, "bytes", len(image))
	return &meta, nil
}

func (m *Manager) GetMap(ctx context.Context, mapID string) (*MapMetadata, error) {
	row, err := m.queries.GetMap(ctx, mapID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrMapNotFound
		}
		return nil, fmt.Errorf("failed to get map: %w", err)
	}
	meta := metadataFromRow(row)
	return &meta, nil
}

func (m *Manager) GetMapImage(ctx context.Context, mapID string) ([]byte, error) {
	image, err := m.queries.GetMapImage(ctx, mapID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrMapNotFound
		}
		return nil, fmt.Errorf("failed to get map image: %w", err)
	}
	return image, nil
}

func (m *Manager) ListMaps(ctx context.Context) ([]MapMetadata, error) {
	rows, err := m.queries.ListMaps(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list maps: %w", err)
	}

	maps := make([]MapMetadata, len(rows))
	for i, row := range rows {
		maps[i] = metadataFromRow(row)
	}
	return maps, nil
}

// PruneMaps deletes maps older than the retention window.
func (m *Manager) PruneMaps(ctx context.Context, retention time.Duration) error {
	cutoff := time.Now().UTC().Add(-retention)
	deleted, err := m.queries.DeleteMapsBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to prune maps: %w", err)
	}
	if deleted > 0 {
		log.Info("pruned stored maps", "deleted", deleted, "cutoff", cutoff)
	}
	return nil
}

type renderParams struct {
	Seed       int64
	Width      int
	Height     int
	Frequency  float64
	Octaves    int
	Lacunarity float64
	Gain       float64
}

func (m *Manager) resolveParams(req CreateMapRequest) (renderParams, error) {
	p := renderParams{
		Width:      req.Width,
		Height:     req.Height,
		Frequency:  req.Frequency,
		Octaves:    req.Octaves,
		Lacunarity: req.Lacunarity,
		Gain:       req.Gain,
	}

	if p.Width == 0 {
		p.Width = m.defaults.Width
	}
	if p.Height == 0 {
		p.Height = m.defaults.Height
	}
	if p.Width < 1 || p.Height < 1 {
		return renderParams{}, fmt.Errorf("map dimensions must be positive")
	}
	if p.Width > MaxDimension || p.Height > MaxDimension {
		return renderParams{}, fmt.Errorf("map dimensions must not exceed %d", MaxDimension)
	}

	if p.Frequency == 0 {
		p.Frequency = m.defaults.Frequency
	}
	if p.Octaves == 0 {
		p.Octaves = m.defaults.Octaves
	}
	if p.Lacunarity == 0 {
		p.Lacunarity = m.defaults.Lacunarity
	}
	if p.Gain == 0 {
		p.Gain = m.defaults.Gain
	}

	if req.Seed != nil {
		// Seeds are 32-bit; wider values wrap the way the engine does.
		p.Seed = *req.Seed & 0xFFFFFFFF
	} else {
		p.Seed = rand.Int63n(MaxRandomSeed)
		log.Debug("drew random seed", "seed", p.Seed)
	}

	return p, nil
}

func metadataFromRow(row db.Map) MapMetadata {
	return MapMetadata{
		MapID:      row.MapID,
		Seed:       row.Seed,
		Width:      int(row.Width),
		Height:     int(row.Height),
		Frequency:  row.Frequency,
		Octaves:    int(row.Octaves),
		Lacunarity: row.Lacunarity,
		Gain:       row.Gain,
		CreatedAt:  row.CreatedAt,
	}
}
