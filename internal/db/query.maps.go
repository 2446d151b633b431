package db

import (
	"context"
	"time"
)

// Map is a stored rendered noise map. Image holds the encoded grayscale PNG
// and is only populated by GetMapImage.
type Map struct {
	MapID      string
	Seed       int64
	Width      int64
	Height     int64
	Frequency  float64
	Octaves    int64
	Lacunarity float64
	Gain       float64
	CreatedAt  time.Time
}

const createMap = `
INSERT INTO maps (map_id, seed, width, height, frequency, octaves, lacunarity, gain, image)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateMapParams struct {
	MapID      string
	Seed       int64
	Width      int64
	Height     int64
	Frequency  float64
	Octaves    int64
	Lacunarity float64
	Gain       float64
	Image      []byte
}

func (q *Queries) CreateMap(ctx context.Context, arg CreateMapParams) error {
	_, err := q.db.ExecContext(ctx, createMap,
		arg.MapID,
		arg.Seed,
		arg.Width,
		arg.Height,
		arg.Frequency,
		arg.Octaves,
		arg.Lacunarity,
		arg.Gain,
		arg.Image,
	)
	return err
}

const getMap = `
SELECT map_id, seed, width, height, frequency, octaves, lacunarity, gain, created_at
FROM maps
WHERE map_id = ?
`

func (q *Queries) GetMap(ctx context.Context, mapID string) (Map, error) {
	row := q.db.QueryRowContext(ctx, getMap, mapID)
	var m Map
	err := row.Scan(
		&m.MapID,
		&m.Seed,
		&m.Width,
		&m.Height,
		&m.Frequency,
		&m.Octaves,
		&m.Lacunarity,
		&m.Gain,
		&m.CreatedAt,
	)
	return m, err
}

const getMapImage = `
SELECT image FROM maps WHERE map_id = ?
`

func (q *Queries) GetMapImage(ctx context.Context, mapID string) ([]byte, error) {
	row := q.db.QueryRowContext(ctx, getMapImage, mapID)
	var image []byte
	err := row.Scan(&image)
	return image, err
}

const listMaps = `
SELECT map_id, seed, width, height, frequency, octaves, lacunarity, gain, created_at
FROM maps
ORDER BY created_at DESC, map_id
`

func (q *Queries) ListMaps(ctx context.Context) ([]Map, error) {
	rows, err := q.db.QueryContext(ctx, listMaps)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var maps []Map
	for rows.Next() {
		var m Map
		if err := rows.Scan(
			&m.MapID,
			&m.Seed,
			&m.Width,
			&m.Height,
			&m.Frequency,
			&m.Octaves,
			&m.Lacunarity,
			&m.Gain,
			&m.CreatedAt,
		); err != nil {
			return nil, err
		}
		maps = append(maps, m)
	}
	return maps, rows.Err()
}

const deleteMapsBefore = `
DELETE FROM maps WHERE created_at < ?
`

func (q *Queries) DeleteMapsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteMapsBefore, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
