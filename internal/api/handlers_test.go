package api

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FieldMesh/noisemap/internal/config"
	"github.com/FieldMesh/noisemap/internal/noisemap"
	"github.com/FieldMesh/noisemap/internal/noisemap/testutils"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	database := testutils.SetupTestDB(t, "file://../db/migrations")
	manager := noisemap.NewManager(database, config.RenderConfig{
		Width:      16,
		Height:     12,
		Frequency:  0.1,
		Octaves:    3,
		Lacunarity: 2.0,
		Gain:       0.5,
	})
	return SetupRoutes(NewHandler(manager))
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "noisemap-api", body["service"])
}

func TestCreateMapEndpoint(t *testing.T) {
	router := newTestRouter(t)

	payload := `{"seed": 42, "width": 8, "height": 6, "frequency": 0.02, "octaves": 4}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/maps", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var meta noisemap.MapMetadata
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &meta))
	assert.NotEmpty(t, meta.MapID)
	assert.Equal(t, int64(42), meta.Seed)
	assert.Equal(t, 8, meta.Width)
	assert.Equal(t, 6, meta.Height)
	assert.Equal(t, 0.02, meta.Frequency)
	assert.Equal(t, 4, meta.Octaves)
}

func TestCreateMapEndpointEmptyBodyUsesDefaults(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/maps", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var meta noisemap.MapMetadata
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &meta))
	assert.Equal(t, 16, meta.Width)
	assert.Equal(t, 12, meta.Height)
	assert.GreaterOrEqual(t, meta.Seed, int64(0))
	assert.Less(t, meta.Seed, int64(noisemap.MaxRandomSeed))
}

func TestCreateMapEndpointBadRequests(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name    string
		payload string
	}{
		{name: "malformed json", payload: `{"seed": `},
		{name: "negative width", payload: `{"width": -3}`},
		{name: "oversized height", payload: `{"height": 100000}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/maps", strings.NewReader(tt.payload))
			req.Header.Set("Content-Type", "application/json")

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var errResp noisemap.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
			assert.NotEmpty(t, errResp.Error)
		})
	}
}

func TestGetMapEndpoints(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/maps", strings.NewReader(`{"seed": 7, "width": 10, "height": 5}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created noisemap.MapMetadata
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/maps/"+created.MapID, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var fetched noisemap.MapMetadata
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	assert.Equal(t, created.MapID, fetched.MapID)
	assert.Equal(t, created.Seed, fetched.Seed)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/maps/"+created.MapID+"/image.png", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 10, 5), img.Bounds())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/maps", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var listing struct {
		Maps []noisemap.MapMetadata `json:"maps"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	assert.Len(t, listing.Maps, 1)
}

func TestGetMapNotFound(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/maps/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/maps/missing/image.png", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSampleNoiseEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/noise/42/sample?x=12.5&y=30.25&frequency=0.02&octaves=4", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Seed  uint32  `json:"seed"`
		X     float64 `json:"x"`
		Y     float64 `json:"y"`
		Value float64 `json:"value"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, uint32(42), body.Seed)
	assert.Equal(t, 12.5, body.X)
	assert.Equal(t, 30.25, body.Y)
	assert.GreaterOrEqual(t, body.Value, -1.0)
	assert.LessOrEqual(t, body.Value, 1.0)
}

func TestSampleNoiseEndpointBadCoordinates(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/noise/42/sample?y=1", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/noise/notanumber/sample?x=1&y=1", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
