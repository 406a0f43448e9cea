package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ertugrulmehmetoglu235-lab/alt-nzincir-ap/internal/store"
	"github.com/ertugrulmehmetoglu235-lab/alt-nzincir-ap/pkg/config"
	"github.com/ertugrulmehmetoglu235-lab/alt-nzincir-ap/pkg/models"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	fs, err := store.NewFileStore(filepath.Join(t.TempDir(), "data.json"), log)
	require.NoError(t, err)

	gram := models.NewAssetRecord("gram-altin", "Gram Altın", "GRAM", models.AssetTypeGold)
	gram.Current = 4010.50
	gram.History = []float64{4000, 4010.50}
	gram.Intraday = []float64{4005, 4008}
	gram.LastObservedAt = time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

	usd := models.NewAssetRecord("USD", "ABD Doları", "USD", models.AssetTypeCurrency)
	usd.Current = 41.02
	usd.History = []float64{40.95, 41.02}

	require.NoError(t, fs.SaveAll(context.Background(), map[string]*models.AssetRecord{
		"gram-altin": gram,
		"USD":        usd,
	}))

	cfg := &config.Config{
		Server: config.ServerConfig{
			Host:        "127.0.0.1",
			Port:        8080,
			CORSEnabled: false,
		},
	}
	return NewServer(cfg, fs, log)
}

func doGet(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)
	return rr
}

func TestHealthEndpoint(t *testing.T) {
	rr := doGet(t, testServer(t), "/api/v1/health")
	require.Equal(t, http.StatusOK, rr.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestGetAssets(t *testing.T) {
	rr := doGet(t, testServer(t), "/api/v1/assets")
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Assets []models.AssetRecord `json:"assets"`
		Count  int                  `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, 2, body.Count)
	assert.Equal(t, "USD", body.Assets[0].Key, "assets are sorted by key")
	assert.Equal(t, "gram-altin", body.Assets[1].Key)
}

func TestGetAssetsTypeFilter(t *testing.T) {
	rr := doGet(t, testServer(t), "/api/v1/assets?type=gold")
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Assets []models.AssetRecord `json:"assets"`
		Count  int                  `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, 1, body.Count)
	assert.Equal(t, "gram-altin", body.Assets[0].Key)
}

func TestGetAsset(t *testing.T) {
	rr := doGet(t, testServer(t), "/api/v1/assets/gram-altin")
	require.Equal(t, http.StatusOK, rr.Code)

	var rec models.AssetRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rec))
	assert.Equal(t, 4010.50, rec.Current)
	assert.Equal(t, models.AssetTypeGold, rec.Type)
}

func TestGetAssetNotFound(t *testing.T) {
	rr := doGet(t, testServer(t), "/api/v1/assets/nope")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGetHistory(t *testing.T) {
	rr := doGet(t, testServer(t), "/api/v1/assets/gram-altin/history")
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Key     string    `json:"key"`
		History []float64 `json:"history"`
		Count   int       `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "gram-altin", body.Key)
	assert.Equal(t, []float64{4000, 4010.50}, body.History)
	assert.Equal(t, 2, body.Count)
}

func TestGetIntraday(t *testing.T) {
	rr := doGet(t, testServer(t), "/api/v1/assets/gram-altin/intraday")
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Key      string    `json:"key"`
		Intraday []float64 `json:"intraday"`
		Count    int       `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, []float64{4005, 4008}, body.Intraday)
	assert.Equal(t, 2, body.Count)
}
