package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/pressroom/internal/cache"
	"github.com/dmitrijs2005/pressroom/internal/logging"
	"github.com/dmitrijs2005/pressroom/internal/server/config"
	"github.com/dmitrijs2005/pressroom/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.BcryptCost = 4
	cfg.MigrateOnStart = false
	return cfg
}

func newTestApp(t *testing.T) (*App, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	app, err := newApp(testConfig(), db, repomanager.NewPostgresRepositoryManager(), logging.Nop())
	require.NoError(t, err)
	return app, mock
}

func do(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestApp_ListArticlesIsCached(t *testing.T) {
	app, mock := newTestApp(t)

	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM articles`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`FROM articles ORDER BY id ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "published_date", "author", "created_at", "updated_at"}).
			AddRow(int64(1), "A", "D", "2024-01-01", "X", ts, ts))

	first := do(t, app.handler, http.MethodGet, "/articles")
	require.Equal(t, http.StatusOK, first.Code)

	// served from the cache: no further queries are expected
	second := do(t, app.handler, http.MethodGet, "/articles?page=1&limit=10")
	require.Equal(t, http.StatusOK, second.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	require.NoError(t, mock.ExpectationsWereMet())

	metrics := do(t, app.handler, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, metrics.Code)
	body, err := io.ReadAll(metrics.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `pressroom_cache_requests_total{kind="articles",result="hit"} 1`)
	assert.Contains(t, string(body), `pressroom_cache_requests_total{kind="articles",result="miss"} 1`)

	mock.ExpectClose()
	require.NoError(t, app.Close())
}

func TestApp_Routes(t *testing.T) {
	app, mock := newTestApp(t)

	assert.Equal(t, http.StatusOK, do(t, app.handler, http.MethodGet, "/healthz").Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, app.handler, http.MethodPost, "/articles").Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, app.handler, http.MethodGet, "/users").Code)
	assert.Equal(t, http.StatusNotFound, do(t, app.handler, http.MethodGet, "/nope").Code)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNewCacheStore(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		cfg := testConfig()

		s, err := newCacheStore(cfg, logging.Nop())
		require.NoError(t, err)
		assert.IsType(t, &cache.MemoryStore{}, s)
		assert.NoError(t, s.Close())
	})

	t.Run("badger", func(t *testing.T) {
		cfg := testConfig()
		cfg.CacheBackend = config.CacheBackendBadger
		cfg.CacheDir = filepath.Join(t.TempDir(), "cache")

		s, err := newCacheStore(cfg, logging.Nop())
		require.NoError(t, err)
		assert.IsType(t, &cache.BadgerStore{}, s)
		assert.DirExists(t, cfg.CacheDir)
		assert.NoError(t, s.Close())
	})

	t.Run("unknown", func(t *testing.T) {
		cfg := testConfig()
		cfg.CacheBackend = "redis"

		_, err := newCacheStore(cfg, logging.Nop())
		assert.ErrorContains(t, err, "unknown cache backend")
	})
}

func TestNewApp_InvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.SecretKey = ""

	_, err := NewApp(t.Context(), cfg)
	assert.ErrorContains(t, err, "invalid config")
}
