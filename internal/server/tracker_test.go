package server

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peggalex/rchkChampionships/internal/api"
	"github.com/peggalex/rchkChampionships/internal/config"
	"github.com/peggalex/rchkChampionships/internal/database"
	"github.com/peggalex/rchkChampionships/internal/domain"
	"github.com/peggalex/rchkChampionships/internal/metrics"
	"github.com/peggalex/rchkChampionships/internal/repository"
	"github.com/peggalex/rchkChampionships/internal/service"
)

type stubRefs struct{}

func (stubRefs) Champion(_ context.Context, id int) (string, error) {
	return fmt.Sprintf("Champ%d", id), nil
}

func (stubRefs) Spell(_ context.Context, id int) (string, error) {
	return fmt.Sprintf("Spell%d", id), nil
}

func (stubRefs) Keystone(_ context.Context, id int) (string, error) {
	return fmt.Sprintf("perk-images/%d.png", id), nil
}

func (stubRefs) SummonerIcon(context.Context, string, int64) (int, error) {
	return 7, nil
}

func (stubRefs) Version(context.Context, bool) (string, error) {
	return "10.25.1", nil
}

func (stubRefs) RateLimit() api.RateLimitInfo {
	return api.RateLimitInfo{AppLimit: "20:1,100:120"}
}

type stubRemote struct{}

func (stubRemote) Match(_ context.Context, _ string, matchID int64) (*api.MatchResponse, error) {
	return nil, fmt.Errorf("GET match %d: %w", matchID, api.ErrTooManyRetries)
}

func newTestServer(t *testing.T) (*httptest.Server, *sql.DB) {
	t.Helper()
	db, err := database.Open(context.Background(), filepath.Join(t.TempDir(), "rchk.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	logger := zerolog.Nop()
	m := metrics.New()
	players := repository.NewPlayerRepository(logger)
	persons := repository.NewPersonRepository(logger)
	matches := repository.NewMatchRepository(logger)

	cfg := &config.Config{DefaultRegion: "NA1", IngestWorkers: 2}
	ingest := service.NewIngestService(db, players, matches, stubRefs{}, stubRemote{}, cfg, m, logger)
	srv := NewTrackerServer(
		ingest,
		service.NewBatchService(ingest, cfg, logger),
		service.NewMatchService(db, matches, logger),
		service.NewPlayerService(db, players, logger),
		service.NewPersonService(db, players, persons, logger),
		stubRefs{},
		stubRefs{},
		m,
		logger,
	)

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts, db
}

func matchBody(t *testing.T, matchID int64) []byte {
	t.Helper()
	raw := domain.RawMatch{
		MatchID:    matchID,
		Region:     "EUW1",
		Duration:   1200,
		OccurredAt: 1_650_000_000,
		Teams: []domain.RawTeam{
			{Side: domain.SideBlue, Win: true},
			{Side: domain.SideRed},
		},
	}
	for i := int64(1); i <= 2; i++ {
		side := domain.SideBlue
		if i == 2 {
			side = domain.SideRed
		}
		raw.Participants = append(raw.Participants, domain.RawParticipant{
			AccountID: i, SummonerName: fmt.Sprintf("p%d", i), Side: side,
			ChampionID: 1, Kills: 1, Spell1ID: 4, Spell2ID: 7, KeystoneID: 8005,
		})
	}
	body, err := sonic.Marshal(raw)
	require.NoError(t, err)
	return body
}

func do(t *testing.T, method, url string, body []byte) (int, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, sonic.ConfigDefault.NewDecoder(resp.Body).Decode(&out))
	}
	return resp.StatusCode, out
}

func TestTrackerServer_IngestAndRead(t *testing.T) {
	ts, _ := newTestServer(t)

	status, out := do(t, http.MethodPost, ts.URL+"/api/matches", matchBody(t, 42))
	require.Equal(t, http.StatusCreated, status, out)
	assert.EqualValues(t, 42, out["matchId"])
	assert.EqualValues(t, 2, out["playersCreated"])

	status, out = do(t, http.MethodPost, ts.URL+"/api/matches", matchBody(t, 42))
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, out["error"], "already registered")

	status, out = do(t, http.MethodGet, ts.URL+"/api/matches/42", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, out["teams"], 2)
	assert.Len(t, out["teamPlayers"], 2)

	status, out = do(t, http.MethodGet, ts.URL+"/api/matches?limit=10", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, out["matches"], 1)

	status, out = do(t, http.MethodGet, ts.URL+"/api/players/2", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "p2", out["summonerName"])
	assert.EqualValues(t, 7, out["iconId"])
}

func TestTrackerServer_Errors(t *testing.T) {
	ts, _ := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   []byte
		want   int
	}{
		{"malformed body", http.MethodPost, "/api/matches", []byte(`{`), http.StatusBadRequest},
		{"invalid record", http.MethodPost, "/api/matches", []byte(`{"matchId":1}`), http.StatusBadRequest},
		{"unknown match", http.MethodGet, "/api/matches/999", nil, http.StatusNotFound},
		{"unknown player", http.MethodGet, "/api/players/999", nil, http.StatusNotFound},
		{"bad limit", http.MethodGet, "/api/matches?limit=x", nil, http.StatusBadRequest},
		{"unknown region", http.MethodPost, "/api/matches/XX9/5", nil, http.StatusBadRequest},
		{"upstream exhausted", http.MethodPost, "/api/matches/NA1/5", nil, http.StatusBadGateway},
		{"link unknown account", http.MethodPost, "/api/accounts/5/person/Alex", nil, http.StatusNotFound},
		{"empty batch", http.MethodPost, "/api/matches/batch", []byte(`{"region":"NA1","matchIds":[]}`), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, out := do(t, tt.method, ts.URL+tt.path, tt.body)
			assert.Equal(t, tt.want, status, out)
			assert.NotEmpty(t, out["error"])
		})
	}
}

func TestTrackerServer_LinkAccount(t *testing.T) {
	ts, _ := newTestServer(t)
	status, _ := do(t, http.MethodPost, ts.URL+"/api/matches", matchBody(t, 1))
	require.Equal(t, http.StatusCreated, status)

	status, out := do(t, http.MethodPost, ts.URL+"/api/accounts/1/person/Alex", nil)
	require.Equal(t, http.StatusOK, status, out)
	assert.Equal(t, true, out["personCreated"])

	status, out = do(t, http.MethodGet, ts.URL+"/api/players/1", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Alex", out["personName"])
}

func TestTrackerServer_StorageErrorCarriesStatement(t *testing.T) {
	ts, db := newTestServer(t)
	_, err := db.Exec(`CREATE TRIGGER "no_teams" BEFORE INSERT ON "team" BEGIN SELECT RAISE(ABORT, 'nope'); END`)
	require.NoError(t, err)

	status, out := do(t, http.MethodPost, ts.URL+"/api/matches", matchBody(t, 3))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Contains(t, out["statement"], `INSERT INTO "team"`)
}

func TestTrackerServer_VersionAndMetrics(t *testing.T) {
	ts, _ := newTestServer(t)

	status, out := do(t, http.MethodGet, ts.URL+"/api/version", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "10.25.1", out["version"])

	_, _ = do(t, http.MethodPost, ts.URL+"/api/matches", matchBody(t, 8))

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "rchk_ingestions_total")
}
