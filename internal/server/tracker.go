package server

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/peggalex/rchkChampionships/internal/api"
	"github.com/peggalex/rchkChampionships/internal/metrics"
	"github.com/peggalex/rchkChampionships/internal/service"
	"github.com/peggalex/rchkChampionships/internal/store"
)

const maxBodyBytes = 1 << 20

// VersionSource reports the reference data version matches are resolved
// against.
type VersionSource interface {
	Version(ctx context.Context, force bool) (string, error)
}

// RateLimitSource reports the last rate-limit headers seen from the Riot API.
type RateLimitSource interface {
	RateLimit() api.RateLimitInfo
}

type TrackerServer struct {
	ingestSvc *service.IngestService
	batchSvc  *service.BatchService
	matchSvc  *service.MatchService
	playerSvc *service.PlayerService
	personSvc *service.PersonService
	versions  VersionSource
	limits    RateLimitSource
	metrics   *metrics.Metrics
	logger    zerolog.Logger
}

func NewTrackerServer(
	ingestSvc *service.IngestService,
	batchSvc *service.BatchService,
	matchSvc *service.MatchService,
	playerSvc *service.PlayerService,
	personSvc *service.PersonService,
	versions VersionSource,
	limits RateLimitSource,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *TrackerServer {
	return &TrackerServer{
		ingestSvc: ingestSvc,
		batchSvc:  batchSvc,
		matchSvc:  matchSvc,
		playerSvc: playerSvc,
		personSvc: personSvc,
		versions:  versions,
		limits:    limits,
		metrics:   m,
		logger:    logger,
	}
}

func (s *TrackerServer) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/matches", s.IngestMatch).Methods(http.MethodPost)
	r.HandleFunc("/api/matches", s.ListMatches).Methods(http.MethodGet)
	r.HandleFunc("/api/matches/batch", s.IngestBatch).Methods(http.MethodPost)
	r.HandleFunc("/api/matches/{matchId:[0-9]+}", s.GetMatch).Methods(http.MethodGet)
	r.HandleFunc("/api/matches/{region:[A-Za-z0-9]+}/{matchId:[0-9]+}", s.IngestRemoteMatch).Methods(http.MethodPost)
	r.HandleFunc("/api/players/{accountId:[0-9]+}", s.GetPlayer).Methods(http.MethodGet)
	r.HandleFunc("/api/accounts/{accountId:[0-9]+}/person/{personName}", s.LinkAccount).Methods(http.MethodPost)
	r.HandleFunc("/api/version", s.Version).Methods(http.MethodGet)
	r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	return r
}

func (s *TrackerServer) IngestMatch(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, r, errors.Wrap(service.ErrInvalidInput, err.Error()))
		return
	}

	result, err := s.ingestSvc.IngestJSON(r.Context(), body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

type batchRequest struct {
	Region   string  `json:"region"`
	MatchIDs []int64 `json:"matchIds"`
}

func (s *TrackerServer) IngestBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := sonic.ConfigDefault.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(service.ErrInvalidInput, err.Error()))
		return
	}

	result, err := s.batchSvc.IngestRemote(r.Context(), req.Region, req.MatchIDs)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *TrackerServer) IngestRemoteMatch(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	matchID, err := parseID(vars["matchId"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.ingestSvc.IngestRemote(r.Context(), vars["region"], matchID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (s *TrackerServer) ListMatches(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.writeError(w, r, errors.Wrapf(service.ErrInvalidInput, "bad limit %q", raw))
			return
		}
		limit = n
	}

	matches, err := s.matchSvc.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"matches": matches})
}

func (s *TrackerServer) GetMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := parseID(mux.Vars(r)["matchId"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	detail, err := s.matchSvc.Detail(r.Context(), matchID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *TrackerServer) GetPlayer(w http.ResponseWriter, r *http.Request) {
	accountID, err := parseID(mux.Vars(r)["accountId"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	player, err := s.playerSvc.GetPlayer(r.Context(), accountID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, player)
}

func (s *TrackerServer) LinkAccount(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	accountID, err := parseID(vars["accountId"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.personSvc.LinkAccount(r.Context(), accountID, vars["personName"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *TrackerServer) Version(w http.ResponseWriter, r *http.Request) {
	force := r.URL.Query().Get("refresh") == "true"
	version, err := s.versions.Version(r.Context(), force)
	if err != nil {
		s.writeError(w, r, errors.Mark(err, service.ErrFetchFailed))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"version":   version,
		"rateLimit": s.limits.RateLimit(),
	})
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.Wrapf(service.ErrInvalidInput, "bad id %q", raw)
	}
	return id, nil
}

type errorResponse struct {
	Error     string `json:"error"`
	Statement string `json:"statement,omitempty"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrDuplicateMatch):
		return http.StatusConflict
	case errors.Is(err, service.ErrUnknownAccount),
		errors.Is(err, service.ErrMatchNotFound),
		errors.Is(err, api.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrFetchFailed), errors.Is(err, api.ErrTooManyRetries):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (s *TrackerServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	resp := errorResponse{Error: err.Error()}

	var stmtErr *store.StatementError
	if errors.As(err, &stmtErr) {
		resp.Statement = stmtErr.Statement
	}

	logger := zerolog.Ctx(r.Context())
	if logger.GetLevel() == zerolog.Disabled {
		logger = &s.logger
	}
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Int("status", status).Str("path", r.URL.Path).Msg("request failed")
	} else {
		logger.Debug().Err(err).Int("status", status).Str("path", r.URL.Path).Msg("request rejected")
	}

	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}
