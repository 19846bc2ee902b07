package metrics

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveIngest(ResultSuccess, 20*time.Millisecond)
	m.ObserveIngest(ResultDuplicate, time.Millisecond)
	m.FetchRetry("rate_limited")
	m.PlayerChange("created", 10)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `rchk_ingestions_total{result="success"} 1`)
	assert.Contains(t, body, `rchk_ingestions_total{result="duplicate"} 1`)
	assert.Contains(t, body, `rchk_fetch_retries_total{reason="rate_limited"} 1`)
	assert.Contains(t, body, `rchk_player_changes_total{change="created"} 10`)
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveIngest(ResultInvalid, time.Second)
		m.FetchRetry("transient")
		m.FetchFailure("not_found")
		m.PlayerChange("renamed", 1)
		m.RefdataLoaded()
	})
}
