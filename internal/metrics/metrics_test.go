package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRegistry(t *testing.T) {
	InitRegistry()
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
	assert.Same(t, registry, InitRegistry())
}

func TestRecordScheduleValidationError(t *testing.T) {
	InitRegistry()
	before := testutil.ToFloat64(ScheduleValidationErrorsTotal.WithLabelValues("time"))

	RecordScheduleValidationError("time")

	after := testutil.ToFloat64(ScheduleValidationErrorsTotal.WithLabelValues("time"))
	assert.Equal(t, before+1, after)
}

func TestRecordCacheLookup(t *testing.T) {
	InitRegistry()
	hits := testutil.ToFloat64(CacheLookupsTotal.WithLabelValues("leaderboard", "hit"))
	misses := testutil.ToFloat64(CacheLookupsTotal.WithLabelValues("leaderboard", "miss"))

	RecordCacheLookup("leaderboard", true)
	RecordCacheLookup("leaderboard", false)
	RecordCacheLookup("leaderboard", false)

	assert.Equal(t, hits+1, testutil.ToFloat64(CacheLookupsTotal.WithLabelValues("leaderboard", "hit")))
	assert.Equal(t, misses+2, testutil.ToFloat64(CacheLookupsTotal.WithLabelValues("leaderboard", "miss")))
}

func TestUpdateCompetitionsByStatus(t *testing.T) {
	InitRegistry()

	UpdateCompetitionsByStatus(map[string]int{"live": 2, "upcoming": 5})
	assert.Equal(t, 2.0, testutil.ToFloat64(CompetitionsByStatus.WithLabelValues("live")))
	assert.Equal(t, 5.0, testutil.ToFloat64(CompetitionsByStatus.WithLabelValues("upcoming")))

	UpdateCompetitionsByStatus(map[string]int{"completed": 1})
	assert.Equal(t, 1, testutil.CollectAndCount(CompetitionsByStatus))
}

func TestRecordersDoNotPanic(t *testing.T) {
	InitRegistry()

	tests := []struct {
		name string
		fn   func()
	}{
		{"status transition", func() { RecordStatusTransition("upcoming", "live") }},
		{"weigh in", RecordWeighIn},
		{"live message", func() { RecordLiveMessage("leaderboard_update", "sent") }},
		{"live connections", func() { UpdateLiveConnections(3) }},
		{"http request", func() { RecordHTTPRequest("GET", "/api/v1/competitions", "200", 0.012) }},
		{"status refresh", func() { RecordStatusRefresh(0.2) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, tt.fn)
		})
	}
}

func TestMetricsHandler(t *testing.T) {
	InitRegistry()
	RecordWeighIn()

	handler := Handler()
	assert.Implements(t, (*http.Handler)(nil), handler)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "tightlines_weigh_ins_total")
}

func BenchmarkRecordCacheLookup(b *testing.B) {
	InitRegistry()

	for i := 0; i < b.N; i++ {
		RecordCacheLookup("competitions", i%2 == 0)
	}
}
