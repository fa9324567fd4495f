package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OlricBeyy/telegram-tracking-bot/internal/domain"
)

func scrape(t *testing.T, c *Collector) string {
	t.Helper()
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	return string(body)
}

func TestCollector_RecordsCounters(t *testing.T) {
	c := NewCollector()

	c.RecordPoll("ok")
	c.RecordPoll("ok")
	c.RecordFailure("timeout")
	c.RecordChange(domain.PriceDecreased)
	c.RecordCycle(2 * time.Second)

	body := scrape(t, c)

	assert.Contains(t, body, `tracker_polls_total{outcome="ok"} 2`)
	assert.Contains(t, body, `tracker_failures_total{kind="timeout"} 1`)
	assert.Contains(t, body, `tracker_change_events_total{kind="price_decreased"} 1`)
	assert.Contains(t, body, "tracker_cycle_duration_seconds_count 1")
}

func TestCollector_EmptyUntilRecorded(t *testing.T) {
	c := NewCollector()

	body := scrape(t, c)

	assert.NotContains(t, body, "tracker_polls_total{")
}
