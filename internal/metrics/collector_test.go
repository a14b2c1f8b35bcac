package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mukesh1q2/Brahm-sub001/internal/bus"
	"github.com/Mukesh1q2/Brahm-sub001/pkg/conscious"
)

func TestObserve(t *testing.T) {
	c := NewCollector(false)

	c.Observe(conscious.Event{Type: conscious.EventRunStart})
	c.Observe(conscious.Event{Type: conscious.EventPhi, Phi: &conscious.PhiMeasurement{
		PhiValue: 4.2,
		Weights:  conscious.PhiWeights{GWT: 0.45, Causal: 0.27, PP: 0.28},
	}})
	c.Observe(conscious.Event{Type: conscious.EventConsciousAccess, Access: &conscious.AccessDecision{Granted: true}})
	c.Observe(conscious.Event{Type: conscious.EventConsciousAccess, Access: &conscious.AccessDecision{Granted: false}})
	c.Observe(conscious.Event{Type: conscious.EventStability, Stability: &conscious.StabilityAssessment{StabilityScore: 0.81}})
	c.Observe(conscious.Event{Type: conscious.EventTool, Tool: &conscious.ToolOutcome{ToolResult: conscious.ToolResult{OK: true}}})
	c.Observe(conscious.Event{Type: conscious.EventTool, Tool: &conscious.ToolOutcome{Blocked: true}})
	c.Observe(conscious.Event{Type: conscious.EventTool, Tool: &conscious.ToolOutcome{}})
	c.Observe(conscious.Event{Type: conscious.EventCIPSWeights, Weights: &conscious.PhiWeights{GWT: 0.4, Causal: 0.25, PP: 0.35}})

	assert.Equal(t, 1.0, testutil.ToFloat64(c.runs))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.steps))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.access.WithLabelValues("true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.access.WithLabelValues("false")))
	assert.Equal(t, 0.81, testutil.ToFloat64(c.stability))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.toolCalls.WithLabelValues(OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.toolCalls.WithLabelValues(OutcomeBlocked)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.toolCalls.WithLabelValues(OutcomeError)))
	assert.Equal(t, 0.35, testutil.ToFloat64(c.weights.WithLabelValues("pp")), "cips weights overwrite the phi weights")
	assert.Equal(t, 3.0, testutil.ToFloat64(c.events.WithLabelValues("tool")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.phi))
}

func TestObserveIgnoresEmptyPayloads(t *testing.T) {
	c := NewCollector(false)
	c.Observe(conscious.Event{Type: conscious.EventPhi})
	c.Observe(conscious.Event{Type: conscious.EventTool})
	assert.Zero(t, testutil.ToFloat64(c.steps))
	assert.Zero(t, testutil.CollectAndCount(c.toolCalls))
}

func TestAttachToBus(t *testing.T) {
	b := bus.New()
	defer b.Close()

	c := NewCollector(false)
	c.Attach(b)
	assert.Equal(t, 1, b.WildcardSubscriptionsCount())

	b.Publish(conscious.Event{Type: conscious.EventRunStart})
	assert.Eventually(t, func() bool { return testutil.ToFloat64(c.runs) == 1 }, time.Second, 10*time.Millisecond)

	c.Detach()
	assert.Zero(t, b.WildcardSubscriptionsCount())
}

func TestHandler(t *testing.T) {
	c := NewCollector(true)
	c.Observe(conscious.Event{Type: conscious.EventRunStart})

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "conscious_runs_total 1")
	assert.Contains(t, string(body), "go_goroutines")
}
