package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spetersoncode/convagent/agent"
)

func TestRecorder_Observer(t *testing.T) {
	r := New()

	r.TurnStarted()
	r.TurnStarted()
	r.StreamFallback()
	r.ToolExecuted("calculator", false)
	r.ToolExecuted("calculator", true)
	r.ToolExecuted("calculator", false)
	r.RunFailed(agent.FailureIterationLimit)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.turns))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.fallbacks))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.tools.WithLabelValues("calculator", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.tools.WithLabelValues("calculator", OutcomeError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.failures.WithLabelValues(agent.FailureIterationLimit)))
}

func TestRecorder_Requests(t *testing.T) {
	r := New()

	done := r.RequestStarted("convert")
	done()
	r.RequestStarted("ws")()

	assert.Equal(t, 1.0, testutil.ToFloat64(r.requests.WithLabelValues("convert")))
	assert.Equal(t, 2, testutil.CollectAndCount(r.duration), "one histogram per endpoint")
}

func TestRecorder_Handler(t *testing.T) {
	r := New()
	r.TurnStarted()

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "convagent_agent_turns_total 1")
	assert.Contains(t, string(body), "go_goroutines")
}
