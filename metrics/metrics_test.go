package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gathered sums every series of the named metric. A vector with no
// children is not gathered at all, which reads as zero.
func gathered(t *testing.T, name string) float64 {
	t.Helper()

	mfs, err := Registry.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		total := 0.0
		for _, m := range mf.GetMetric() {
			if c := m.GetCounter(); c != nil {
				total += c.GetValue()
			}
			if g := m.GetGauge(); g != nil {
				total += g.GetValue()
			}
		}
		return total
	}
	return 0
}

func TestObserve(t *testing.T) {
	before := gathered(t, "datatrader_fills_total")

	ObserveEvent("FILL")
	ObserveFill("MSFT", "BOT")
	ObserveFill("MSFT", "SLD")
	ObserveRejected("MSFT")
	SetAccount(494974, 500003.5, 1)

	assert.Equal(t, before+2, gathered(t, "datatrader_fills_total"))
	assert.GreaterOrEqual(t, gathered(t, "datatrader_events_total"), 1.0)
	assert.GreaterOrEqual(t, gathered(t, "datatrader_orders_rejected_total"), 1.0)
	assert.Equal(t, 500003.5, gathered(t, "datatrader_equity"))
	assert.Equal(t, 1.0, gathered(t, "datatrader_open_positions"))
}

func TestGatheredUnobservedVecIsZero(t *testing.T) {
	assert.Zero(t, gathered(t, "datatrader_no_such_metric"))
}

func TestHandler(t *testing.T) {
	ObserveEvent("TICK")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), `datatrader_events_total{kind="TICK"}`)
}

func TestServe(t *testing.T) {
	srv := Serve("127.0.0.1:0")
	defer srv.Close()
	assert.Equal(t, "127.0.0.1:0", srv.Addr)
}
