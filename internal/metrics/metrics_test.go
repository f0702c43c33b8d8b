package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestDefault_ReturnsSingleton(t *testing.T) {
	assert.Same(t, Default(), Default())
}

func TestMetrics_Counters(t *testing.T) {
	m := Default()

	before := testutil.ToFloat64(m.logins.WithLabelValues("failure"))
	m.RecordLogin(false)
	assert.Equal(t, before+1, testutil.ToFloat64(m.logins.WithLabelValues("failure")))

	before = testutil.ToFloat64(m.handshakes.WithLabelValues("redeem", "success"))
	m.RecordHandshakeRedeemed(true)
	assert.Equal(t, before+1, testutil.ToFloat64(m.handshakes.WithLabelValues("redeem", "success")))

	before = testutil.ToFloat64(m.identifiers.WithLabelValues("Income", "success"))
	m.RecordIdentifier("Income", true)
	assert.Equal(t, before+1, testutil.ToFloat64(m.identifiers.WithLabelValues("Income", "success")))

	before = testutil.ToFloat64(m.cacheSweeps.WithLabelValues("success"))
	m.RecordSweep()(true)
	assert.Equal(t, before+1, testutil.ToFloat64(m.cacheSweeps.WithLabelValues("success")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordLogin(true)
		m.RecordHandshakeIssued(true)
		m.RecordHandshakeRedeemed(false)
		m.RecordIdentifier("Leads", true)
		m.RecordSweep()(false)
	})
}
