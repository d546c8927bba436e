package prommetrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestSink_IncRequests(t *testing.T) {
	s := New()

	before := testutil.ToFloat64(pricingRequestsTotal)
	s.IncRequests()
	s.IncRequests()
	require.Equal(t, before+2, testutil.ToFloat64(pricingRequestsTotal))
}

func TestSink_ObserveLatency(t *testing.T) {
	s := New()

	s.ObserveLatency(25 * time.Millisecond)
	require.Equal(t, 1, testutil.CollectAndCount(pricingRequestDuration))
}
