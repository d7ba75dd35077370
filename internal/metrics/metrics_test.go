package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestFetchTotalLabels(t *testing.T) {
	before := testutil.ToFloat64(FetchTotal.WithLabelValues("gemini", "success"))
	FetchTotal.WithLabelValues("gemini", "success").Inc()
	if got := testutil.ToFloat64(FetchTotal.WithLabelValues("gemini", "success")); got != before+1 {
		t.Fatalf("counter = %v, want %v", got, before+1)
	}
}

func TestStaleResolutions(t *testing.T) {
	before := testutil.ToFloat64(StaleResolutions)
	StaleResolutions.Inc()
	if got := testutil.ToFloat64(StaleResolutions); got != before+1 {
		t.Fatalf("stale = %v", got)
	}
}
