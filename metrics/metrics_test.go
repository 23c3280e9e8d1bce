package metrics

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/ruteri/rwa-id-gateway/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcomeForError(t *testing.T) {
	assert.Equal(t, OutcomeOK, OutcomeForError(nil))
	assert.Equal(t, OutcomeBadRequest, OutcomeForError(fmt.Errorf("%w: x", interfaces.ErrInvalidName)))
	assert.Equal(t, OutcomeBadRequest, OutcomeForError(interfaces.ErrMalformedPayload))
	assert.Equal(t, OutcomeBadRequest, OutcomeForError(interfaces.ErrMalformedWireName))
	assert.Equal(t, OutcomeNotFound, OutcomeForError(interfaces.ErrProjectNotFound))
	assert.Equal(t, OutcomeUnavailable, OutcomeForError(fmt.Errorf("%w: timeout", interfaces.ErrRegistryUnavailable)))
	assert.Equal(t, OutcomeError, OutcomeForError(errors.New("boom")))
}

func TestMetrics_Observe(t *testing.T) {
	m := NewMetrics("test")
	m.ObserveResolution("resolve", nil)
	m.ObserveResolution("resolve", nil)
	m.ObserveResolution("ccip", interfaces.ErrProjectNotFound)
	m.ObserveRegistryCall("resolveAddr", 10*time.Millisecond, nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.resolutions.WithLabelValues("resolve", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.resolutions.WithLabelValues("ccip", OutcomeNotFound)))

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "test_resolutions_total")
	assert.Contains(t, string(body), "test_registry_call_duration_seconds_bucket")
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveResolution("resolve", nil)
	m.ObserveRegistryCall("resolveAddr", time.Second, nil)
}
