package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewerEvents(t *testing.T) {
	m := New()
	m.FrameDrawn()
	m.FrameDrawn()
	m.SceneSwitched("woolshed")
	m.ImageLoaded("woolshed", 120*time.Millisecond, nil)
	m.ImageLoaded("woolshed", time.Second, errors.New("404"))
	m.LoadDiscarded("homestead")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.framesTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sceneSwitches.WithLabelValues("woolshed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.loadsDiscarded))
	assert.Equal(t, 2, testutil.CollectAndCount(m.imageLoad))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.RecordInquiry("ok")
	m.RecordRequest("/api/inquiries", 429, 5*time.Millisecond)
	m.SessionOpened()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	text := string(body)
	assert.True(t, strings.Contains(text, `wairimu_inquiries_total{result="ok"} 1`))
	assert.Contains(t, text, `code="4xx"`)
	assert.Contains(t, text, "wairimu_viewer_sessions_active 1")
	assert.Contains(t, text, "go_goroutines")
}
