package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/config"
	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/inquiry"
	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/metrics"
	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/property"
	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/raster"
	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/scene"
	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/tour"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type stubImages struct{}

func (stubImages) Load(ctx context.Context, ref string) (*image.NRGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return image.NewNRGBA(image.Rect(0, 0, 16, 8)), nil
}

type failingMailer struct{}

func (failingMailer) Send(context.Context, inquiry.Record) error {
	return errors.New("smtp: connection refused")
}

func testTour() *tour.Tour {
	return &tour.Tour{
		InitialScene: "a",
		Scenes: []scene.Scene{
			{ID: "a", Name: "Homestead", ImageURL: "a.jpg", Hotspots: []scene.Hotspot{
				{ID: "gate", Kind: scene.KindNavigation, TargetScene: "b", Position: scene.Position{Theta: 0, Phi: 90}},
			}},
			{ID: "b", Name: "Woolshed", ImageURL: "b.jpg"},
		},
	}
}

func newTestServer(t *testing.T, edit func(*Options)) (*Server, *inquiry.SQLiteStore) {
	t.Helper()
	store, err := inquiry.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	cfg := config.Default()
	cfg.Viewer.Width, cfg.Viewer.Height = 160, 90
	opts := Options{
		Server:  cfg.Server,
		Viewer:  cfg.Viewer,
		Tours:   testTour(),
		Backend: raster.Software{},
		Images:  stubImages{},
		Inquiries: &inquiry.Service{
			Store:  store,
			Mailer: inquiry.LogMailer{Log: zap.NewNop()},
		},
		Property: property.Default(),
		Metrics:  metrics.New(),
		Logger:   zap.NewNop(),
	}
	if edit != nil {
		edit(&opts)
	}
	s := New(opts)
	t.Cleanup(s.Close)
	return s, store
}

func inquiryBody(t *testing.T, edit func(*inquiry.Request)) *bytes.Reader {
	t.Helper()
	req := inquiry.Request{
		FirstName:      "Aroha",
		LastName:       "Ngata",
		Email:          "aroha@example.co.nz",
		InvestmentType: "tourism-investment",
		Consent:        true,
	}
	if edit != nil {
		edit(&req)
	}
	data, err := json.Marshal(req)
	require.NoError(t, err)
	return bytes.NewReader(data)
}

func postInquiry(t *testing.T, h http.Handler, body *bytes.Reader) (*httptest.ResponseRecorder, InquiryResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/inquiries", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var resp InquiryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return rec, resp
}

func TestSecurityHeaders(t *testing.T) {
	s, _ := newTestServer(t, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))
}

func TestInquiryAccepted(t *testing.T) {
	s, store := newTestServer(t, nil)
	rec, resp := postInquiry(t, s.Handler(), inquiryBody(t, nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.ID)

	stored, err := store.Get(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Aroha", stored.FirstName)
}

func TestInquiryValidationErrors(t *testing.T) {
	s, store := newTestServer(t, nil)
	rec, resp := postInquiry(t, s.Handler(), inquiryBody(t, func(r *inquiry.Request) {
		r.Email = "nope"
		r.Consent = false
	}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Errors, "email")
	assert.Contains(t, resp.Errors, "consent")

	n, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestInquiryMalformedBody(t *testing.T) {
	s, _ := newTestServer(t, nil)
	rec, resp := postInquiry(t, s.Handler(), bytes.NewReader([]byte(`{"firstName":`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, resp.Success)
}

func TestInquiryMethodNotAllowed(t *testing.T) {
	s, _ := newTestServer(t, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/inquiries", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
}

func TestInquiryDeliveryFailure(t *testing.T) {
	s, _ := newTestServer(t, func(o *Options) {
		o.Inquiries.Mailer = failingMailer{}
	})
	rec, resp := postInquiry(t, s.Handler(), inquiryBody(t, nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, resp.Success)
	assert.NotContains(t, resp.Message, "smtp")
}

func TestInquiryRateLimited(t *testing.T) {
	s, _ := newTestServer(t, func(o *Options) {
		o.Server.InquiryRate = 1
		o.Server.InquiryBurst = 2
	})
	h := s.Handler()

	for i := 0; i < 2; i++ {
		rec, _ := postInquiry(t, h, inquiryBody(t, nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec, resp := postInquiry(t, h, inquiryBody(t, nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.False(t, resp.Success)
}

func TestCORSForAllowedOrigin(t *testing.T) {
	s, _ := newTestServer(t, func(o *Options) {
		o.Server.AllowedOrigins = []string{"https://wairimu.example.nz"}
	})
	h := s.Handler()

	req := httptest.NewRequest(http.MethodOptions, "/api/inquiries", nil)
	req.Header.Set("Origin", "https://wairimu.example.nz")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://wairimu.example.nz", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/inquiries", nil)
	req.Header.Set("Origin", "https://elsewhere.example.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestPropertyAndTour(t *testing.T) {
	s, _ := newTestServer(t, nil)
	h := s.Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/property", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var facts property.Facts
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &facts))
	assert.Equal(t, property.Default().Name, facts.Name)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tour", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var got tour.Tour
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "a", got.InitialScene)
	assert.Len(t, got.Scenes, 2)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/tour", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t, nil)
	h := s.Handler()
	postInquiry(t, h, inquiryBody(t, nil))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "wairimu_inquiries_total"), "inquiry counter exported")
}

func TestOriginCheck(t *testing.T) {
	s, _ := newTestServer(t, func(o *Options) {
		o.Server.AllowedOrigins = []string{"https://wairimu.example.nz"}
	})
	cases := []struct {
		origin string
		want   bool
	}{
		{"", true},
		{"https://wairimu.example.nz", true},
		{"http://localhost:5173", true},
		{"http://example.com", true}, // same host as the request
		{"https://evil.example.org", false},
		{"::not a url", false},
	}
	for _, tt := range cases {
		req := httptest.NewRequest(http.MethodGet, "/ws/tour", nil)
		if tt.origin != "" {
			req.Header.Set("Origin", tt.origin)
		}
		assert.Equal(t, tt.want, s.checkOrigin(req), tt.origin)
	}
}
