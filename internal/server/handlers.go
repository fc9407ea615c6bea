package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/inquiry"
)

const maxInquiryBody = 64 << 10

// InquiryResponse is the body of every /api/inquiries reply.
type InquiryResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	ID      string              `json:"id,omitempty"`
	Errors  inquiry.FieldErrors `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) handleInquiry(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, InquiryResponse{Message: "Method not allowed"})
		return
	}
	if !s.limiter.Allow(clientIP(r)) {
		s.metrics.RecordRateLimited()
		writeJSON(w, http.StatusTooManyRequests, InquiryResponse{Message: "Too many inquiries. Please wait a minute and try again."})
		return
	}

	var req inquiry.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxInquiryBody)).Decode(&req); err != nil {
		s.metrics.RecordInquiry("invalid")
		writeJSON(w, http.StatusBadRequest, InquiryResponse{Message: "Invalid request body"})
		return
	}

	rec, err := s.opts.Inquiries.Submit(r.Context(), req)
	var verr *inquiry.ValidationError
	switch {
	case errors.As(err, &verr):
		s.metrics.RecordInquiry("invalid")
		writeJSON(w, http.StatusBadRequest, InquiryResponse{
			Message: "Please check the highlighted fields",
			Errors:  verr.Fields,
		})
	case err != nil:
		s.metrics.RecordInquiry("error")
		s.log.Error("inquiry failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, InquiryResponse{
			Message: "We could not send your inquiry. Please try again later.",
		})
	default:
		s.metrics.RecordInquiry("ok")
		writeJSON(w, http.StatusOK, InquiryResponse{
			Success: true,
			Message: "Thank you for your inquiry. Our team will be in touch shortly.",
			ID:      rec.ID,
		})
	}
}

func (s *Server) handleProperty(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.opts.Property)
}

func (s *Server) handleTour(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.opts.Tours.Current())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"sessions": s.active.Load(),
	})
}
