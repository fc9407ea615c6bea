package inquiry

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service validates, stores and forwards inquiries.
type Service struct {
	Store  Store
	Mailer Mailer
	Log    *zap.Logger
	// NewID and Now default to uuid.NewString and time.Now.
	NewID func() string
	Now   func() time.Time
}

// Submit handles one request. A rejected request returns an error wrapping
// ErrValidation; storage or delivery failures return other errors.
func (s *Service) Submit(ctx context.Context, req Request) (Record, error) {
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		return Record{}, err
	}

	newID, now := s.NewID, s.Now
	if newID == nil {
		newID = uuid.NewString
	}
	if now == nil {
		now = time.Now
	}
	rec := Record{ID: newID(), CreatedAt: now().UTC(), Request: req}

	if err := s.Store.Put(ctx, rec); err != nil {
		return Record{}, fmt.Errorf("inquiry: store: %w", err)
	}
	if err := s.Mailer.Send(ctx, rec); err != nil {
		return Record{}, fmt.Errorf("inquiry: notify agent: %w", err)
	}
	s.logger().Info("inquiry received",
		zap.String("id", rec.ID),
		zap.String("investment_type", rec.InvestmentType),
	)
	return rec, nil
}

func (s *Service) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}
