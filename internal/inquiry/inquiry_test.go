package inquiry

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() Request {
	return Request{
		FirstName:      "Aroha",
		LastName:       "Ngata",
		Email:          "aroha@example.co.nz",
		Phone:          "+64 (21) 555-0134",
		InvestmentType: "tourism-investment",
		Message:        "Interested in the glamping potential.",
		Consent:        true,
	}
}

func fieldErrors(t *testing.T, err error) FieldErrors {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "want ValidationError, got %v", err)
	assert.ErrorIs(t, err, ErrValidation)
	return verr.Fields
}

func TestValidateAcceptsCompleteRequest(t *testing.T) {
	assert.NoError(t, validRequest().Validate())

	minimal := Request{FirstName: "A", LastName: "B", Email: "a@b.nz", Consent: true}
	assert.NoError(t, minimal.Validate())
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*Request)
		field string
	}{
		{"missing first name", func(r *Request) { r.FirstName = "" }, "firstName"},
		{"long last name", func(r *Request) { r.LastName = strings.Repeat("x", 101) }, "lastName"},
		{"missing email", func(r *Request) { r.Email = "" }, "email"},
		{"bad email", func(r *Request) { r.Email = "aroha@localhost" }, "email"},
		{"display name email", func(r *Request) { r.Email = "Aroha <aroha@example.nz>" }, "email"},
		{"short phone", func(r *Request) { r.Phone = "123" }, "phone"},
		{"letters in phone", func(r *Request) { r.Phone = "021 CALL ME" }, "phone"},
		{"unknown investment", func(r *Request) { r.InvestmentType = "timeshare" }, "investmentType"},
		{"long message", func(r *Request) { r.Message = strings.Repeat("m", 5001) }, "message"},
		{"no consent", func(r *Request) { r.Consent = false }, "consent"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.edit(&req)
			fields := fieldErrors(t, req.Validate())
			assert.Contains(t, fields, tt.field)
			assert.Len(t, fields, 1)
		})
	}
}

func TestValidationErrorListsAllFields(t *testing.T) {
	err := Request{}.Validate()
	fields := fieldErrors(t, err)
	assert.Len(t, fields, 4)
	assert.Contains(t, err.Error(), "consent: must be given")
}

func TestSQLiteStore(t *testing.T) {
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "db", "inquiries.db"))
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()

	rec := Record{ID: "inq-1", CreatedAt: time.Date(2026, 5, 4, 3, 2, 1, 0, time.UTC), Request: validRequest()}
	require.NoError(t, store.Put(ctx, rec))
	assert.Error(t, store.Put(ctx, rec), "ids are unique")

	got, err := store.Get(ctx, "inq-1")
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	_, err = store.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestFormatEmail(t *testing.T) {
	rec := Record{ID: "inq-9", CreatedAt: time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC), Request: validRequest()}
	rec.Phone = ""
	subject, body := FormatEmail(rec)
	assert.Equal(t, "Wairimu Station inquiry from Aroha Ngata", subject)
	assert.Contains(t, body, "inq-9")
	assert.Contains(t, body, "aroha@example.co.nz")
	assert.Contains(t, body, "Phone:           -")
	assert.Contains(t, body, "tourism-investment")
	assert.Contains(t, body, "glamping potential")
}

func TestSMTPMailerMessage(t *testing.T) {
	_, err := NewSMTPMailer(SMTPConfig{Host: "smtp.example.nz", From: "not an address", To: "agent@example.nz"})
	assert.Error(t, err)

	m, err := NewSMTPMailer(SMTPConfig{Host: "smtp.example.nz", From: "tour@example.nz", To: "agent@example.nz"})
	require.NoError(t, err)
	msg, err := m.Message(Record{ID: "x", Request: validRequest()})
	require.NoError(t, err)
	assert.Equal(t, []string{"Wairimu Station inquiry from Aroha Ngata"}, msg.GetGenHeader("Subject"))
}

type memStore struct {
	recs map[string]Record
	err  error
}

func (m *memStore) Put(ctx context.Context, rec Record) error {
	if m.err != nil {
		return m.err
	}
	m.recs[rec.ID] = rec
	return nil
}

func (m *memStore) Get(ctx context.Context, id string) (Record, error) {
	rec, ok := m.recs[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

func (m *memStore) Count(ctx context.Context) (int, error) { return len(m.recs), nil }

type captureMailer struct {
	sent []Record
	err  error
}

func (c *captureMailer) Send(ctx context.Context, rec Record) error {
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, rec)
	return nil
}

func TestServiceSubmit(t *testing.T) {
	store := &memStore{recs: map[string]Record{}}
	mailer := &captureMailer{}
	svc := &Service{
		Store:  store,
		Mailer: mailer,
		NewID:  func() string { return "fixed" },
		Now:    func() time.Time { return time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC) },
	}

	req := validRequest()
	req.FirstName = "  Aroha "
	rec, err := svc.Submit(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "fixed", rec.ID)
	assert.Equal(t, "Aroha", rec.FirstName)
	assert.Contains(t, store.recs, "fixed")
	require.Len(t, mailer.sent, 1)

	_, err = svc.Submit(context.Background(), Request{})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Len(t, store.recs, 1)
}

func TestServiceSubmitFailures(t *testing.T) {
	svc := &Service{Store: &memStore{recs: map[string]Record{}, err: errors.New("disk full")}, Mailer: &captureMailer{}}
	_, err := svc.Submit(context.Background(), validRequest())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrValidation)

	svc = &Service{Store: &memStore{recs: map[string]Record{}}, Mailer: &captureMailer{err: errors.New("smtp down")}}
	_, err = svc.Submit(context.Background(), validRequest())
	assert.ErrorContains(t, err, "smtp down")
}

func TestLogMailerNeverFails(t *testing.T) {
	assert.NoError(t, LogMailer{}.Send(context.Background(), Record{ID: "x", Request: validRequest()}))
}
