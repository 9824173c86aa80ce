package ar

import (
	"context"
	"fmt"
	"time"

	"github.com/satwa-erp/satwa-erp/internal/shared"
)

// RepositoryPort defines data access for the receivables aging engine.
type RepositoryPort interface {
	ListOpenInvoices(ctx context.Context) ([]OpenInvoice, error)
}

// Service computes receivables aging.
type Service struct {
	repo RepositoryPort
	now  func() time.Time
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo, now: time.Now}
}

// WithNow overrides the clock, used by tests.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// AgingQuery parameterises an aging report.
type AgingQuery struct {
	AsOf   time.Time
	Anchor AgingAnchor
}

// AgingReport produces the receivables aging snapshot. AsOf defaults to
// now, the anchor to document-date aging.
func (s *Service) AgingReport(ctx context.Context, q AgingQuery) (AgingReport, error) {
	if q.AsOf.IsZero() {
		q.AsOf = s.now().UTC()
	}
	if q.Anchor == "" {
		q.Anchor = AnchorDocumentDate
	}
	if !q.Anchor.Valid() {
		return AgingReport{}, fmt.Errorf("%w: unknown aging anchor %q", shared.ErrValidation, q.Anchor)
	}
	invoices, err := s.repo.ListOpenInvoices(ctx)
	if err != nil {
		return AgingReport{}, err
	}
	return BuildAgingReport(invoices, q.AsOf, q.Anchor), nil
}
