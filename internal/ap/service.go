package ap

import (
	"context"
	"fmt"
	"time"

	"github.com/satwa-erp/satwa-erp/internal/shared"
)

// RepositoryPort defines data access for the payables engine.
type RepositoryPort interface {
	ListOpenBills(ctx context.Context) ([]OpenBill, error)
	ListSupplierBills(ctx context.Context, supplierID int64, includeSettled bool) ([]OpenBill, error)
	GetSupplierName(ctx context.Context, supplierID int64) (string, error)
}

// Service computes payables aging and supplier outstanding positions.
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

// AgingQuery parameterises a payables aging report.
type AgingQuery struct {
	AsOf   time.Time
	Anchor AgingAnchor
}

// AgingReport produces the payables aging snapshot. AsOf defaults to now,
// the anchor to document-date aging.
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
	bills, err := s.repo.ListOpenBills(ctx)
	if err != nil {
		return AgingReport{}, err
	}
	return BuildAgingReport(bills, q.AsOf, q.Anchor), nil
}

// SupplierOutstanding returns one supplier's open-bill detail, optionally
// with its settled history.
func (s *Service) SupplierOutstanding(ctx context.Context, supplierID int64, includeHistory bool) (SupplierOutstanding, error) {
	name, err := s.repo.GetSupplierName(ctx, supplierID)
	if err != nil {
		return SupplierOutstanding{}, err
	}
	bills, err := s.repo.ListSupplierBills(ctx, supplierID, includeHistory)
	if err != nil {
		return SupplierOutstanding{}, err
	}
	return BuildSupplierOutstanding(supplierID, name, bills, s.now().UTC(), includeHistory), nil
}
