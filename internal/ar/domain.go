package ar

import "time"

// AgingAnchor selects which date ages an open invoice. Document date is
// the default; due-date aging is the more standard AR convention, so the
// anchor is a policy knob rather than a hardcoded choice.
type AgingAnchor string

const (
	AnchorDocumentDate AgingAnchor = "DOCUMENT_DATE"
	AnchorDueDate      AgingAnchor = "DUE_DATE"
)

// Valid reports whether the anchor is a known policy value.
func (a AgingAnchor) Valid() bool {
	return a == AnchorDocumentDate || a == AnchorDueDate
}

// OpenInvoice is the aging engine's read model of a sales invoice that
// still carries a balance. The sales subsystem owns the rows; AR only
// reads them.
type OpenInvoice struct {
	ID           int64
	Number       string
	CustomerID   int64
	CustomerName string
	DocumentDate time.Time
	DueDate      *time.Time
	TotalAmount  int64
	PaidAmount   int64
}

// Outstanding returns the unpaid remainder.
func (inv OpenInvoice) Outstanding() int64 {
	return inv.TotalAmount - inv.PaidAmount
}

// AgingBuckets holds outstanding amounts split by age in calendar days.
// Every open invoice lands in exactly one bucket.
type AgingBuckets struct {
	Current    int64 // 0-30 days
	Days31to60 int64
	Days61to90 int64
	Over90Days int64
}

// Total sums all four buckets.
func (b AgingBuckets) Total() int64 {
	return b.Current + b.Days31to60 + b.Days61to90 + b.Over90Days
}

func (b *AgingBuckets) add(days int, amount int64) {
	switch {
	case days <= 30:
		b.Current += amount
	case days <= 60:
		b.Days31to60 += amount
	case days <= 90:
		b.Days61to90 += amount
	default:
		b.Over90Days += amount
	}
}

// CustomerAging is one customer's row in the aging report.
type CustomerAging struct {
	CustomerID       int64
	CustomerName     string
	OpenInvoices     int
	Buckets          AgingBuckets
	TotalOutstanding int64
}

// AgingSummary is the grand-total row of the aging report.
type AgingSummary struct {
	TotalOutstanding     int64
	CustomersWithBalance int
	Buckets              AgingBuckets
}

// AgingReport is the full receivables aging snapshot as of a date.
type AgingReport struct {
	AsOf      time.Time
	Anchor    AgingAnchor
	Summary   AgingSummary
	Customers []CustomerAging
}
