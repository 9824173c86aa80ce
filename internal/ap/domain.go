package ap

import "time"

// AgingAnchor selects which date ages an open bill, mirroring the
// receivables knob. Document date is the default; due-date aging shows
// how overdue payments are rather than how old the paperwork is.
type AgingAnchor string

const (
	AnchorDocumentDate AgingAnchor = "DOCUMENT_DATE"
	AnchorDueDate      AgingAnchor = "DUE_DATE"
)

// Valid reports whether the anchor is a known policy value.
func (a AgingAnchor) Valid() bool {
	return a == AnchorDocumentDate || a == AnchorDueDate
}

// OpenBill is the payables view of a purchase bill. Procurement owns the
// rows; AP reads them to compute outstanding positions.
type OpenBill struct {
	ID           int64
	Number       string
	SupplierID   int64
	SupplierName string
	DocumentDate time.Time
	DueDate      *time.Time
	TotalAmount  int64
	PaidAmount   int64
	PaidAt       *time.Time
}

// Outstanding returns the unpaid remainder.
func (b OpenBill) Outstanding() int64 {
	return b.TotalAmount - b.PaidAmount
}

// Settled reports whether the bill is fully paid.
func (b OpenBill) Settled() bool {
	return b.Outstanding() <= 0
}

// AgingBuckets splits outstanding payables by age in calendar days.
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

// SupplierAging is one supplier's row in the payables aging report.
type SupplierAging struct {
	SupplierID       int64
	SupplierName     string
	OpenBills        int
	Buckets          AgingBuckets
	TotalOutstanding int64
}

// AgingSummary is the grand-total row of the payables aging report.
type AgingSummary struct {
	TotalOutstanding     int64
	SuppliersWithBalance int
	Buckets              AgingBuckets
}

// AgingReport is the payables aging snapshot as of a date.
type AgingReport struct {
	AsOf      time.Time
	Anchor    AgingAnchor
	Summary   AgingSummary
	Suppliers []SupplierAging
}

// BillDetail is one bill inside a supplier outstanding view.
type BillDetail struct {
	Bill            OpenBill
	DaysOutstanding int
	Outstanding     int64
}

// SupplierOutstanding is the per-supplier payables position: every open
// bill with its age, the mean age across open bills, and the date of the
// oldest document still unpaid.
type SupplierOutstanding struct {
	SupplierID             int64
	SupplierName           string
	AsOf                   time.Time
	TotalOutstanding       int64
	OpenBills              int
	AverageDaysOutstanding float64
	OldestOpenDate         *time.Time
	Buckets                AgingBuckets
	Bills                  []BillDetail
	History                []OpenBill
}
