package ar

import (
	"sort"
	"time"

	"github.com/satwa-erp/satwa-erp/internal/shared"
)

// anchorDate picks the aging date for an invoice under the given policy.
// Due-date aging falls back to the document date when no due date was set.
func anchorDate(inv OpenInvoice, anchor AgingAnchor) time.Time {
	if anchor == AnchorDueDate && inv.DueDate != nil {
		return *inv.DueDate
	}
	return inv.DocumentDate
}

// daysOutstanding returns the invoice age in whole calendar days, clamped
// at zero so documents dated after asOf count as current.
func daysOutstanding(inv OpenInvoice, asOf time.Time, anchor AgingAnchor) int {
	days := shared.DaysBetween(anchorDate(inv, anchor), asOf)
	if days < 0 {
		return 0
	}
	return days
}

// BuildAgingReport buckets every open invoice by age and rolls the result
// up per customer and in total. Pure: callers supply the invoice set and
// the reference date.
func BuildAgingReport(invoices []OpenInvoice, asOf time.Time, anchor AgingAnchor) AgingReport {
	byCustomer := make(map[int64]*CustomerAging)
	report := AgingReport{AsOf: asOf, Anchor: anchor}

	for _, inv := range invoices {
		outstanding := inv.Outstanding()
		if outstanding <= 0 {
			continue
		}
		row, ok := byCustomer[inv.CustomerID]
		if !ok {
			row = &CustomerAging{CustomerID: inv.CustomerID, CustomerName: inv.CustomerName}
			byCustomer[inv.CustomerID] = row
		}
		days := daysOutstanding(inv, asOf, anchor)
		row.Buckets.add(days, outstanding)
		row.TotalOutstanding += outstanding
		row.OpenInvoices++

		report.Summary.Buckets.add(days, outstanding)
		report.Summary.TotalOutstanding += outstanding
	}

	report.Customers = make([]CustomerAging, 0, len(byCustomer))
	for _, row := range byCustomer {
		report.Customers = append(report.Customers, *row)
	}
	sort.Slice(report.Customers, func(i, j int) bool {
		if report.Customers[i].TotalOutstanding != report.Customers[j].TotalOutstanding {
			return report.Customers[i].TotalOutstanding > report.Customers[j].TotalOutstanding
		}
		return report.Customers[i].CustomerName < report.Customers[j].CustomerName
	})
	report.Summary.CustomersWithBalance = len(report.Customers)
	return report
}
