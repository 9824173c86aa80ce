package ap

import (
	"sort"
	"time"

	"github.com/satwa-erp/satwa-erp/internal/shared"
)

// anchorDate picks the aging date for a bill under the given policy.
// Due-date aging falls back to the document date when no due date was set.
func anchorDate(bill OpenBill, anchor AgingAnchor) time.Time {
	if anchor == AnchorDueDate && bill.DueDate != nil {
		return *bill.DueDate
	}
	return bill.DocumentDate
}

// billAge returns a bill's age in whole calendar days under the anchor,
// clamped at zero for future-dated bills.
func billAge(bill OpenBill, asOf time.Time, anchor AgingAnchor) int {
	days := shared.DaysBetween(anchorDate(bill, anchor), asOf)
	if days < 0 {
		return 0
	}
	return days
}

// BuildAgingReport buckets every open bill by age and rolls the result up
// per supplier and in total.
func BuildAgingReport(bills []OpenBill, asOf time.Time, anchor AgingAnchor) AgingReport {
	bySupplier := make(map[int64]*SupplierAging)
	report := AgingReport{AsOf: asOf, Anchor: anchor}

	for _, bill := range bills {
		outstanding := bill.Outstanding()
		if outstanding <= 0 {
			continue
		}
		row, ok := bySupplier[bill.SupplierID]
		if !ok {
			row = &SupplierAging{SupplierID: bill.SupplierID, SupplierName: bill.SupplierName}
			bySupplier[bill.SupplierID] = row
		}
		days := billAge(bill, asOf, anchor)
		row.Buckets.add(days, outstanding)
		row.TotalOutstanding += outstanding
		row.OpenBills++

		report.Summary.Buckets.add(days, outstanding)
		report.Summary.TotalOutstanding += outstanding
	}

	report.Suppliers = make([]SupplierAging, 0, len(bySupplier))
	for _, row := range bySupplier {
		report.Suppliers = append(report.Suppliers, *row)
	}
	sort.Slice(report.Suppliers, func(i, j int) bool {
		if report.Suppliers[i].TotalOutstanding != report.Suppliers[j].TotalOutstanding {
			return report.Suppliers[i].TotalOutstanding > report.Suppliers[j].TotalOutstanding
		}
		return report.Suppliers[i].SupplierName < report.Suppliers[j].SupplierName
	})
	report.Summary.SuppliersWithBalance = len(report.Suppliers)
	return report
}

// BuildSupplierOutstanding computes one supplier's position from its bill
// set. The average age is a simple unweighted mean across open bills, not
// an amount-weighted DSO figure.
func BuildSupplierOutstanding(supplierID int64, supplierName string, bills []OpenBill, asOf time.Time, includeHistory bool) SupplierOutstanding {
	out := SupplierOutstanding{
		SupplierID:   supplierID,
		SupplierName: supplierName,
		AsOf:         asOf,
	}

	var totalDays int
	for _, bill := range bills {
		if bill.Settled() {
			if includeHistory {
				out.History = append(out.History, bill)
			}
			continue
		}
		days := billAge(bill, asOf, AnchorDocumentDate)
		outstanding := bill.Outstanding()
		out.Bills = append(out.Bills, BillDetail{Bill: bill, DaysOutstanding: days, Outstanding: outstanding})
		out.Buckets.add(days, outstanding)
		out.TotalOutstanding += outstanding
		out.OpenBills++
		totalDays += days
		if out.OldestOpenDate == nil || bill.DocumentDate.Before(*out.OldestOpenDate) {
			d := bill.DocumentDate
			out.OldestOpenDate = &d
		}
	}
	if out.OpenBills > 0 {
		out.AverageDaysOutstanding = float64(totalDays) / float64(out.OpenBills)
	}
	sort.Slice(out.Bills, func(i, j int) bool {
		return out.Bills[i].Bill.DocumentDate.Before(out.Bills[j].Bill.DocumentDate)
	})
	return out
}
