package reports

import (
	"sort"

	"github.com/satwa-erp/satwa-erp/internal/accounting/accounts"
)

// IncomeStatementAccount represents a revenue or expense account summary.
type IncomeStatementAccount struct {
	Code   string
	Name   string
	Amount int64
}

// IncomeStatementSection groups accounts by nature.
type IncomeStatementSection struct {
	Label    string
	Accounts []IncomeStatementAccount
	Total    int64
}

// IncomeStatement contains the structured output for the report.
// GrossProfit = Revenue - COGS; NetIncome = GrossProfit - Expenses.
type IncomeStatement struct {
	Revenue     IncomeStatementSection
	COGS        IncomeStatementSection
	Expenses    IncomeStatementSection
	GrossProfit int64
	NetIncome   int64
}

// BuildIncomeStatement aggregates a date range's activity into revenue,
// cost of goods sold, and operating expense sections. Expense accounts
// tagged with the COGS category split out above the gross profit line.
func BuildIncomeStatement(activity []AccountActivity) IncomeStatement {
	is := IncomeStatement{
		Revenue:  IncomeStatementSection{Label: "Revenue"},
		COGS:     IncomeStatementSection{Label: "Cost of Goods Sold"},
		Expenses: IncomeStatementSection{Label: "Expenses"},
	}

	for _, acc := range activity {
		if acc.Debit == 0 && acc.Credit == 0 {
			continue
		}
		amount := acc.NetSigned()
		row := IncomeStatementAccount{Code: acc.Code, Name: acc.Name, Amount: amount}
		switch acc.Type {
		case accounts.AccountTypeRevenue:
			is.Revenue.Accounts = append(is.Revenue.Accounts, row)
			is.Revenue.Total += amount
		case accounts.AccountTypeExpense:
			if acc.Category == CategoryCOGS {
				is.COGS.Accounts = append(is.COGS.Accounts, row)
				is.COGS.Total += amount
			} else {
				is.Expenses.Accounts = append(is.Expenses.Accounts, row)
				is.Expenses.Total += amount
			}
		}
	}

	for _, section := range []*IncomeStatementSection{&is.Revenue, &is.COGS, &is.Expenses} {
		sort.Slice(section.Accounts, func(i, j int) bool {
			return section.Accounts[i].Code < section.Accounts[j].Code
		})
	}

	is.GrossProfit = is.Revenue.Total - is.COGS.Total
	is.NetIncome = is.GrossProfit - is.Expenses.Total
	return is
}
