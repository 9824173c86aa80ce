package reports

import (
	"sort"

	"github.com/satwa-erp/satwa-erp/internal/accounting/accounts"
)

// BalanceSheetAccount summarises an account for assets, liabilities, or equity.
type BalanceSheetAccount struct {
	Code    string
	Name    string
	Balance int64
}

// BalanceSheetSection contains the accounts and total for a classification.
type BalanceSheetSection struct {
	Label    string
	Accounts []BalanceSheetAccount
	Total    int64
}

// BalanceSheetGroup splits a side of the balance sheet into its current and
// non-current sections.
type BalanceSheetGroup struct {
	Current    BalanceSheetSection
	NonCurrent BalanceSheetSection
	Total      int64
}

// BalanceSheet is the structured response for the balance sheet report.
type BalanceSheet struct {
	Assets                    BalanceSheetGroup
	Liabilities               BalanceSheetGroup
	Equity                    BalanceSheetSection
	TotalLiabilitiesAndEquity int64
}

// BuildBalanceSheet aggregates balances into assets, liabilities, and equity.
// The current/fixed and current/long-term splits come from the account's
// category tag; untagged accounts land in the current section.
func BuildBalanceSheet(activity []AccountActivity) BalanceSheet {
	bs := BalanceSheet{
		Assets: BalanceSheetGroup{
			Current:    BalanceSheetSection{Label: "Current Assets"},
			NonCurrent: BalanceSheetSection{Label: "Fixed Assets"},
		},
		Liabilities: BalanceSheetGroup{
			Current:    BalanceSheetSection{Label: "Current Liabilities"},
			NonCurrent: BalanceSheetSection{Label: "Long-Term Liabilities"},
		},
		Equity: BalanceSheetSection{Label: "Equity"},
	}

	for _, acc := range activity {
		balance := acc.NetSigned()
		if acc.Debit == 0 && acc.Credit == 0 {
			continue
		}
		row := BalanceSheetAccount{Code: acc.Code, Name: acc.Name, Balance: balance}
		switch acc.Type {
		case accounts.AccountTypeAsset:
			if acc.Category == CategoryFixedAsset {
				appendRow(&bs.Assets.NonCurrent, row)
			} else {
				appendRow(&bs.Assets.Current, row)
			}
			bs.Assets.Total += balance
		case accounts.AccountTypeLiability:
			if acc.Category == CategoryLongTermLiability {
				appendRow(&bs.Liabilities.NonCurrent, row)
			} else {
				appendRow(&bs.Liabilities.Current, row)
			}
			bs.Liabilities.Total += balance
		case accounts.AccountTypeEquity:
			appendRow(&bs.Equity, row)
		}
	}

	sortSection(&bs.Assets.Current)
	sortSection(&bs.Assets.NonCurrent)
	sortSection(&bs.Liabilities.Current)
	sortSection(&bs.Liabilities.NonCurrent)
	sortSection(&bs.Equity)

	bs.TotalLiabilitiesAndEquity = bs.Liabilities.Total + bs.Equity.Total
	return bs
}

func appendRow(section *BalanceSheetSection, row BalanceSheetAccount) {
	section.Accounts = append(section.Accounts, row)
	section.Total += row.Balance
}

func sortSection(section *BalanceSheetSection) {
	sort.Slice(section.Accounts, func(i, j int) bool {
		return section.Accounts[i].Code < section.Accounts[j].Code
	})
}
