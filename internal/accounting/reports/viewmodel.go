package reports

import "github.com/satwa-erp/satwa-erp/internal/accounting/accounts"

// Category tags the report builders key on. Category is free text on the
// chart of accounts; these are the values the builders recognise for
// current/fixed and COGS splits. Anything else falls into the default
// bucket for the account's type.
const (
	CategoryCurrentAsset      = "CURRENT_ASSET"
	CategoryFixedAsset        = "FIXED_ASSET"
	CategoryCurrentLiability  = "CURRENT_LIABILITY"
	CategoryLongTermLiability = "LONG_TERM_LIABILITY"
	CategoryCOGS              = "COGS"
)

// AccountActivity aggregates POSTED journal lines for one account over a
// report window. Draft and voided entries never reach this struct: the
// repository filters on status at the query site.
type AccountActivity struct {
	AccountID     int64
	Code          string
	Name          string
	Type          accounts.AccountType
	NormalBalance accounts.NormalBalance
	Category      string
	Debit         int64
	Credit        int64
}

// NetSigned returns the account balance signed by its normal balance:
// positive when the account carries its natural side.
func (a AccountActivity) NetSigned() int64 {
	if a.NormalBalance == accounts.NormalBalanceCredit {
		return a.Credit - a.Debit
	}
	return a.Debit - a.Credit
}
