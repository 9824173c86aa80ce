package accounts

import "time"

// AccountType enumerates CoA categories.
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeEquity    AccountType = "EQUITY"
	AccountTypeRevenue   AccountType = "REVENUE"
	AccountTypeExpense   AccountType = "EXPENSE"
)

// NormalBalance marks whether an account naturally grows on the debit or
// credit side. Fixed at creation, like Type.
type NormalBalance string

const (
	NormalBalanceDebit  NormalBalance = "DEBIT"
	NormalBalanceCredit NormalBalance = "CREDIT"
)

// Account models a chart of accounts node. Accounts are stored flat and the
// tree is rebuilt from ParentID at read time.
type Account struct {
	ID            int64
	Code          string
	Name          string
	Type          AccountType
	NormalBalance NormalBalance
	Category      string
	Description   string
	ParentID      *int64
	IsHeader      bool
	Level         int
	IsActive      bool
	DeletedAt     *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Postable reports whether journal lines may reference this account.
// Headers, soft-deleted accounts, and deactivated accounts all refuse
// new postings; deactivation is how accounts with history retire.
func (a Account) Postable() bool {
	return !a.IsHeader && a.DeletedAt == nil && a.IsActive
}

// TreeNode is an account with its resolved children, ordered by code.
type TreeNode struct {
	Account
	Children []*TreeNode
}
