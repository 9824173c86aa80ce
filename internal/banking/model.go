package banking

import "time"

// TransactionType enumerates bank transaction kinds. Each maps to a fixed
// debit/credit routing in the translator; there is no default route.
type TransactionType string

const (
	TypeDeposit     TransactionType = "DEPOSIT"
	TypeWithdrawal  TransactionType = "WITHDRAWAL"
	TypeTransferIn  TransactionType = "TRANSFER_IN"
	TypeTransferOut TransactionType = "TRANSFER_OUT"
	TypeFee         TransactionType = "FEE"
	TypeInterest    TransactionType = "INTEREST"
)

// ReconciliationStatus tracks the statement-matching state of a transaction.
// VOID is terminal.
type ReconciliationStatus string

const (
	StatusUnreconciled ReconciliationStatus = "UNRECONCILED"
	StatusReconciled   ReconciliationStatus = "RECONCILED"
	StatusVoid         ReconciliationStatus = "VOID"
)

// BankAccount pairs a real-world bank account with the CoA leaf account
// that represents it in the ledger. CurrentBalance is a denormalized cache
// maintained transactionally with every transaction insert and void; the
// transaction log stays the source of truth and RebuildBalance recovers
// from drift.
type BankAccount struct {
	ID              int64
	Name            string
	AccountNumber   string
	BankName        string
	LinkedAccountID int64
	InitialBalance  int64
	CurrentBalance  int64
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// BankTransaction is one movement on a bank account. Amount is always
// positive; the type decides the direction.
type BankTransaction struct {
	ID             int64
	BankAccountID  int64
	Date           time.Time
	Type           TransactionType
	Amount         int64
	Reference      string
	Description    string
	Status         ReconciliationStatus
	JournalEntryID *int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// BalanceDelta returns the signed effect of the transaction on the bank
// account's balance.
func (t BankTransaction) BalanceDelta() int64 {
	return signedAmount(t.Type, t.Amount)
}

func signedAmount(txType TransactionType, amount int64) int64 {
	switch txType {
	case TypeDeposit, TypeTransferIn, TypeInterest:
		return amount
	case TypeWithdrawal, TypeTransferOut, TypeFee:
		return -amount
	}
	return 0
}
