package banking

import (
	"context"
	"errors"
	"fmt"

	"github.com/satwa-erp/satwa-erp/internal/accounting/accounts"
	"github.com/satwa-erp/satwa-erp/internal/accounting/journals"
	"github.com/satwa-erp/satwa-erp/internal/accounting/shared"
)

// Routing holds the contra-account codes the translator pairs with the
// bank's linked ledger account. The codes are configuration: a missing
// entry in the chart is a setup error and fails loudly, never a silent
// fallback.
type Routing struct {
	CashCode           string
	ReceivableCode     string
	PayableCode        string
	BankFeeCode        string
	InterestIncomeCode string
}

// DefaultRouting returns the standard Satwa chart codes.
func DefaultRouting() Routing {
	return Routing{
		CashCode:           "1-101",
		ReceivableCode:     "1-120",
		PayableCode:        "2-110",
		BankFeeCode:        "6-110",
		InterestIncomeCode: "4-910",
	}
}

// AccountResolver looks up chart accounts by code.
type AccountResolver interface {
	GetByCode(ctx context.Context, code string) (accounts.Account, error)
}

// Translator derives the balanced journal legs for a bank transaction.
// It is a pure mapping: given the transaction type it picks one debit and
// one credit account, always for the transaction's absolute amount.
//
//	DEPOSIT       Dr bank          Cr cash
//	WITHDRAWAL    Dr cash          Cr bank
//	TRANSFER_IN   Dr bank          Cr receivable
//	TRANSFER_OUT  Dr payable       Cr bank
//	FEE           Dr bank fee      Cr bank
//	INTEREST      Dr bank          Cr interest income
type Translator struct {
	routing  Routing
	resolver AccountResolver
}

// NewTranslator builds Translator instance.
func NewTranslator(routing Routing, resolver AccountResolver) *Translator {
	return &Translator{routing: routing, resolver: resolver}
}

// Lines resolves both legs for the transaction. The returned slice always
// has exactly two lines summing equal.
func (t *Translator) Lines(ctx context.Context, txn BankTransaction, linkedAccountID int64) ([]journals.PostingLineInput, error) {
	contraCode, bankIsDebit, err := t.route(txn.Type)
	if err != nil {
		return nil, err
	}
	contra, err := t.resolver.GetByCode(ctx, contraCode)
	if err != nil {
		if errors.Is(err, shared.ErrAccountNotFound) {
			return nil, fmt.Errorf("%w: %s (type %s)", shared.ErrDefaultAccountMissing, contraCode, txn.Type)
		}
		return nil, err
	}

	debitID, creditID := linkedAccountID, contra.ID
	if !bankIsDebit {
		debitID, creditID = contra.ID, linkedAccountID
	}
	return []journals.PostingLineInput{
		{AccountID: debitID, Description: txn.Description, Debit: txn.Amount},
		{AccountID: creditID, Description: txn.Description, Credit: txn.Amount},
	}, nil
}

// route returns the contra account code and whether the bank's linked
// account takes the debit leg.
func (t *Translator) route(txType TransactionType) (contraCode string, bankIsDebit bool, err error) {
	switch txType {
	case TypeDeposit:
		return t.routing.CashCode, true, nil
	case TypeWithdrawal:
		return t.routing.CashCode, false, nil
	case TypeTransferIn:
		return t.routing.ReceivableCode, true, nil
	case TypeTransferOut:
		return t.routing.PayableCode, false, nil
	case TypeFee:
		return t.routing.BankFeeCode, false, nil
	case TypeInterest:
		return t.routing.InterestIncomeCode, true, nil
	}
	return "", false, fmt.Errorf("%w: %q", shared.ErrUnknownTransactionType, txType)
}
