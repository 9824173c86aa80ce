package banking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	acctshared "github.com/satwa-erp/satwa-erp/internal/accounting/shared"
)

func TestTranslatorRoutesEveryType(t *testing.T) {
	chart := chartForBanking()
	translator := NewTranslator(DefaultRouting(), chart)
	const bankAccountID = int64(2)

	cases := []struct {
		txType   TransactionType
		debitID  int64
		creditID int64
	}{
		{TypeDeposit, bankAccountID, 1},     // Dr bank, Cr kas
		{TypeWithdrawal, 1, bankAccountID},  // Dr kas, Cr bank
		{TypeTransferIn, bankAccountID, 3},  // Dr bank, Cr piutang
		{TypeTransferOut, 4, bankAccountID}, // Dr utang, Cr bank
		{TypeFee, 5, bankAccountID},         // Dr biaya bank, Cr bank
		{TypeInterest, bankAccountID, 6},    // Dr bank, Cr pendapatan bunga
	}
	for _, tc := range cases {
		t.Run(string(tc.txType), func(t *testing.T) {
			lines, err := translator.Lines(context.Background(), BankTransaction{
				Type:   tc.txType,
				Amount: 75_000,
			}, bankAccountID)
			require.NoError(t, err)
			require.Len(t, lines, 2)

			require.Equal(t, tc.debitID, lines[0].AccountID)
			require.Equal(t, int64(75_000), lines[0].Debit)
			require.Zero(t, lines[0].Credit)

			require.Equal(t, tc.creditID, lines[1].AccountID)
			require.Equal(t, int64(75_000), lines[1].Credit)
			require.Zero(t, lines[1].Debit)
		})
	}
}

func TestTranslatorRejectsUnknownType(t *testing.T) {
	translator := NewTranslator(DefaultRouting(), chartForBanking())
	_, err := translator.Lines(context.Background(), BankTransaction{
		Type:   TransactionType("CHARGEBACK"),
		Amount: 10_000,
	}, 2)
	require.ErrorIs(t, err, acctshared.ErrUnknownTransactionType)
}

func TestTranslatorFailsWhenRoutedAccountMissing(t *testing.T) {
	routing := DefaultRouting()
	routing.InterestIncomeCode = "4-999" // not in the chart
	translator := NewTranslator(routing, chartForBanking())

	_, err := translator.Lines(context.Background(), BankTransaction{
		Type:   TypeInterest,
		Amount: 10_000,
	}, 2)
	require.ErrorIs(t, err, acctshared.ErrDefaultAccountMissing)
}
