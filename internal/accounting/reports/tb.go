package reports

import "sort"

// TrialBalanceRow is one account's net balance presented on its normal side.
type TrialBalanceRow struct {
	AccountID     int64
	Code          string
	Name          string
	Type          string
	DebitBalance  int64
	CreditBalance int64
}

// TrialBalance lists every account balance as of a date. For consistent
// books TotalDebit == TotalCredit; when they differ the report still
// succeeds and carries the discrepancy as a data warning, because an
// imbalance means corruption in committed history, not a failure of this
// read.
type TrialBalance struct {
	Rows        []TrialBalanceRow
	TotalDebit  int64
	TotalCredit int64
	Imbalanced  bool
	Imbalance   int64
}

// BuildTrialBalance nets each account's activity onto its normal-balance
// side. An account pushed past zero against its normal side shows on the
// opposite column rather than as a negative.
func BuildTrialBalance(activity []AccountActivity) TrialBalance {
	var tb TrialBalance
	for _, acc := range activity {
		if acc.Debit == 0 && acc.Credit == 0 {
			continue
		}
		row := TrialBalanceRow{
			AccountID: acc.AccountID,
			Code:      acc.Code,
			Name:      acc.Name,
			Type:      string(acc.Type),
		}
		net := acc.NetSigned()
		natural := net >= 0
		if !natural {
			net = -net
		}
		switch {
		case acc.NormalBalance == "CREDIT" && natural, acc.NormalBalance == "DEBIT" && !natural:
			row.CreditBalance = net
		default:
			row.DebitBalance = net
		}
		tb.Rows = append(tb.Rows, row)
		tb.TotalDebit += row.DebitBalance
		tb.TotalCredit += row.CreditBalance
	}
	sort.Slice(tb.Rows, func(i, j int) bool { return tb.Rows[i].Code < tb.Rows[j].Code })
	if diff := tb.TotalDebit - tb.TotalCredit; diff != 0 {
		tb.Imbalanced = true
		tb.Imbalance = diff
	}
	return tb
}
