package banking

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/satwa-erp/satwa-erp/internal/accounting/accounts"
	"github.com/satwa-erp/satwa-erp/internal/accounting/journals"
	acctshared "github.com/satwa-erp/satwa-erp/internal/accounting/shared"
	"github.com/satwa-erp/satwa-erp/internal/shared"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeJournalPort struct {
	nextID  int64
	entries map[int64]*journals.JournalEntry
	failure error
}

func newFakeJournalPort() *fakeJournalPort {
	return &fakeJournalPort{entries: make(map[int64]*journals.JournalEntry)}
}

func (p *fakeJournalPort) Post(ctx context.Context, in journals.PostingInput) (journals.JournalEntry, error) {
	if p.failure != nil {
		return journals.JournalEntry{}, p.failure
	}
	debit, credit := in.Totals()
	if debit != credit {
		return journals.JournalEntry{}, acctshared.ErrUnbalanced
	}
	p.nextID++
	entry := &journals.JournalEntry{
		ID:          p.nextID,
		Number:      p.nextID,
		Date:        in.Date,
		Description: in.Description,
		SourceType:  in.SourceType,
		SourceID:    in.SourceID,
		Status:      journals.JournalStatusPosted,
		TotalDebit:  debit,
		TotalCredit: credit,
	}
	p.entries[entry.ID] = entry
	return *entry, nil
}

func (p *fakeJournalPort) Void(ctx context.Context, in journals.VoidInput) (journals.JournalEntry, error) {
	entry, ok := p.entries[in.EntryID]
	if !ok {
		return journals.JournalEntry{}, acctshared.ErrJournalNotFound
	}
	entry.Status = journals.JournalStatusVoid
	entry.VoidReason = in.Reason
	return *entry, nil
}

type fakeAccountPort struct {
	byID   map[int64]accounts.Account
	byCode map[string]accounts.Account
}

func newFakeAccountPort(list ...accounts.Account) *fakeAccountPort {
	p := &fakeAccountPort{byID: make(map[int64]accounts.Account), byCode: make(map[string]accounts.Account)}
	for _, a := range list {
		p.byID[a.ID] = a
		p.byCode[a.Code] = a
	}
	return p
}

func (p *fakeAccountPort) Get(ctx context.Context, id int64) (accounts.Account, error) {
	a, ok := p.byID[id]
	if !ok {
		return accounts.Account{}, acctshared.ErrAccountNotFound
	}
	return a, nil
}

func (p *fakeAccountPort) GetByCode(ctx context.Context, code string) (accounts.Account, error) {
	a, ok := p.byCode[code]
	if !ok {
		return accounts.Account{}, acctshared.ErrAccountNotFound
	}
	return a, nil
}

type memoryBankRepo struct {
	accounts map[int64]*BankAccount
	txns     map[int64]*BankTransaction
	journal  *fakeJournalPort
	nextID   int64
	failTx   error
}

func newMemoryBankRepo(journal *fakeJournalPort) *memoryBankRepo {
	return &memoryBankRepo{
		accounts: make(map[int64]*BankAccount),
		txns:     make(map[int64]*BankTransaction),
		journal:  journal,
	}
}

func (r *memoryBankRepo) addAccount(a BankAccount) *BankAccount {
	stored := a
	r.accounts[a.ID] = &stored
	return &stored
}

func (r *memoryBankRepo) CreateBankAccount(ctx context.Context, in CreateBankAccountInput) (BankAccount, error) {
	r.nextID++
	a := BankAccount{
		ID:              r.nextID,
		Name:            in.Name,
		AccountNumber:   in.AccountNumber,
		BankName:        in.BankName,
		LinkedAccountID: in.LinkedAccountID,
		InitialBalance:  in.InitialBalance,
		CurrentBalance:  in.InitialBalance,
		IsActive:        true,
	}
	r.accounts[a.ID] = &a
	return a, nil
}

func (r *memoryBankRepo) GetBankAccount(ctx context.Context, id int64) (BankAccount, error) {
	a, ok := r.accounts[id]
	if !ok {
		return BankAccount{}, shared.ErrNotFound
	}
	return *a, nil
}

func (r *memoryBankRepo) ListBankAccounts(ctx context.Context) ([]BankAccount, error) {
	var out []BankAccount
	for _, a := range r.accounts {
		out = append(out, *a)
	}
	return out, nil
}

func (r *memoryBankRepo) GetTransaction(ctx context.Context, id int64) (BankTransaction, error) {
	t, ok := r.txns[id]
	if !ok {
		return BankTransaction{}, shared.ErrNotFound
	}
	return *t, nil
}

func (r *memoryBankRepo) ListTransactions(ctx context.Context, bankAccountID int64) ([]BankTransaction, error) {
	var out []BankTransaction
	for _, t := range r.txns {
		if t.BankAccountID == bankAccountID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *memoryBankRepo) UpdateReconciliation(ctx context.Context, id int64, from, to ReconciliationStatus) error {
	t, ok := r.txns[id]
	if !ok {
		return shared.ErrNotFound
	}
	if t.Status != from {
		return shared.ErrInvariant
	}
	t.Status = to
	return nil
}

func (r *memoryBankRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	if r.failTx != nil {
		return r.failTx
	}
	// Mutations land on copies and merge back only on success.
	staged := &memoryBankTx{repo: r, balances: make(map[int64]int64)}
	if err := fn(ctx, staged); err != nil {
		return err
	}
	staged.commit()
	return nil
}

type memoryBankTx struct {
	repo     *memoryBankRepo
	newTxns  []*BankTransaction
	voids    []int64
	balances map[int64]int64
	voidedJE []voidedEntry
}

type voidedEntry struct {
	id     int64
	by     int64
	reason string
}

func (t *memoryBankTx) commit() {
	for _, txn := range t.newTxns {
		t.repo.txns[txn.ID] = txn
	}
	for _, id := range t.voids {
		t.repo.txns[id].Status = StatusVoid
	}
	for id, balance := range t.balances {
		t.repo.accounts[id].CurrentBalance = balance
	}
	for _, v := range t.voidedJE {
		if entry, ok := t.repo.journal.entries[v.id]; ok && entry.Status == journals.JournalStatusPosted {
			entry.Status = journals.JournalStatusVoid
			entry.VoidReason = v.reason
		}
	}
}

func (t *memoryBankTx) currentBalance(bankAccountID int64) (int64, bool) {
	if b, ok := t.balances[bankAccountID]; ok {
		return b, true
	}
	a, ok := t.repo.accounts[bankAccountID]
	if !ok {
		return 0, false
	}
	return a.CurrentBalance, true
}

func (t *memoryBankTx) InsertTransaction(ctx context.Context, in RecordInput, journalEntryID *int64) (BankTransaction, error) {
	t.repo.nextID++
	txn := &BankTransaction{
		ID:             t.repo.nextID,
		BankAccountID:  in.BankAccountID,
		Date:           in.Date,
		Type:           in.Type,
		Amount:         in.Amount,
		Reference:      in.Reference,
		Description:    in.Description,
		Status:         StatusUnreconciled,
		JournalEntryID: journalEntryID,
	}
	t.newTxns = append(t.newTxns, txn)
	return *txn, nil
}

func (t *memoryBankTx) AdjustBalance(ctx context.Context, bankAccountID int64, delta int64) (int64, error) {
	current, ok := t.currentBalance(bankAccountID)
	if !ok {
		return 0, shared.ErrNotFound
	}
	t.balances[bankAccountID] = current + delta
	return current + delta, nil
}

func (t *memoryBankTx) GetTransactionForUpdate(ctx context.Context, id int64) (BankTransaction, error) {
	return t.repo.GetTransaction(ctx, id)
}

func (t *memoryBankTx) MarkTransactionVoid(ctx context.Context, id int64) error {
	if _, ok := t.repo.txns[id]; !ok {
		return shared.ErrNotFound
	}
	t.voids = append(t.voids, id)
	return nil
}

func (t *memoryBankTx) VoidJournalEntry(ctx context.Context, journalEntryID int64, voidedBy int64, reason string) error {
	t.voidedJE = append(t.voidedJE, voidedEntry{id: journalEntryID, by: voidedBy, reason: reason})
	return nil
}

func (t *memoryBankTx) SumActiveTransactions(ctx context.Context, bankAccountID int64) (int64, error) {
	var sum int64
	for _, txn := range t.repo.txns {
		if txn.BankAccountID == bankAccountID && txn.Status != StatusVoid {
			sum += txn.BalanceDelta()
		}
	}
	return sum, nil
}

func (t *memoryBankTx) SetBalance(ctx context.Context, bankAccountID int64, balance int64) error {
	if _, ok := t.repo.accounts[bankAccountID]; !ok {
		return shared.ErrNotFound
	}
	t.balances[bankAccountID] = balance
	return nil
}

func chartForBanking() *fakeAccountPort {
	leaf := func(id int64, code, name string) accounts.Account {
		return accounts.Account{
			ID: id, Code: code, Name: name,
			Type:          accounts.AccountTypeAsset,
			NormalBalance: accounts.NormalBalanceDebit,
			IsActive:      true,
		}
	}
	return newFakeAccountPort(
		leaf(1, "1-101", "Kas"),
		leaf(2, "1-110", "Bank BCA"),
		leaf(3, "1-120", "Piutang Usaha"),
		accounts.Account{ID: 4, Code: "2-110", Name: "Utang Usaha", Type: accounts.AccountTypeLiability, NormalBalance: accounts.NormalBalanceCredit, IsActive: true},
		accounts.Account{ID: 5, Code: "6-110", Name: "Biaya Admin Bank", Type: accounts.AccountTypeExpense, NormalBalance: accounts.NormalBalanceDebit, IsActive: true},
		accounts.Account{ID: 6, Code: "4-910", Name: "Pendapatan Bunga", Type: accounts.AccountTypeRevenue, NormalBalance: accounts.NormalBalanceCredit, IsActive: true},
	)
}

func newBankingFixture(t *testing.T) (*Service, *memoryBankRepo, *fakeJournalPort) {
	t.Helper()
	journal := newFakeJournalPort()
	repo := newMemoryBankRepo(journal)
	svc := NewService(repo, journal, chartForBanking(), DefaultRouting(), discardLogger())
	svc.WithNow(func() time.Time { return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC) })
	return svc, repo, journal
}

func seedBankAccount(repo *memoryBankRepo, balance int64) *BankAccount {
	repo.nextID++
	return repo.addAccount(BankAccount{
		ID:              repo.nextID,
		Name:            "BCA Operasional",
		LinkedAccountID: 2,
		InitialBalance:  balance,
		CurrentBalance:  balance,
		IsActive:        true,
	})
}

func recordDate() time.Time {
	return time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
}

func TestRecordDepositMovesBalanceAndPostsJournal(t *testing.T) {
	svc, repo, journal := newBankingFixture(t)
	account := seedBankAccount(repo, 100_000)

	result, err := svc.Record(context.Background(), RecordInput{
		BankAccountID:     account.ID,
		Date:              recordDate(),
		Type:              TypeDeposit,
		Amount:            50_000,
		Description:       "Setoran tunai",
		RecordedBy:        7,
		AutoCreateJournal: true,
	})
	require.NoError(t, err)
	require.Equal(t, int64(150_000), result.NewBalance)
	require.Equal(t, int64(150_000), account.CurrentBalance)
	require.NotNil(t, result.JournalEntryID)

	entry := journal.entries[*result.JournalEntryID]
	require.Equal(t, journals.JournalStatusPosted, entry.Status)
	require.Equal(t, int64(50_000), entry.TotalDebit)
	require.Equal(t, int64(50_000), entry.TotalCredit)
	require.Equal(t, journals.SourceBank, entry.SourceType)
}

func TestRecordWithdrawalDecreasesBalance(t *testing.T) {
	svc, repo, _ := newBankingFixture(t)
	account := seedBankAccount(repo, 100_000)

	result, err := svc.Record(context.Background(), RecordInput{
		BankAccountID:     account.ID,
		Date:              recordDate(),
		Type:              TypeWithdrawal,
		Amount:            30_000,
		AutoCreateJournal: true,
	})
	require.NoError(t, err)
	require.Equal(t, int64(70_000), result.NewBalance)
}

func TestRecordRejectsUnknownType(t *testing.T) {
	svc, repo, journal := newBankingFixture(t)
	account := seedBankAccount(repo, 100_000)

	_, err := svc.Record(context.Background(), RecordInput{
		BankAccountID:     account.ID,
		Date:              recordDate(),
		Type:              TransactionType("ADJUSTMENT"),
		Amount:            10_000,
		AutoCreateJournal: true,
	})
	require.ErrorIs(t, err, acctshared.ErrUnknownTransactionType)
	require.Empty(t, journal.entries)
	require.Equal(t, int64(100_000), account.CurrentBalance)
}

func TestRecordRejectsUnknownTypeWithoutJournal(t *testing.T) {
	svc, repo, _ := newBankingFixture(t)
	account := seedBankAccount(repo, 100_000)

	_, err := svc.Record(context.Background(), RecordInput{
		BankAccountID: account.ID,
		Date:          recordDate(),
		Type:          TransactionType("ADJUSTMENT"),
		Amount:        10_000,
	})
	require.ErrorIs(t, err, acctshared.ErrUnknownTransactionType)
}

func TestRecordCompensatesJournalWhenBankWriteFails(t *testing.T) {
	svc, repo, journal := newBankingFixture(t)
	account := seedBankAccount(repo, 100_000)
	repo.failTx = errors.New("connection reset")

	_, err := svc.Record(context.Background(), RecordInput{
		BankAccountID:     account.ID,
		Date:              recordDate(),
		Type:              TypeDeposit,
		Amount:            50_000,
		AutoCreateJournal: true,
	})
	require.Error(t, err)
	require.Equal(t, int64(100_000), account.CurrentBalance)
	require.Empty(t, repo.txns)

	// The journal entry posted before the failure must not stay live.
	require.Len(t, journal.entries, 1)
	for _, entry := range journal.entries {
		require.Equal(t, journals.JournalStatusVoid, entry.Status)
	}
}

func TestVoidRestoresBalanceAndVoidsJournal(t *testing.T) {
	svc, repo, journal := newBankingFixture(t)
	account := seedBankAccount(repo, 100_000)

	result, err := svc.Record(context.Background(), RecordInput{
		BankAccountID:     account.ID,
		Date:              recordDate(),
		Type:              TypeDeposit,
		Amount:            50_000,
		AutoCreateJournal: true,
	})
	require.NoError(t, err)
	require.Equal(t, int64(150_000), account.CurrentBalance)

	err = svc.Void(context.Background(), result.Transaction.ID, 7, "salah input")
	require.NoError(t, err)
	require.Equal(t, int64(100_000), account.CurrentBalance)
	require.Equal(t, StatusVoid, repo.txns[result.Transaction.ID].Status)
	require.Equal(t, journals.JournalStatusVoid, journal.entries[*result.JournalEntryID].Status)
}

func TestVoidIsTerminal(t *testing.T) {
	svc, repo, _ := newBankingFixture(t)
	account := seedBankAccount(repo, 100_000)

	result, err := svc.Record(context.Background(), RecordInput{
		BankAccountID:     account.ID,
		Date:              recordDate(),
		Type:              TypeFee,
		Amount:            5_000,
		AutoCreateJournal: true,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Void(context.Background(), result.Transaction.ID, 7, "salah input"))
	err = svc.Void(context.Background(), result.Transaction.ID, 7, "lagi")
	require.ErrorIs(t, err, shared.ErrInvariant)
	require.Equal(t, int64(100_000), account.CurrentBalance)
}

func TestVoidRequiresReason(t *testing.T) {
	svc, _, _ := newBankingFixture(t)
	err := svc.Void(context.Background(), 1, 7, "")
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestReconcileLifecycle(t *testing.T) {
	svc, repo, _ := newBankingFixture(t)
	account := seedBankAccount(repo, 100_000)

	result, err := svc.Record(context.Background(), RecordInput{
		BankAccountID:     account.ID,
		Date:              recordDate(),
		Type:              TypeDeposit,
		Amount:            50_000,
		AutoCreateJournal: true,
	})
	require.NoError(t, err)
	id := result.Transaction.ID

	require.NoError(t, svc.Reconcile(context.Background(), id))
	require.Equal(t, StatusReconciled, repo.txns[id].Status)

	// Reconciling twice violates the status guard.
	require.ErrorIs(t, svc.Reconcile(context.Background(), id), shared.ErrInvariant)

	require.NoError(t, svc.Unreconcile(context.Background(), id))
	require.Equal(t, StatusUnreconciled, repo.txns[id].Status)
	require.ErrorIs(t, svc.Unreconcile(context.Background(), id), shared.ErrInvariant)
}

func TestRebuildBalanceCorrectsDrift(t *testing.T) {
	svc, repo, _ := newBankingFixture(t)
	account := seedBankAccount(repo, 100_000)

	_, err := svc.Record(context.Background(), RecordInput{
		BankAccountID:     account.ID,
		Date:              recordDate(),
		Type:              TypeDeposit,
		Amount:            50_000,
		AutoCreateJournal: true,
	})
	require.NoError(t, err)

	// Simulate an out-of-band balance mutation.
	account.CurrentBalance = 999_999

	result, err := svc.RebuildBalance(context.Background(), account.ID)
	require.NoError(t, err)
	require.Equal(t, int64(999_999), result.PreviousBalance)
	require.Equal(t, int64(150_000), result.RebuiltBalance)
	require.Equal(t, int64(150_000)-int64(999_999), result.Drift)
	require.Equal(t, int64(150_000), account.CurrentBalance)
}

func TestRebuildBalanceIgnoresVoidedTransactions(t *testing.T) {
	svc, repo, _ := newBankingFixture(t)
	account := seedBankAccount(repo, 100_000)

	deposit, err := svc.Record(context.Background(), RecordInput{
		BankAccountID:     account.ID,
		Date:              recordDate(),
		Type:              TypeDeposit,
		Amount:            50_000,
		AutoCreateJournal: true,
	})
	require.NoError(t, err)
	require.NoError(t, svc.Void(context.Background(), deposit.Transaction.ID, 7, "salah input"))

	result, err := svc.RebuildBalance(context.Background(), account.ID)
	require.NoError(t, err)
	require.Equal(t, int64(100_000), result.RebuiltBalance)
	require.Equal(t, int64(0), result.Drift)
}

func TestCreateBankAccountValidatesLinkedAccount(t *testing.T) {
	journal := newFakeJournalPort()
	repo := newMemoryBankRepo(journal)
	chart := newFakeAccountPort(
		accounts.Account{ID: 10, Code: "1-100", Name: "Aset Lancar", Type: accounts.AccountTypeAsset, IsHeader: true},
		accounts.Account{ID: 11, Code: "4-100", Name: "Penjualan", Type: accounts.AccountTypeRevenue},
		accounts.Account{ID: 12, Code: "1-110", Name: "Bank BCA", Type: accounts.AccountTypeAsset},
	)
	svc := NewService(repo, journal, chart, DefaultRouting(), discardLogger())

	_, err := svc.CreateBankAccount(context.Background(), CreateBankAccountInput{Name: "x", LinkedAccountID: 10})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.CreateBankAccount(context.Background(), CreateBankAccountInput{Name: "x", LinkedAccountID: 11})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.CreateBankAccount(context.Background(), CreateBankAccountInput{Name: "x", LinkedAccountID: 99})
	require.ErrorIs(t, err, shared.ErrValidation)

	created, err := svc.CreateBankAccount(context.Background(), CreateBankAccountInput{
		Name:            "BCA Operasional",
		LinkedAccountID: 12,
		InitialBalance:  250_000,
	})
	require.NoError(t, err)
	require.Equal(t, int64(250_000), created.CurrentBalance)
}
