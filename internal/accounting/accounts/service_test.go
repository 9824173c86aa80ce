package accounts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	acctshared "github.com/satwa-erp/satwa-erp/internal/accounting/shared"
	"github.com/satwa-erp/satwa-erp/internal/shared"
)

type memoryAccountRepo struct {
	accounts    map[int64]*Account
	postedLines map[int64]int
	nextID      int64
}

func newMemoryAccountRepo() *memoryAccountRepo {
	return &memoryAccountRepo{accounts: make(map[int64]*Account), postedLines: make(map[int64]int)}
}

func (r *memoryAccountRepo) Insert(ctx context.Context, in CreateInput) (Account, error) {
	for _, a := range r.accounts {
		if a.Code == in.Code && a.DeletedAt == nil {
			return Account{}, shared.ErrDuplicate
		}
	}
	r.nextID++
	a := Account{
		ID:            r.nextID,
		Code:          in.Code,
		Name:          in.Name,
		Type:          in.Type,
		NormalBalance: in.NormalBalance,
		Category:      in.Category,
		Description:   in.Description,
		ParentID:      in.ParentID,
		IsHeader:      in.IsHeader,
		Level:         in.Level,
		IsActive:      true,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	r.accounts[a.ID] = &a
	return a, nil
}

func (r *memoryAccountRepo) Update(ctx context.Context, id int64, in UpdateInput) (Account, error) {
	a, ok := r.accounts[id]
	if !ok || a.DeletedAt != nil {
		return Account{}, acctshared.ErrAccountNotFound
	}
	if in.Name != nil {
		a.Name = *in.Name
	}
	if in.Category != nil {
		a.Category = *in.Category
	}
	if in.Description != nil {
		a.Description = *in.Description
	}
	if in.IsActive != nil {
		a.IsActive = *in.IsActive
	}
	return *a, nil
}

func (r *memoryAccountRepo) SoftDelete(ctx context.Context, id int64) error {
	a, ok := r.accounts[id]
	if !ok || a.DeletedAt != nil {
		return acctshared.ErrAccountNotFound
	}
	now := time.Now()
	a.DeletedAt = &now
	a.IsActive = false
	return nil
}

func (r *memoryAccountRepo) Get(ctx context.Context, id int64) (Account, error) {
	a, ok := r.accounts[id]
	if !ok || a.DeletedAt != nil {
		return Account{}, acctshared.ErrAccountNotFound
	}
	return *a, nil
}

func (r *memoryAccountRepo) GetByCode(ctx context.Context, code string) (Account, error) {
	for _, a := range r.accounts {
		if a.Code == code && a.DeletedAt == nil {
			return *a, nil
		}
	}
	return Account{}, acctshared.ErrAccountNotFound
}

func (r *memoryAccountRepo) List(ctx context.Context) ([]Account, error) {
	var out []Account
	for _, a := range r.accounts {
		if a.DeletedAt == nil {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *memoryAccountRepo) CountActiveChildren(ctx context.Context, id int64) (int, error) {
	n := 0
	for _, a := range r.accounts {
		if a.ParentID != nil && *a.ParentID == id && a.DeletedAt == nil {
			n++
		}
	}
	return n, nil
}

func (r *memoryAccountRepo) CountPostedLines(ctx context.Context, id int64) (int, error) {
	return r.postedLines[id], nil
}

func TestCreateAccountRejectsDuplicateCode(t *testing.T) {
	repo := newMemoryAccountRepo()
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Code: "1-100", Name: "Kas", Type: AccountTypeAsset, NormalBalance: NormalBalanceDebit})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateInput{Code: "1-100", Name: "Kas Kecil", Type: AccountTypeAsset, NormalBalance: NormalBalanceDebit})
	require.ErrorIs(t, err, shared.ErrDuplicate)
}

func TestCreateAccountReusesCodeAfterSoftDelete(t *testing.T) {
	repo := newMemoryAccountRepo()
	svc := NewService(repo)
	ctx := context.Background()

	a, err := svc.Create(ctx, CreateInput{Code: "1-100", Name: "Kas", Type: AccountTypeAsset, NormalBalance: NormalBalanceDebit})
	require.NoError(t, err)
	require.NoError(t, svc.Remove(ctx, a.ID))

	_, err = svc.Create(ctx, CreateInput{Code: "1-100", Name: "Kas", Type: AccountTypeAsset, NormalBalance: NormalBalanceDebit})
	require.NoError(t, err)
}

func TestCreateAccountRejectsMissingParent(t *testing.T) {
	repo := newMemoryAccountRepo()
	svc := NewService(repo)

	missing := int64(99)
	_, err := svc.Create(context.Background(), CreateInput{
		Code: "1-101", Name: "Bank", Type: AccountTypeAsset, NormalBalance: NormalBalanceDebit, ParentID: &missing,
	})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestRemoveHeaderWithChildrenFails(t *testing.T) {
	repo := newMemoryAccountRepo()
	svc := NewService(repo)
	ctx := context.Background()

	header, err := svc.Create(ctx, CreateInput{Code: "1-000", Name: "Aset Lancar", Type: AccountTypeAsset, NormalBalance: NormalBalanceDebit, IsHeader: true})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateInput{Code: "1-100", Name: "Kas", Type: AccountTypeAsset, NormalBalance: NormalBalanceDebit, ParentID: &header.ID, Level: 1})
	require.NoError(t, err)

	err = svc.Remove(ctx, header.ID)
	require.ErrorIs(t, err, acctshared.ErrAccountHasChildren)
}

func TestRemoveAccountWithPostingsFails(t *testing.T) {
	repo := newMemoryAccountRepo()
	svc := NewService(repo)
	ctx := context.Background()

	a, err := svc.Create(ctx, CreateInput{Code: "1-100", Name: "Kas", Type: AccountTypeAsset, NormalBalance: NormalBalanceDebit})
	require.NoError(t, err)
	repo.postedLines[a.ID] = 3

	err = svc.Remove(ctx, a.ID)
	require.ErrorIs(t, err, acctshared.ErrAccountHasPostings)
}

func TestBuildTreeGroupsByParentAndOrdersByCode(t *testing.T) {
	p1 := int64(1)
	list := []Account{
		{ID: 3, Code: "1-102", ParentID: &p1},
		{ID: 1, Code: "1-000", IsHeader: true},
		{ID: 2, Code: "1-101", ParentID: &p1},
		{ID: 4, Code: "2-000", IsHeader: true},
	}

	tree := BuildTree(list)
	require.Len(t, tree, 2)
	require.Equal(t, "1-000", tree[0].Code)
	require.Equal(t, "2-000", tree[1].Code)
	require.Len(t, tree[0].Children, 2)
	require.Equal(t, "1-101", tree[0].Children[0].Code)
	require.Equal(t, "1-102", tree[0].Children[1].Code)
}

func TestBuildTreeKeepsOrphansAsRoots(t *testing.T) {
	gone := int64(42)
	tree := BuildTree([]Account{{ID: 1, Code: "1-101", ParentID: &gone}})
	require.Len(t, tree, 1)
	require.Equal(t, "1-101", tree[0].Code)
}
