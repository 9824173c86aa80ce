package accounts

import (
	"context"
	"errors"
	"fmt"

	acctshared "github.com/satwa-erp/satwa-erp/internal/accounting/shared"
	"github.com/satwa-erp/satwa-erp/internal/shared"
)

// Service handles chart of accounts business logic.
type Service struct {
	repo Repository
}

// NewService builds Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a new account. Fails when the code already exists among
// non-deleted accounts or the parent reference is dangling.
func (s *Service) Create(ctx context.Context, in CreateInput) (Account, error) {
	if err := in.Validate(); err != nil {
		return Account{}, err
	}
	if in.ParentID != nil {
		if _, err := s.repo.Get(ctx, *in.ParentID); err != nil {
			return Account{}, fmt.Errorf("%w: parent account %d", shared.ErrValidation, *in.ParentID)
		}
	}
	a, err := s.repo.Insert(ctx, in)
	if err != nil {
		if errors.Is(err, shared.ErrDuplicate) {
			return Account{}, fmt.Errorf("%w: account code %q already in use", shared.ErrDuplicate, in.Code)
		}
		return Account{}, err
	}
	return a, nil
}

// Update mutates the editable subset of account fields. Code, type, normal
// balance and parent stay immutable once set.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (Account, error) {
	if in.Name != nil && *in.Name == "" {
		return Account{}, fmt.Errorf("%w: account name cannot be empty", shared.ErrValidation)
	}
	return s.repo.Update(ctx, id, in)
}

// Remove soft-deletes an account. Headers with live children and accounts
// with posted history are never deletable, only deactivatable.
func (s *Service) Remove(ctx context.Context, id int64) error {
	account, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if account.IsHeader {
		children, err := s.repo.CountActiveChildren(ctx, id)
		if err != nil {
			return err
		}
		if children > 0 {
			return acctshared.ErrAccountHasChildren
		}
	}
	posted, err := s.repo.CountPostedLines(ctx, id)
	if err != nil {
		return err
	}
	if posted > 0 {
		return acctshared.ErrAccountHasPostings
	}
	return s.repo.SoftDelete(ctx, id)
}

// Get fetches a single non-deleted account.
func (s *Service) Get(ctx context.Context, id int64) (Account, error) {
	return s.repo.Get(ctx, id)
}

// GetByCode resolves an account by its chart code.
func (s *Service) GetByCode(ctx context.Context, code string) (Account, error) {
	return s.repo.GetByCode(ctx, code)
}

// List returns all non-deleted accounts ordered by code.
func (s *Service) List(ctx context.Context) ([]Account, error) {
	return s.repo.List(ctx)
}

// Tree returns the account hierarchy reconstructed from parent references.
func (s *Service) Tree(ctx context.Context) ([]*TreeNode, error) {
	accounts, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return BuildTree(accounts), nil
}
