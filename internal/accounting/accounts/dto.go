package accounts

import (
	"fmt"

	"github.com/satwa-erp/satwa-erp/internal/shared"
)

// CreateInput groups fields required to create an account.
type CreateInput struct {
	Code          string
	Name          string
	Type          AccountType
	NormalBalance NormalBalance
	Category      string
	Description   string
	ParentID      *int64
	IsHeader      bool
	Level         int
}

// Validate ensures creation input meets minimum criteria.
func (in CreateInput) Validate() error {
	if in.Code == "" {
		return fmt.Errorf("%w: account code required", shared.ErrValidation)
	}
	if in.Name == "" {
		return fmt.Errorf("%w: account name required", shared.ErrValidation)
	}
	switch in.Type {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity, AccountTypeRevenue, AccountTypeExpense:
	default:
		return fmt.Errorf("%w: invalid account type %q", shared.ErrValidation, in.Type)
	}
	switch in.NormalBalance {
	case NormalBalanceDebit, NormalBalanceCredit:
	default:
		return fmt.Errorf("%w: invalid normal balance %q", shared.ErrValidation, in.NormalBalance)
	}
	if in.Level < 0 {
		return fmt.Errorf("%w: level cannot be negative", shared.ErrValidation)
	}
	return nil
}

// UpdateInput carries mutable account fields. Code, type, normal balance and
// parent are deliberately absent: reclassifying an account after creation
// would silently corrupt historical reports.
type UpdateInput struct {
	Name        *string
	Category    *string
	Description *string
	IsActive    *bool
}
