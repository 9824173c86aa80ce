package shared

import "errors"

var (
	// ErrUnbalanced indicates debit != credit.
	ErrUnbalanced = errors.New("accounting: journal lines must balance")
	// ErrTooFewLines indicates less than two lines.
	ErrTooFewLines = errors.New("accounting: journal requires at least two lines")
	// ErrJournalNotFound indicates missing entry.
	ErrJournalNotFound = errors.New("accounting: journal entry not found")
	// ErrInvalidStatus indicates action can't proceed.
	ErrInvalidStatus = errors.New("accounting: invalid status transition")
	// ErrAccountNotFound indicates a line references a missing or deleted account.
	ErrAccountNotFound = errors.New("accounting: account not found")
	// ErrHeaderAccount indicates a posting against a header account.
	ErrHeaderAccount = errors.New("accounting: header accounts cannot receive postings")
	// ErrAccountInactive indicates a posting against a deactivated account.
	ErrAccountInactive = errors.New("accounting: account is deactivated")
	// ErrAccountHasChildren blocks removal of headers with live children.
	ErrAccountHasChildren = errors.New("accounting: account has active child accounts")
	// ErrAccountHasPostings blocks removal of accounts with financial history.
	ErrAccountHasPostings = errors.New("accounting: account has posted journal lines")
	// ErrUnknownTransactionType indicates a translator received a type
	// outside its routing table. A caller or configuration bug.
	ErrUnknownTransactionType = errors.New("accounting: unknown transaction type")
	// ErrDefaultAccountMissing indicates a routing-table account code has no
	// matching chart of accounts entry. A configuration error.
	ErrDefaultAccountMissing = errors.New("accounting: default account missing from chart")
)
