package domain

import "errors"

// Pool errors
var (
	ErrInsufficientStake = errors.New("stake is below the minimum entry")
	ErrUnauthorized      = errors.New("caller is not the pool manager")
	ErrNoParticipants    = errors.New("pool has no participants")
	ErrTransferFailure   = errors.New("payout transfer failed")
	ErrPoolNotFound      = errors.New("pool not found")
	ErrPoolAlreadyExists = errors.New("guild already has a pool")
)

// Ledger errors
var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrAccountFrozen     = errors.New("account is frozen")
	ErrAccountNotFound   = errors.New("account not found")
	ErrInvalidAddress    = errors.New("invalid address")
	ErrInvalidAmount     = errors.New("invalid amount")
)
