package models

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Error kinds. Every error returned by this package wraps exactly one of them
// so that callers can map errors to a response with errors.Is.
var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")
	ErrValidation       = errors.New("the request is invalid")
	ErrConflict         = errors.New("the request conflicts with the current state")
	ErrIntegrity        = errors.New("a referenced resource could not be resolved")
)

// kindError is an error with its own message that is classified by its kind.
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string {
	return e.msg
}

func (e *kindError) Unwrap() error {
	return e.kind
}

func newError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

// Split errors
var (
	ErrAlreadySplit     = newError(ErrConflict, "the transaction is already split")
	ErrNotSplit         = newError(ErrConflict, "the transaction is not split")
	ErrChildTransaction = newError(ErrConflict, "the transaction is part of a split, change the split instead")
	ErrAmountLocked     = newError(ErrConflict, "the amount of a split transaction or of one of its parts cannot be changed")
	ErrNoSplits         = newError(ErrValidation, "at least one split must be specified")
	ErrAmountMismatch   = newError(ErrValidation, "the split amounts do not sum up to the transaction amount")
)

// Transaction errors
var (
	ErrInvalidTransactionID = newError(ErrValidation, "the transaction ID must consist of five digits, optionally followed by a dash and the split number")
	ErrTransactionIDInUse   = newError(ErrConflict, "the transaction ID is already in use")
	ErrTransactionIDsUsedUp = newError(ErrConflict, "there is no free transaction ID left")
	ErrDateMissing          = newError(ErrValidation, "the date must be set")
)

// Category, group and tag errors
var (
	ErrUnknownCategory       = newError(ErrValidation, "there is no category with this name")
	ErrUnknownTag            = newError(ErrValidation, "there is no tag with this name")
	ErrNameEmpty             = newError(ErrValidation, "the name must not be empty")
	ErrCategoryNameUnchanged = newError(ErrValidation, "the new category name is the same as the current one")
	ErrDefaultCategory       = newError(ErrConflict, "the default category cannot be renamed")
	ErrCategoryExists        = newError(ErrConflict, "a category with this name already exists")
	ErrTagExists             = newError(ErrConflict, "a tag with this name already exists")
	ErrTagMode               = newError(ErrValidation, "the tag mode must be either \"and\" or \"or\"")
	ErrUngroupedMissing      = newError(ErrIntegrity, "the \"ungrouped\" group does not exist, the database has not been seeded")
)

// AmountMismatchError is returned when the amounts of a split do not
// sum up to the amount of the split transaction.
type AmountMismatchError struct {
	Expected decimal.Decimal
	Actual   decimal.Decimal
}

func (e AmountMismatchError) Error() string {
	return fmt.Sprintf("the split amounts sum up to %s, but the transaction amount is %s", e.Actual, e.Expected)
}

func (e AmountMismatchError) Unwrap() error {
	return ErrAmountMismatch
}
