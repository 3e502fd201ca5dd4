package program

import (
	"errors"
	"fmt"

	"github.com/encoreprotocol/encore/pkg/compress"
)

// Code is a stable, user-surfaceable error code from the protocol's fixed
// error taxonomy.
type Code string

const (
	CodeNotSeller             Code = "NotSeller"
	CodeNotBuyer              Code = "NotBuyer"
	CodeUnauthorized          Code = "Unauthorized"
	CodeListingNotActive      Code = "ListingNotActive"
	CodeListingNotClaimed     Code = "ListingNotClaimed"
	CodeListingAlreadyClaimed Code = "ListingAlreadyClaimed"
	CodeListingNotCancellable Code = "ListingNotCancellable"
	CodeMaxSupplyReached      Code = "MaxSupplyReached"
	CodeExceedsResaleCap      Code = "ExceedsResaleCap"
	CodeEventTimestampInPast  Code = "EventTimestampInPast"
	CodeResaleCapOutOfRange   Code = "ResaleCapOutOfRange"
	CodeInvalidTicketSupply   Code = "InvalidTicketSupply"
	CodeFieldTooLong          Code = "FieldTooLong"
	CodeCommitmentMismatch    Code = "CommitmentMismatch"
	CodeAddressExists         Code = "AddressExists"
	CodeInvalidValidityProof  Code = "InvalidValidityProof"
	CodeInvalidAddressTree    Code = "InvalidAddressTree"
	CodeTreeMismatch          Code = "TreeMismatch"
)

// Error is the protocol-level error every exported operation returns on a
// policy, authorization or substrate rejection. It carries a stable Code a
// caller can branch on via errors.Is against the package sentinels below,
// plus a human-readable Message for the UI boundary.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is lets errors.Is(err, program.ErrNotSeller) match any *Error sharing
// its Code, regardless of Message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func newErr(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// translateCompressErr maps pkg/compress's substrate-level errors onto
// the protocol's own "Substrate" error category, so callers only ever
// need to branch on program.Error codes.
func translateCompressErr(err error) error {
	switch {
	case errors.Is(err, compress.ErrAddressExists):
		return ErrAddressExists
	case errors.Is(err, compress.ErrInvalidValidityProof):
		return ErrInvalidValidityProof
	case errors.Is(err, compress.ErrTreeMismatch):
		return ErrTreeMismatch
	case errors.Is(err, compress.ErrInsufficientPackedAccounts):
		return newErr(CodeInvalidAddressTree, "insufficient packed accounts")
	default:
		return fmt.Errorf("compressed-account substrate: %w", err)
	}
}

// Sentinels for errors.Is comparisons; Message is irrelevant to equality.
var (
	ErrNotSeller             = &Error{Code: CodeNotSeller}
	ErrNotBuyer              = &Error{Code: CodeNotBuyer}
	ErrUnauthorized          = &Error{Code: CodeUnauthorized}
	ErrListingNotActive      = &Error{Code: CodeListingNotActive}
	ErrListingNotClaimed     = &Error{Code: CodeListingNotClaimed}
	ErrListingAlreadyClaimed = &Error{Code: CodeListingAlreadyClaimed}
	ErrListingNotCancellable = &Error{Code: CodeListingNotCancellable}
	ErrMaxSupplyReached      = &Error{Code: CodeMaxSupplyReached}
	ErrExceedsResaleCap      = &Error{Code: CodeExceedsResaleCap}
	ErrEventTimestampInPast  = &Error{Code: CodeEventTimestampInPast}
	ErrResaleCapOutOfRange   = &Error{Code: CodeResaleCapOutOfRange}
	ErrInvalidTicketSupply   = &Error{Code: CodeInvalidTicketSupply}
	ErrFieldTooLong          = &Error{Code: CodeFieldTooLong}
	ErrCommitmentMismatch    = &Error{Code: CodeCommitmentMismatch}
	ErrAddressExists         = &Error{Code: CodeAddressExists}
	ErrInvalidValidityProof  = &Error{Code: CodeInvalidValidityProof}
	ErrInvalidAddressTree    = &Error{Code: CodeInvalidAddressTree}
	ErrTreeMismatch          = &Error{Code: CodeTreeMismatch}
)
