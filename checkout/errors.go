package checkout

import "fmt"

// Kind classifies a checkout outcome so callers can branch without parsing
// detail strings.
type Kind string

const (
	KindNotAuthorized     Kind = "not_authorized"
	KindNotFound          Kind = "not_found"
	KindEmptyCart         Kind = "empty_cart"
	KindInsufficientStock Kind = "insufficient_stock"
	KindInvalidAmount     Kind = "invalid_amount"
	KindConflict          Kind = "conflict" // another checkout holds the cart
	KindGatewayDeclined   Kind = "gateway_declined"
	KindGatewayError      Kind = "gateway_error"
	KindUnexpected        Kind = "unexpected_error"
)

type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

func wrapError(kind Kind, detail string, err error) *Error {
	return &Error{Kind: kind, Detail: detail, Err: err}
}

// Validation kinds are raised before any persistent state is mutated; the
// caller needs no cleanup and may simply retry with corrected input.
func (k Kind) IsValidation() bool {
	switch k {
	case KindNotAuthorized, KindNotFound, KindEmptyCart,
		KindInsufficientStock, KindInvalidAmount, KindConflict:
		return true
	}
	return false
}

// Retryable reports whether a later attempt with the same input could
// succeed (provider-side or transient failures).
func (k Kind) Retryable() bool {
	return k == KindGatewayError || k == KindUnexpected || k == KindConflict
}
