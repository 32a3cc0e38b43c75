package authgate

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = errors.New("identity not found")

// ErrNoEmptyString rejects empty password input
var ErrNoEmptyString = errors.New("password must not be empty")

// ErrMismatchedHashAndPassword is returned when the cleartext password
// does not match the stored hash
var ErrMismatchedHashAndPassword = errors.New("mismatched password and hash")

// ErrUnableToFindSession is the error when our request has no usable claims
var ErrUnableToFindSession = errors.New("unable to find session")

// ErrUnableToMapClaims unable to get claims from token
var ErrUnableToMapClaims = errors.New("unable to map claims")

// ErrInvalidEmail is returned by Canonicalize for inputs that cannot
// denote a mailbox: empty, zero or multiple @, or a leading +.
var ErrInvalidEmail = goerrors.New("invalid email address", goerrors.CategoryValidation).
	WithTextCode("INVALID_EMAIL")

// ErrInvalidCredentials merges unknown-identity and wrong-password failures
// so the login path cannot be used to enumerate accounts.
var ErrInvalidCredentials = goerrors.New("wrong email or password", goerrors.CategoryAuth).
	WithTextCode("INVALID_CREDENTIALS").
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenMalformed covers signature and shape failures
var ErrTokenMalformed = goerrors.New("token is malformed", goerrors.CategoryAuth).
	WithTextCode("TOKEN_MALFORMED").
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenExpired is returned for tokens past their expiry claim
var ErrTokenExpired = goerrors.New("token is expired", goerrors.CategoryAuth).
	WithTextCode("TOKEN_EXPIRED").
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenRevoked is returned for refresh credentials whose jti sits in
// the revocation set
var ErrTokenRevoked = goerrors.New("token has been revoked", goerrors.CategoryAuth).
	WithTextCode("TOKEN_REVOKED").
	WithCode(goerrors.CodeUnauthorized)

// Registration field-error messages, mirrored by the HTTP layer.
const (
	MsgInvalidEmail    = "Invalid Email"
	MsgInvalidUsername = "Invalid Username"
	MsgInvalidPassword = "Invalid Password"
	MsgEmailTaken      = "Email already taken"
	MsgUsernameTaken   = "Username already taken"
)

// MsgInvalidRefreshToken is the single rejection body for every refresh
// credential failure. Malformed, expired, and revoked must stay
// indistinguishable to callers; the distinction reaches the logs and
// the activity sink only.
const MsgInvalidRefreshToken = "Invalid refresh token"

// FieldErrors is the structured result of registration validation: zero or
// more field-keyed messages, inspected directly by the gateway instead of
// being raised and caught. Conflict reports (already-taken) force a 409
// regardless of any format error present alongside.
type FieldErrors struct {
	Fields   map[string]string
	Conflict bool
}

// NewFieldErrors creates an empty field error set
func NewFieldErrors() *FieldErrors {
	return &FieldErrors{Fields: map[string]string{}}
}

// Set records a format error for a field
func (e *FieldErrors) Set(field, message string) *FieldErrors {
	e.Fields[field] = message
	return e
}

// SetConflict records a uniqueness conflict for a field
func (e *FieldErrors) SetConflict(field, message string) *FieldErrors {
	e.Fields[field] = message
	e.Conflict = true
	return e
}

// Empty reports whether any field error was recorded
func (e *FieldErrors) Empty() bool {
	return len(e.Fields) == 0
}

func (e *FieldErrors) Error() string {
	if e.Empty() {
		return "no field errors"
	}

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return strings.Join(parts, "; ")
}

// AsFieldErrors unwraps err into a *FieldErrors when possible
func AsFieldErrors(err error) (*FieldErrors, bool) {
	var fe *FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return goerrors.Is(err, ErrTokenExpired) ||
		strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return goerrors.Is(err, ErrTokenMalformed) ||
		strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
