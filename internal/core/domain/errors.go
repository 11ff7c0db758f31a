package domain

import "errors"

// Error is a domain failure carrying a stable numeric code. Handlers render
// it as {"code": ..., "message": ...}.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string { return e.Message }

// User directory errors.
var (
	ErrUserRequired      = &Error{Code: 1000, Message: "the user is required"}
	ErrUsernameEmpty     = &Error{Code: 1001, Message: "username is required"}
	ErrPasswordEmpty     = &Error{Code: 1002, Message: "the user password should not be empty"}
	ErrAuthentication    = &Error{Code: 1003, Message: "incorrect user/password"}
	ErrDuplicateUsername = &Error{Code: 1004, Message: "username already exists"}
)

// Product catalog errors.
var (
	ErrProductRequired  = &Error{Code: 2000, Message: "the product is required"}
	ErrNameRequired     = &Error{Code: 2001, Message: "the product name is required"}
	ErrPriceRequired    = &Error{Code: 2002, Message: "the product price is required"}
	ErrProductNotFound  = &Error{Code: 2003, Message: "the product not found"}
	ErrCreateInProgress = &Error{Code: 2004, Message: "a product with this idempotency key is being created"}
)

// ErrUserNotFound is internal to the directory; callers of Authenticate only
// ever see ErrAuthentication.
var ErrUserNotFound = errors.New("user not found")

// ErrInvalidToken covers bad signatures, wrong secrets, malformed and
// expired tokens alike.
var ErrInvalidToken = errors.New("invalid token")
