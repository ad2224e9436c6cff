package apierrors

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Stable error codes surfaced in the response envelope.
const (
	CodeEmailOrPasswordInvalid = "EMAIL_OR_PASSWORD_INVALID"
	CodePasswordNotValidated   = "PASSWORD_NOT_VALIDATED"
	CodePasswordsNotMatching   = "PASSWORDS_NOT_MATCHING"
	CodeEmailAlreadyExists     = "EMAIL_ALREADY_EXISTS"
	CodeResetLinkInvalid       = "RESET_LINK_INVALID"
	CodeUnauthorized           = "UNAUTHORIZED"
	CodeNotFound               = "NOT_FOUND"
	CodeInvalidRequest         = "INVALID_REQUEST"
)

// PasswordPolicyMessage is the fixed message for weak passwords.
const PasswordPolicyMessage = "Le mot de passe n'est pas valide. Il doit comprendre 6 caractères, au moins une lettre, un chiffre et un caractère spécial"

var (
	// ErrNotFound is returned when a requested document does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned when the email unique index rejects a write.
	ErrDuplicateEmail = errors.New("a user already exists with this email")
	// ErrInvalidCredentials is the generic signin denial; identical for
	// unknown email and wrong password so accounts cannot be enumerated.
	ErrInvalidCredentials = errors.New("E-mail ou mot de passe incorrect")
	// ErrInvalidToken covers every session token failure without detail.
	ErrInvalidToken = errors.New("invalid token")
)

// Fail writes the uniform failure envelope.
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"ok": false, "error": message})
}

// FailCode writes the uniform failure envelope with a stable code.
func FailCode(c *gin.Context, status int, message, code string) {
	c.JSON(status, gin.H{"ok": false, "error": message, "code": code})
}

// BadRequest reports malformed input.
func BadRequest(c *gin.Context, err error) {
	FailCode(c, http.StatusBadRequest, err.Error(), CodeInvalidRequest)
}

// Unauthorized rejects a request with no detail about the cause.
func Unauthorized(c *gin.Context) {
	FailCode(c, http.StatusUnauthorized, "unauthorized", CodeUnauthorized)
}

// Internal reports an unexpected failure without leaking internals.
func Internal(c *gin.Context) {
	Fail(c, http.StatusInternalServerError, "internal server error")
}
