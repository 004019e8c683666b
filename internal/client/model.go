package client

import (
	"regexp"
	"strings"
	"time"

	"github.com/agendafacil/agendafacil-backend/internal/pkg/apperror"
)

var (
	ErrNotFound      = apperror.NotFound("client not found")
	ErrNameRequired  = apperror.Validation("name is required")
	ErrEmailRequired = apperror.Validation("email is required")
	ErrInvalidEmail  = apperror.Validation("email is not valid")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Client is a patient identified by email. There is no password; the public
// booking flow upserts the record before any booking is made.
type Client struct {
	ID        string
	Email     string
	Name      string
	Phone     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NormalizeEmail trims spaces and lowercases the email.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsValidEmail reports whether the email has a plausible mailbox@domain shape.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}
