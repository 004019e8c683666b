package professional

import (
	"net/http"
	"time"

	"github.com/agendafacil/agendafacil-backend/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.NotFound("professional not found")
	ErrEmailAlreadyUsed   = apperror.Conflict("email already used")
	ErrInvalidCredentials = apperror.New(http.StatusUnauthorized, "invalid email or password")
	ErrInactive           = apperror.New(http.StatusForbidden, "professional account is inactive")
	ErrEmailRequired      = apperror.Validation("email is required")
	ErrPasswordTooShort   = apperror.Validation("password must be at least 8 characters")
	ErrNotAnImage         = apperror.Validation("avatar must be an image")
	ErrNoAvatar           = apperror.NotFound("no avatar uploaded")
)

// Professional is a service provider who owns an agenda.
// Phone is used for the WhatsApp alert sent when a client books.
type Professional struct {
	ID                  string
	Email               string
	PasswordHash        string
	DisplayName         *string
	Phone               *string
	AvatarPath          *string
	AvatarThumbnailPath *string
	IsActive            bool
	CreatedAt           time.Time
	LastLoginAt         *time.Time
}
