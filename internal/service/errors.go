package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"
)

var (
	ErrNotFound               = errors.New("not found")
	ErrValidation             = errors.New("validation failed")
	ErrEmailAlreadyExists     = errors.New("email already exists")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrOldPasswordRequired    = errors.New("old password is required")
	ErrInvalidOldPassword     = errors.New("invalid old password")
	ErrInvalidToken           = errors.New("invalid or expired token")
	ErrPasswordResetCooldown  = errors.New("please wait 24 hours before requesting another password reset")
	ErrConfirmationCooldown   = errors.New("please wait 24 hours before requesting another confirmation email")
	ErrUploadIDRequired       = errors.New("upload id is required")
	ErrUploadTargetIncomplete = errors.New("store id and planogram id are required (provide both or a valid submission id)")

	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// cooldown is the minimum gap between two confirmation or reset emails.
const cooldown = 24 * time.Hour

// now is the clock behind every audit timestamp.
var now = func() time.Time {
	return time.Now().UTC()
}

func notFound(entity, id string) error {
	return fmt.Errorf("%w: %s %s", ErrNotFound, entity, id)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Mailer sends the account emails. Delivery failures are logged by callers
// and never undo the write that triggered them.
type Mailer interface {
	SendConfirmationEmail(ctx context.Context, to, token, lang string) error
	SendPasswordResetEmail(ctx context.Context, to, token, lang string) error
}

// FileInput is an uploaded file as received from the client.
type FileInput struct {
	Name        string
	ContentType string
	Data        []byte
}

func (f *FileInput) validate() error {
	if f == nil || len(f.Data) == 0 {
		return invalid("file is required")
	}
	return nil
}

// optional maps "" to a NULL column value.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
