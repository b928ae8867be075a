package email

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	sent []*Message
	err  error
}

func (r *recordingSender) Send(_ context.Context, msg *Message) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, msg)
	return nil
}

func TestRenderer_FallsBackToEnglish(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	plain, htmlBody, err := r.Render("password_reset", "fr", templateData{AppName: "Shelf", URL: "https://x/reset", Year: 2025})
	require.NoError(t, err)

	assert.Contains(t, plain, "# Reset your password")
	assert.Contains(t, htmlBody, "<h1>Reset your password</h1>")
	assert.Contains(t, htmlBody, `href="https://x/reset"`)
	assert.Contains(t, htmlBody, "2025 Shelf")
}

func TestRenderer_German(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	_, htmlBody, err := r.Render("account_confirmation", "de", templateData{AppName: "Shelf", URL: "https://x/c"})
	require.NoError(t, err)
	assert.Contains(t, htmlBody, "Willkommen bei Shelf")
}

func TestRenderer_UnknownTemplate(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	_, _, err = r.Render("newsletter", "en", templateData{})
	assert.Error(t, err)
}

func TestService_ConfirmationLink(t *testing.T) {
	sender := &recordingSender{}
	svc, err := NewService(sender, "Planogram", "https://app.example.com/")
	require.NoError(t, err)

	err = svc.SendConfirmationEmail(context.Background(), "a@example.com", "tok+1", "en")
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, "a@example.com", msg.To)
	assert.Equal(t, "Planogram - Confirm your email", msg.Subject)
	assert.Contains(t, msg.PlainBody, "https://app.example.com/auth/confirm-email?token=tok%2B1")
}

func TestService_PasswordResetPropagatesSendError(t *testing.T) {
	sender := &recordingSender{err: errors.New("smtp down")}
	svc, err := NewService(sender, "Planogram", "https://app.example.com")
	require.NoError(t, err)

	err = svc.SendPasswordResetEmail(context.Background(), "a@example.com", "tok", "de")
	assert.EqualError(t, err, "smtp down")
}
