package mail

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/course-service/internal/config"
)

func TestNew_SelectsImplementation(t *testing.T) {
	_, isLog := New(config.MailConfig{}, zap.NewNop()).(*LogMailer)
	assert.True(t, isLog)

	_, isSMTP := New(config.MailConfig{Addr: "smtp.example.com:587"}, zap.NewNop()).(*SMTPMailer)
	assert.True(t, isSMTP)
}

func TestLogMailer_Send(t *testing.T) {
	m := NewLogMailer(zap.NewNop())

	assert.NoError(t, m.Send(context.Background(), Message{To: "a@b.co", Subject: "s", Body: "b"}))
}

func TestBuildMessage(t *testing.T) {
	raw := string(buildMessage("WEB4JOBS <noreply@example.com>", Message{To: "a@b.co", Subject: "Hello", Body: "Body"}))

	assert.True(t, strings.HasPrefix(raw, "From: WEB4JOBS <noreply@example.com>\r\nTo: a@b.co\r\nSubject: Hello\r\n"))
	assert.True(t, strings.HasSuffix(raw, "\r\n\r\nBody\r\n"))
}

func TestAddressAndHost(t *testing.T) {
	assert.Equal(t, "noreply@example.com", address("WEB4JOBS <noreply@example.com>"))
	assert.Equal(t, "plain@example.com", address("plain@example.com"))
	assert.Equal(t, "smtp.example.com", host("smtp.example.com:465"))
	assert.Equal(t, "smtp.example.com", host("smtp.example.com"))
}

func TestTemplates(t *testing.T) {
	welcome, err := WelcomeMessage("jane@example.com", WelcomeData{FirstName: "Jane", LastName: "Doeee", Email: "jane@example.com", Role: "formateur"})
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", welcome.To)
	assert.Contains(t, welcome.Body, "Jane Doeee")
	assert.Contains(t, welcome.Body, "formateur")

	reset, err := ResetRequestMessage("jane@example.com", ResetRequestData{
		FirstName: "Jane",
		ResetURL:  "http://localhost:3000/reset-password/abc",
		ExpiresAt: time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Contains(t, reset.Body, "http://localhost:3000/reset-password/abc")
	assert.Contains(t, reset.Body, "01/05/2024 10:30")

	done, err := ResetSuccessMessage("jane@example.com", ResetSuccessData{FirstName: "Jane"})
	require.NoError(t, err)
	assert.Contains(t, done.Body, "Jane")
}
