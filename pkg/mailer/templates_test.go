package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerificationEmailEscapesName(t *testing.T) {
	subject, body, err := VerificationEmail("<Juan>", "https://app.example/verify?token=abc")
	require.NoError(t, err)
	assert.Equal(t, "Verify your GasFlow account", subject)
	assert.Contains(t, body, "&lt;Juan&gt;")
	assert.Contains(t, body, `href="https://app.example/verify?token=abc"`)
}

func TestPasswordResetEmail(t *testing.T) {
	subject, body, err := PasswordResetEmail("Maria", "https://app.example/reset?token=xyz")
	require.NoError(t, err)
	assert.Equal(t, "Reset your GasFlow password", subject)
	assert.Contains(t, body, "Maria")
	assert.Contains(t, body, "reset?token=xyz")
}
