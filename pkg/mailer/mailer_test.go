package mailer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderCode(t *testing.T) {
	body, err := renderCode(codeEmail{Heading: "Email verification", Username: "<Ann>", Code: "123456", ExpiryMinutes: 5})
	require.NoError(t, err)
	assert.Contains(t, body, "123456")
	assert.Contains(t, body, "5 minutes")
	assert.Contains(t, body, "&lt;Ann&gt;", "names are escaped")
}

func TestBuildMessage(t *testing.T) {
	m := New(Config{From: "no-reply@focushub.app", FromName: "FocusHub"})
	msg := string(m.buildMessage("ann@example.com", "Hello", "<p>hi</p>"))

	assert.True(t, strings.HasPrefix(msg, "From: FocusHub <no-reply@focushub.app>\r\n"))
	assert.Contains(t, msg, "Subject: Hello\r\n")
	assert.True(t, strings.HasSuffix(msg, "\r\n\r\n<p>hi</p>"))
}
