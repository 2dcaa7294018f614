package alert

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phishguard/internal/domain"
)

func TestCompose(t *testing.T) {
	n := &SMTPNotifier{
		username:  "scanner@example.com",
		recipient: "soc@example.com",
	}

	msg := n.compose(domain.AlertNotice{
		Sender:  "mallory@evil.example",
		Subject: "Account verification",
		URLs:    []string{"http://bad.example", "http://bad.example"},
	})

	parts := strings.SplitN(msg, "\r\n\r\n", 2)
	require.Len(t, parts, 2, "message must have a header section and a body")
	header, body := parts[0], parts[1]

	assert.Contains(t, header, "From: scanner@example.com")
	assert.Contains(t, header, "To: soc@example.com")
	assert.Contains(t, header, "Subject: Phishing Alert")
	assert.Contains(t, header, "Message-ID: <")

	assert.Contains(t, body, "Suspicious email detected.")
	assert.Contains(t, body, "Sender: mallory@evil.example")
	assert.Contains(t, body, "Subject: Account verification")
	assert.Contains(t, body, "URLs: http://bad.example, http://bad.example")
}

func TestCompose_UniqueMessageIDs(t *testing.T) {
	n := &SMTPNotifier{username: "a@example.com", recipient: "b@example.com"}
	notice := domain.AlertNotice{Sender: "x@example.com", Subject: "s"}

	first := n.compose(notice)
	second := n.compose(notice)

	assert.NotEqual(t, messageID(t, first), messageID(t, second))
}

func messageID(t *testing.T, msg string) string {
	t.Helper()
	for _, line := range strings.Split(msg, "\r\n") {
		if strings.HasPrefix(line, "Message-ID: ") {
			return line
		}
	}
	t.Fatal("no Message-ID header")
	return ""
}
