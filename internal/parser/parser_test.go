package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func crlf(lines ...string) []byte {
	return []byte(strings.Join(lines, "\r\n"))
}

func TestParse_PlainText(t *testing.T) {
	raw := crlf(
		"From: alice@example.com",
		"To: bob@example.com",
		"Subject: Quarterly report",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"Please review http://reports.example.com today.",
	)

	msg := Parse(raw)

	assert.Equal(t, "alice@example.com", msg.Sender)
	assert.Equal(t, "Quarterly report", msg.Subject)
	assert.Contains(t, msg.Body, "http://reports.example.com")
}

func TestParse_MultipartPrefersPlainText(t *testing.T) {
	raw := crlf(
		"From: alice@example.com",
		"Subject: Newsletter",
		"MIME-Version: 1.0",
		"Content-Type: multipart/alternative; boundary=BOUNDARY",
		"",
		"--BOUNDARY",
		"Content-Type: text/html; charset=utf-8",
		"",
		"<p>html version http://html.example.com</p>",
		"--BOUNDARY",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"plain version http://plain.example.com",
		"--BOUNDARY--",
		"",
	)

	msg := Parse(raw)

	assert.Contains(t, msg.Body, "plain version")
	assert.NotContains(t, msg.Body, "html version")
}

func TestParse_MultipartWithoutPlainText(t *testing.T) {
	raw := crlf(
		"From: alice@example.com",
		"Subject: HTML only",
		"MIME-Version: 1.0",
		"Content-Type: multipart/alternative; boundary=BOUNDARY",
		"",
		"--BOUNDARY",
		"Content-Type: text/html; charset=utf-8",
		"",
		"<p>only html here</p>",
		"--BOUNDARY--",
		"",
	)

	msg := Parse(raw)

	assert.Equal(t, "alice@example.com", msg.Sender)
	assert.Empty(t, msg.Body)
}

func TestParse_EncodedSubject(t *testing.T) {
	raw := crlf(
		"From: alice@example.com",
		"Subject: =?UTF-8?Q?Invitaci=C3=B3n?=",
		"Content-Type: text/plain",
		"",
		"hola",
	)

	msg := Parse(raw)

	assert.Equal(t, "Invitación", msg.Subject)
}

func TestParse_QuotedPrintableBody(t *testing.T) {
	raw := crlf(
		"From: alice@example.com",
		"Subject: coffee",
		"Content-Type: text/plain; charset=utf-8",
		"Content-Transfer-Encoding: quoted-printable",
		"",
		"caf=C3=A9 at http://cafe.example.com",
	)

	msg := Parse(raw)

	assert.Contains(t, msg.Body, "café")
	assert.Contains(t, msg.Body, "http://cafe.example.com")
}

func TestParse_Latin1Body(t *testing.T) {
	raw := crlf(
		"From: alice@example.com",
		"Subject: latin1",
		"Content-Type: text/plain; charset=iso-8859-1",
		"",
		"caf\xe9",
	)

	msg := Parse(raw)

	assert.Contains(t, msg.Body, "café")
}

func TestParse_BrokenPayloadYieldsEmptyBody(t *testing.T) {
	raw := crlf(
		"From: alice@example.com",
		"Subject: broken",
		"Content-Type: text/plain; charset=utf-8",
		"Content-Transfer-Encoding: base64",
		"",
		"!!!not base64!!!",
	)

	msg := Parse(raw)

	assert.Equal(t, "alice@example.com", msg.Sender)
	assert.Equal(t, "broken", msg.Subject)
	assert.Empty(t, msg.Body)
}

func TestParse_MissingHeaders(t *testing.T) {
	raw := crlf(
		"Content-Type: text/plain",
		"",
		"body only",
	)

	msg := Parse(raw)

	assert.Empty(t, msg.Sender)
	assert.Empty(t, msg.Subject)
	assert.Contains(t, msg.Body, "body only")
}

func TestParse_GarbageDoesNotPanic(t *testing.T) {
	msg := Parse([]byte("this is not a mail message at all"))

	assert.Empty(t, msg.Sender)
	assert.Empty(t, msg.Subject)
}

func TestParseFallback_RecoversHeaders(t *testing.T) {
	raw := crlf(
		"From: eve@example.com",
		"Subject: =?UTF-8?Q?Reuni=C3=B3n?=",
		"",
		"see http://fallback.example.com",
	)

	msg := parseFallback(raw)

	assert.Equal(t, "eve@example.com", msg.Sender)
	assert.Equal(t, "Reunión", msg.Subject)
	assert.Contains(t, msg.Body, "http://fallback.example.com")
}
