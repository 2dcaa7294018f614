package parser

import (
	"bytes"
	"io"
	"log"
	"mime"
	netmail "net/mail"
	"strings"

	"github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
	"golang.org/x/text/encoding/charmap"

	"phishguard/internal/domain"
)

func init() {
	// Register additional charsets that are commonly used in emails
	charset.RegisterEncoding("windows-1252", charmap.Windows1252)
	charset.RegisterEncoding("iso-8859-1", charmap.ISO8859_1)
	charset.RegisterEncoding("iso-8859-15", charmap.ISO8859_15)
}

// Parse decodes a raw message into sender, subject and the best-effort
// plain-text body. It never fails: undecodable pieces degrade to empty
// values so one broken message cannot stop a scan.
//
// The body is the first text/plain part in document order. Messages that
// are not multipart contribute their single payload whatever its type.
func Parse(raw []byte) domain.NormalizedMessage {
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		// go-message rejects some malformed MIME outright. Headers are
		// usually still readable the plain RFC 5322 way.
		return parseFallback(raw)
	}

	msg := domain.NormalizedMessage{
		Sender:  mr.Header.Get("From"),
		Subject: decodeSubject(mr.Header),
	}

	contentType, _, _ := mr.Header.ContentType()
	multipart := strings.HasPrefix(contentType, "multipart/")

	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("parser: stopping part walk: %v", err)
			break
		}

		h, ok := p.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		partType, _, _ := h.ContentType()
		if multipart && partType != "text/plain" {
			continue
		}

		b, err := io.ReadAll(p.Body)
		if err != nil {
			log.Printf("parser: undecodable text part: %v", err)
			break
		}
		msg.Body = string(b)
		break
	}

	return msg
}

func decodeSubject(h mail.Header) string {
	subject, err := h.Subject()
	if err != nil {
		return h.Get("Subject")
	}
	return subject
}

// parseFallback recovers sender and subject when the MIME structure is too
// broken for the mail reader. The body is passed through undecoded.
func parseFallback(raw []byte) domain.NormalizedMessage {
	m, err := netmail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		log.Printf("parser: unreadable message: %v", err)
		return domain.NormalizedMessage{}
	}

	subject := m.Header.Get("Subject")
	dec := new(mime.WordDecoder)
	if decoded, err := dec.DecodeHeader(subject); err == nil {
		subject = decoded
	}

	body, _ := io.ReadAll(m.Body)
	return domain.NormalizedMessage{
		Sender:  m.Header.Get("From"),
		Subject: subject,
		Body:    string(body),
	}
}
