package mailbox

import (
	"context"
	"fmt"
	"io"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"

	"phishguard/internal/config"
)

// Session is one open connection to the inbound mailbox. Fetching a message
// marks it seen on the server, so each message is handed out at most once
// across invocations.
type Session interface {
	ListUnseen() ([]uint32, error)
	Fetch(id uint32) ([]byte, error)
	Close() error
}

// Dialer opens sessions. A scan acquires one session per invocation and
// releases it before returning.
type Dialer interface {
	Open(ctx context.Context) (Session, error)
}

type imapDialer struct {
	cfg *config.Config
}

func NewDialer(cfg *config.Config) Dialer {
	return &imapDialer{cfg: cfg}
}

func (d *imapDialer) Open(ctx context.Context) (Session, error) {
	addr := fmt.Sprintf("%s:%d", d.cfg.IMAPHost, d.cfg.IMAPPort)
	c, err := client.DialTLS(addr, nil)
	if err != nil {
		return nil, fmt.Errorf("dial imap %s: %w", addr, err)
	}

	if err := c.Login(d.cfg.IMAPUser, d.cfg.IMAPPass); err != nil {
		_ = c.Logout()
		return nil, fmt.Errorf("imap login: %w", err)
	}

	if _, err := c.Select(d.cfg.IMAPFolder, false); err != nil {
		_ = c.Logout()
		return nil, fmt.Errorf("select %s: %w", d.cfg.IMAPFolder, err)
	}

	return &imapSession{client: c}, nil
}

type imapSession struct {
	client *client.Client
}

func (s *imapSession) ListUnseen() ([]uint32, error) {
	criteria := imap.NewSearchCriteria()
	criteria.WithoutFlags = []string{imap.SeenFlag}

	ids, err := s.client.Search(criteria)
	if err != nil {
		return nil, fmt.Errorf("search unseen: %w", err)
	}
	return ids, nil
}

// Fetch retrieves the full raw message. BODY[] is fetched without PEEK, so
// the server flags the message seen as a side effect.
func (s *imapSession) Fetch(id uint32) ([]byte, error) {
	seqSet := new(imap.SeqSet)
	seqSet.AddNum(id)

	section := &imap.BodySectionName{}
	items := []imap.FetchItem{section.FetchItem()}

	messages := make(chan *imap.Message, 1)
	done := make(chan error, 1)
	go func() {
		done <- s.client.Fetch(seqSet, items, messages)
	}()

	var raw []byte
	var readErr error
	for msg := range messages {
		r := msg.GetBody(section)
		if r == nil {
			continue
		}
		b, err := io.ReadAll(r)
		if err != nil {
			readErr = err
			continue
		}
		raw = b
	}

	if err := <-done; err != nil {
		return nil, fmt.Errorf("fetch message %d: %w", id, err)
	}
	if readErr != nil {
		return nil, fmt.Errorf("read message %d: %w", id, readErr)
	}
	if raw == nil {
		return nil, fmt.Errorf("fetch message %d: server returned no body", id)
	}
	return raw, nil
}

func (s *imapSession) Close() error {
	return s.client.Logout()
}
