package scanner

import (
	"context"
	"fmt"
	"log"
	"time"

	"phishguard/internal/alert"
	"phishguard/internal/domain"
	"phishguard/internal/links"
	"phishguard/internal/mailbox"
	"phishguard/internal/parser"
	"phishguard/internal/reputation"
)

// Store is the slice of the log store the scanner needs.
type Store interface {
	AppendLog(ctx context.Context, entry *domain.LogEntry) (string, error)
}

// Scanner drives one bounded pass over the unread messages of the
// configured mailbox: fetch, parse, extract links, evaluate reputation,
// persist a log entry, and raise an alert when the verdict is malicious.
type Scanner struct {
	dialer   mailbox.Dialer
	checker  reputation.Checker
	notifier alert.Notifier
	store    Store
	maxBytes int
}

func New(dialer mailbox.Dialer, checker reputation.Checker, notifier alert.Notifier, store Store, maxBytes int) *Scanner {
	return &Scanner{
		dialer:   dialer,
		checker:  checker,
		notifier: notifier,
		store:    store,
		maxBytes: maxBytes,
	}
}

// Scan processes every unread message once and returns the results of the
// messages that made it through the pipeline. Faults never propagate to the
// caller: a session-open or list failure yields an empty result, and any
// per-message fault skips only that message.
func (s *Scanner) Scan(ctx context.Context) []domain.ScanResult {
	session, err := s.dialer.Open(ctx)
	if err != nil {
		log.Printf("scan: cannot open mailbox: %v", err)
		return []domain.ScanResult{}
	}
	defer func() {
		if err := session.Close(); err != nil {
			log.Printf("scan: closing mailbox: %v", err)
		}
	}()

	ids, err := session.ListUnseen()
	if err != nil {
		log.Printf("scan: listing unseen messages: %v", err)
		return []domain.ScanResult{}
	}

	results := make([]domain.ScanResult, 0, len(ids))
	skipped := 0
	for _, id := range ids {
		res, err := s.processMessage(ctx, session, id)
		if err != nil {
			log.Printf("scan: message %d skipped: %v", id, err)
			skipped++
			continue
		}
		results = append(results, res)
	}

	if skipped > 0 {
		log.Printf("scan: %d messages processed, %d skipped", len(results), skipped)
	}
	return results
}

func (s *Scanner) processMessage(ctx context.Context, session mailbox.Session, id uint32) (domain.ScanResult, error) {
	raw, err := session.Fetch(id)
	if err != nil {
		return domain.ScanResult{}, err
	}
	if s.maxBytes > 0 && len(raw) > s.maxBytes {
		return domain.ScanResult{}, fmt.Errorf("message too large: %d bytes", len(raw))
	}

	msg := parser.Parse(raw)
	urls := links.Extract(msg.Body)
	if urls == nil {
		urls = []string{}
	}
	phishing := s.evaluate(ctx, urls)

	// The log write is unconditional and precedes alerting: a failed alert
	// must not cost the record, and a failed record must not raise an alert
	// that no one can trace.
	entry := &domain.LogEntry{
		Sender:    msg.Sender,
		Subject:   msg.Subject,
		URLs:      urls,
		Phishing:  phishing,
		ScannedAt: time.Now().UTC(),
	}
	if _, err := s.store.AppendLog(ctx, entry); err != nil {
		return domain.ScanResult{}, fmt.Errorf("persist log entry: %w", err)
	}

	if phishing {
		notice := domain.AlertNotice{
			Sender:  msg.Sender,
			Subject: msg.Subject,
			URLs:    urls,
		}
		if err := s.notifier.Notify(ctx, notice); err != nil {
			log.Printf("scan: alert for message %d not delivered: %v", id, err)
		}
	}

	return domain.ScanResult{
		Sender:   msg.Sender,
		Subject:  msg.Subject,
		URLs:     urls,
		Phishing: phishing,
	}, nil
}

// evaluate checks every link and reports whether any came back malicious.
// Lookups are cached per unique link string, so repeated occurrences within
// one message cost a single remote call.
func (s *Scanner) evaluate(ctx context.Context, urls []string) bool {
	verdicts := make(map[string]domain.Verdict, len(urls))
	phishing := false
	for _, u := range urls {
		v, ok := verdicts[u]
		if !ok {
			v = s.checker.Check(ctx, u)
			verdicts[u] = v
		}
		if v == domain.VerdictMalicious {
			phishing = true
		}
	}
	return phishing
}
