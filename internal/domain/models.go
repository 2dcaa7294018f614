package domain

import "time"

// Verdict is the outcome of a reputation lookup for a single link.
// VerdictUnknown means the link was checked but the result was inconclusive
// (service down, missing credential, unreadable response); it is never
// treated as safe.
type Verdict int

const (
	VerdictUnknown Verdict = iota
	VerdictSafe
	VerdictMalicious
)

func (v Verdict) String() string {
	switch v {
	case VerdictSafe:
		return "safe"
	case VerdictMalicious:
		return "malicious"
	default:
		return "unknown"
	}
}

// NormalizedMessage is one mailbox message after decoding. Sender and
// Subject are always plain strings, empty when the source header is absent.
type NormalizedMessage struct {
	Sender  string
	Subject string
	Body    string
}

// LogEntry is one scanned message as persisted by the log store. ID is
// assigned by the store on append and is opaque to callers.
type LogEntry struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Subject   string    `json:"subject"`
	URLs      []string  `json:"urls"`
	Phishing  bool      `json:"phishing"`
	ScannedAt time.Time `json:"scanned_at"`
}

// ScanResult is the per-message payload a scan invocation returns to the
// caller.
type ScanResult struct {
	Sender   string   `json:"sender"`
	Subject  string   `json:"subject"`
	URLs     []string `json:"urls"`
	Phishing bool     `json:"phishing"`
}

// AlertNotice is the content of one outbound warning. It is built only for
// messages with a malicious verdict and is not persisted.
type AlertNotice struct {
	Sender  string
	Subject string
	URLs    []string
}
