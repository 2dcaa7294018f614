package links

import "regexp"

// Deliberately loose: a scheme plus a host-shaped token is enough to hand
// to the reputation service. Paths and queries are not matched, and an
// over-match only costs one cheap lookup.
var urlPattern = regexp.MustCompile(`https?://[\w.-]+`)

// Extract returns every http(s) link in body in first-occurrence order.
// Duplicates are kept; each occurrence is evaluated downstream. No
// normalization is applied.
func Extract(body string) []string {
	return urlPattern.FindAllString(body, -1)
}
