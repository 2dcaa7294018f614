package links

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			name: "no links",
			body: "nothing to see here",
			want: nil,
		},
		{
			name: "single http link",
			body: "click http://example.com now",
			want: []string{"http://example.com"},
		},
		{
			name: "single https link",
			body: "see https://secure.example.com",
			want: []string{"https://secure.example.com"},
		},
		{
			name: "first-occurrence order",
			body: "a http://one.example b https://two.example c http://three.example",
			want: []string{"http://one.example", "https://two.example", "http://three.example"},
		},
		{
			name: "duplicates retained",
			body: "go http://dup.example or http://dup.example",
			want: []string{"http://dup.example", "http://dup.example"},
		},
		{
			name: "path and query not matched",
			body: "deep http://host.example/path?q=1 link",
			want: []string{"http://host.example"},
		},
		{
			name: "scheme required",
			body: "visit www.example.com sometime",
			want: nil,
		},
		{
			name: "ftp not matched",
			body: "ftp://files.example.com",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.body))
		})
	}
}
