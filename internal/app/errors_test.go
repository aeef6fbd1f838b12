package app

import (
	"errors"
	"fmt"
	"testing"

	"github.com/JonMunkholm/episodes/internal/source"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{
			name:     "nil error returns empty",
			err:      nil,
			wantCode: "",
		},
		{
			name:     "no sources",
			err:      source.ErrNoSources,
			wantCode: "SRC001",
		},
		{
			name:     "missing episodes array",
			err:      fmt.Errorf("source classic: %w", &source.DecodeError{Source: "classic.json", Err: errors.New(`missing "episodes" array`)}),
			wantCode: "SRC002",
		},
		{
			name:     "malformed json",
			err:      &source.DecodeError{Source: "classic.json", Err: errors.New("unexpected EOF")},
			wantCode: "SRC003",
		},
		{
			name:     "not found",
			err:      fmt.Errorf("source modern: %w", &source.FetchError{Source: "https://example.org/modern.json", Status: 404}),
			wantCode: "SRC004",
		},
		{
			name:     "server error",
			err:      &source.FetchError{Source: "https://example.org/modern.json", Status: 502},
			wantCode: "SRC005",
		},
		{
			name:     "connection refused",
			err:      &source.FetchError{Source: "https://example.org/a.json", Err: errors.New("dial tcp 127.0.0.1:80: connect: connection refused")},
			wantCode: "SRC006",
		},
		{
			name:     "client timeout",
			err:      errors.New("Get \"https://example.org\": context deadline exceeded (Client.Timeout exceeded)"),
			wantCode: "SRC006",
		},
		{
			name:     "case insensitive",
			err:      errors.New("DECODE X: INVALID JSON: EOF"),
			wantCode: "SRC003",
		},
		{
			name:     "bad request parameter",
			err:      errors.New(`invalid request: unknown sort field "colour"`),
			wantCode: "REQ001",
		},
		{
			name:     "unknown error falls back",
			err:      errors.New("something odd"),
			wantCode: "ERR000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError().Code = %q, want %q", got.Code, tt.wantCode)
			}
			if tt.err != nil && got.Detail != tt.err.Error() {
				t.Errorf("MapError().Detail = %q, want %q", got.Detail, tt.err.Error())
			}
		})
	}
}

func TestMapError_DoesNotMutateTable(t *testing.T) {
	MapError(errors.New("status 500"))
	for _, ep := range errorPatterns {
		if ep.msg.Detail != "" {
			t.Fatalf("pattern %q picked up detail %q", ep.pattern, ep.msg.Detail)
		}
	}
	if defaultMessage.Detail != "" {
		t.Fatalf("default message picked up detail %q", defaultMessage.Detail)
	}
}

func TestUserMessage_String(t *testing.T) {
	msg := MapError(source.ErrNoSources)
	want := "No episode sources are configured (Code: SRC001). Set EPISODE_SOURCES or SOURCES_FILE and reload"
	if got := msg.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got := (UserMessage{}).String(); got != "" {
		t.Errorf("zero String() = %q, want empty", got)
	}
}
