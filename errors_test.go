package ytdigest

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	ythttp "ytdigest/http"
	"ytdigest/notion"
	"ytdigest/youtube"
)

func TestReexportedSentinels(t *testing.T) {
	err := fmt.Errorf("run abc: %w", notion.ErrDayPageUnresolved)
	if !errors.Is(err, ErrDayPageUnresolved) {
		t.Fatalf("errors.Is(%v, ErrDayPageUnresolved) = false", err)
	}
	if errors.Is(err, ErrChannelNotFound) {
		t.Fatal("unrelated sentinel matched")
	}
}

func TestReexportedTypes(t *testing.T) {
	var err error = &youtube.FetchError{Stage: "search", Channel: "UCx", Err: &ythttp.HTTPError{StatusCode: http.StatusForbidden}}
	err = fmt.Errorf("wrapped: %w", err)

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatal("expected FetchError")
	}
	if fetchErr.Channel != "UCx" {
		t.Errorf("Channel = %q, want UCx", fetchErr.Channel)
	}

	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatal("expected HTTPError")
	}
	if httpErr.StatusCode != http.StatusForbidden {
		t.Errorf("StatusCode = %d, want 403", httpErr.StatusCode)
	}
}
