package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"ytdigest/config"
	"ytdigest/notion"
	"ytdigest/notify"
)

type apiCall struct {
	Method string
	Path   string
	Body   string
}

// fakeBackend serves both the YouTube and Notion endpoints a run touches.
type fakeBackend struct {
	mu           sync.Mutex
	calls        []apiCall
	createStatus int
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.calls = append(f.calls, apiCall{Method: r.Method, Path: r.URL.Path, Body: string(raw)})
	createStatus := f.createStatus
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case strings.HasSuffix(r.URL.Path, "/youtube/v3/search"):
		fmt.Fprint(w, `{"items":[{"id":{"kind":"youtube#video","videoId":"vid1"}},{"id":{"kind":"youtube#video","videoId":"vid2"}}]}`)
	case strings.HasSuffix(r.URL.Path, "/youtube/v3/videos"):
		fmt.Fprint(w, `{"items":[
			{"id":"vid1","snippet":{"title":"Upload"}},
			{"id":"vid2","snippet":{"title":"Stream"},"liveStreamingDetails":{"actualStartTime":"2026-10-15T10:00:00Z"}}
		]}`)
	case strings.HasSuffix(r.URL.Path, "/query"):
		fmt.Fprint(w, `{"results":[]}`)
	case r.URL.Path == "/v1/pages":
		if createStatus != 0 {
			w.WriteHeader(createStatus)
			fmt.Fprint(w, `{"object":"error"}`)
			return
		}
		fmt.Fprint(w, `{"id":"day-page"}`)
	case strings.HasSuffix(r.URL.Path, "/children"):
		fmt.Fprint(w, `{"object":"list"}`)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeBackend) callsTo(method, suffix string) []apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []apiCall
	for _, c := range f.calls {
		if c.Method == method && strings.HasSuffix(c.Path, suffix) {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeBackend) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func writeConfig(t *testing.T, serverURL string, channels ...string) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var b strings.Builder
	b.WriteString("channels:\n")
	for _, c := range channels {
		fmt.Fprintf(&b, "  - %s\n", c)
	}
	fmt.Fprintf(&b, `timezone: UTC
youtube:
  api_key: test-key
  endpoint: %s/
notion:
  token: secret_test
  database_id: db1
  base_url: %s/v1
log:
  level: error
`, serverURL, serverURL)

	path := filepath.Join(t.TempDir(), "ytdigest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))
	return path
}

func execute(args ...string) error {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	return cmd.Execute()
}

func TestRunCommand(t *testing.T) {
	backend := &fakeBackend{}
	server := httptest.NewServer(backend)
	defer server.Close()

	err := execute("run", "--config", writeConfig(t, server.URL, "UCone"))
	require.NoError(t, err)

	assert.Len(t, backend.callsTo(http.MethodGet, "/youtube/v3/search"), 1)
	assert.Len(t, backend.callsTo(http.MethodPost, "/pages"), 1)

	appends := backend.callsTo(http.MethodPatch, "/blocks/day-page/children")
	require.Len(t, appends, 2)
	assert.Contains(t, appends[0].Body, "https://www.youtube.com/embed/vid1?rel=0")
	assert.Contains(t, appends[1].Body, "除外リスト")
	assert.Contains(t, appends[1].Body, "Stream")
}

func TestRunCommandWithoutChannelsSkips(t *testing.T) {
	backend := &fakeBackend{}
	server := httptest.NewServer(backend)
	defer server.Close()

	err := execute("run", "--config", writeConfig(t, server.URL))
	require.NoError(t, err)
	assert.Zero(t, backend.total())
}

func TestRunCommandFailsWhenDayPageUnresolved(t *testing.T) {
	backend := &fakeBackend{createStatus: http.StatusUnauthorized}
	server := httptest.NewServer(backend)
	defer server.Close()

	err := execute("run", "--config", writeConfig(t, server.URL, "UCone"))
	require.Error(t, err)
	assert.ErrorIs(t, err, notion.ErrDayPageUnresolved)
	assert.Empty(t, backend.callsTo(http.MethodPatch, "/children"))
}

func TestRunCommandMissingConfig(t *testing.T) {
	err := execute("run", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrConfigNotFound)
}

func TestRunCommandRejectsArgs(t *testing.T) {
	require.Error(t, execute("run", "extra"))
}

func TestNewNotifier(t *testing.T) {
	n, err := newNotifier(config.MailConfig{Port: 587}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, logOnly{}, n)

	n, err = newNotifier(config.MailConfig{Host: "smtp.example.com", Port: 587, From: "a@example.com", To: "b@example.com"}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &notify.Mailer{}, n)
}

func TestLogOnlyNotifierWarnsEachRun(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	n, err := newNotifier(config.MailConfig{Port: 587}, zap.New(core))
	require.NoError(t, err)

	at := time.Date(2026, 10, 15, 21, 0, 0, 0, time.UTC)
	require.NoError(t, n.Notify(context.Background(), at))
	require.NoError(t, n.Notify(context.Background(), at))

	warned := logs.FilterLevelExact(zapcore.WarnLevel).FilterMessage("run completed, completion email not sent: mail.host not set")
	assert.Equal(t, 2, warned.Len())
}

func TestServeLogsNextRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	core, logs := observer.New(zapcore.InfoLevel)
	cfg := config.DefaultConfig()
	cfg.Timezone = "UTC"
	require.NoError(t, serve(ctx, cfg, zap.New(core)))

	started := logs.FilterMessage("scheduler started").All()
	require.Len(t, started, 1)
	next, ok := started[0].ContextMap()["next_run"].(time.Time)
	require.True(t, ok)
	assert.Equal(t, 21, next.Hour())
	assert.True(t, next.After(time.Now()))
}

func TestServeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := config.DefaultConfig()
	cfg.Timezone = "UTC"
	require.NoError(t, serve(ctx, cfg, zap.NewNop()))
}

func TestServeRejectsBadTimezone(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Timezone = "Nowhere/Special"
	require.Error(t, serve(context.Background(), cfg, zap.NewNop()))
}

func TestRootHelpListsCommands(t *testing.T) {
	cmd := newRootCmd()
	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "run")
	assert.Contains(t, names, "schedule")

	var out strings.Builder
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--help"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "schedule")
}
