package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	telegram "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/smith3v/tg-match-reminder/pkg/logger"
	"github.com/smith3v/tg-match-reminder/pkg/match"
	"github.com/smith3v/tg-match-reminder/pkg/notify"
	"github.com/smith3v/tg-match-reminder/pkg/store"
)

type recordedRequest struct {
	path        string
	method      string
	contentType string
	body        []byte
}

type mockClient struct {
	requests []recordedRequest
	response string
}

func newMockClient() *mockClient {
	return &mockClient{
		response: `{"ok":true,"result":{}}`,
	}
}

func (m *mockClient) Do(req *http.Request) (*http.Response, error) {
	body, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	if err := req.Body.Close(); err != nil {
		return nil, fmt.Errorf("failed to close request body: %w", err)
	}
	m.requests = append(m.requests, recordedRequest{
		path:        req.URL.Path,
		method:      req.Method,
		contentType: req.Header.Get("Content-Type"),
		body:        body,
	})

	resp := &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(m.response)),
		Header:     make(http.Header),
	}
	return resp, nil
}

func (m *mockClient) lastMessageText(t *testing.T) string {
	t.Helper()
	if len(m.requests) == 0 {
		t.Fatalf("expected at least one recorded request")
	}
	req := m.requests[len(m.requests)-1]

	mediaType, params, err := mime.ParseMediaType(req.contentType)
	if err != nil {
		t.Fatalf("failed to parse media type: %v", err)
	}
	if !strings.HasPrefix(mediaType, "multipart/") {
		t.Fatalf("unexpected media type: %s", mediaType)
	}

	reader := multipart.NewReader(bytes.NewReader(req.body), params["boundary"])
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("failed to read multipart part: %v", err)
		}
		if part.FormName() == "text" {
			data, err := io.ReadAll(part)
			if err != nil {
				t.Fatalf("failed to read text part: %v", err)
			}
			return string(data)
		}
	}
	t.Fatalf("text field not found in request")
	return ""
}

func newTestTelegramBot(t *testing.T, client *mockClient) *telegram.Bot {
	t.Helper()
	b, err := telegram.New("test-token",
		telegram.WithSkipGetMe(),
		telegram.WithHTTPClient(time.Second, client),
	)
	if err != nil {
		t.Fatalf("failed to create test bot: %v", err)
	}
	return b
}

func newTestUpdate(text string, userID int64) *models.Update {
	return &models.Update{
		Message: &models.Message{
			From: &models.User{
				ID: userID,
			},
			Chat: models.Chat{
				ID: userID,
			},
			Text: text,
		},
	}
}

// recordingMessenger captures outbound DMs from the dispatcher.
type recordingMessenger struct {
	sent []string
}

func (r *recordingMessenger) SendDirectMessage(ctx context.Context, userID string, msg notify.Message) error {
	r.sent = append(r.sent, userID)
	return nil
}

const testRoster = `[
  {
    "id": "main",
    "name": "Main Server",
    "members": [
      {"id": "100", "name": "Alice"},
      {"id": "101", "name": "Bob"}
    ],
    "roles": [
      {"id": "200", "name": "Lions", "members": ["100", "101"]}
    ]
  }
]`

// setupDeps wires real collaborators over temp files. Admin user id 1,
// regular user id 2.
func setupDeps(t *testing.T) *recordingMessenger {
	t.Helper()
	logger.SetLogLevel(logger.ERROR)
	t.Cleanup(func() { logger.SetLogLevel(logger.INFO) })

	dir := t.TempDir()
	rosterPath := filepath.Join(dir, "roster.json")
	if err := os.WriteFile(rosterPath, []byte(testRoster), 0o644); err != nil {
		t.Fatalf("failed to write roster fixture: %v", err)
	}

	matchesFile := store.NewFile(filepath.Join(dir, "matches.json"), func() []match.Match { return []match.Match{} })
	messenger := &recordingMessenger{}
	dispatcher := notify.NewDispatcher(messenger, notify.LoadRoster(rosterPath), 0)
	manager := match.NewManager(matchesFile, dispatcher, nil)

	settings := NewSettingsStore(filepath.Join(dir, "settings.json"))
	settings.Update(func(s Settings) Settings {
		s.AdminIDs = []int64{1}
		return s
	})

	Setup(Deps{
		Manager:      manager,
		Dispatcher:   dispatcher,
		Settings:     settings,
		DefaultGuild: "main",
	})
	t.Cleanup(func() { Setup(Deps{}) })
	return messenger
}
