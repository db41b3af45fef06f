package aicheck

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ta-agent/taagent/internal/apiclient"
	"github.com/ta-agent/taagent/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := New(config.AICheckConfig{URL: srv.URL + "/api/detect/detectText", APIKey: "zkey"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestCheck(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/detect/detectText" || r.Method != http.MethodPost {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("ApiKey") != "zkey" {
			t.Errorf("ApiKey = %q", r.Header.Get("ApiKey"))
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["input_text"] != "some essay" {
			t.Errorf("body = %v", body)
		}
		w.Write([]byte(`{"success": true, "code": 200, "data": {"isHuman": 12.5, "fakePercentage": 87.5,
			"feedback": "Your text is AI generated", "additional_feedback": "", "textWords": 40, "aiWords": 35,
			"detected_language": "en", "sentences": []}}`))
	})

	res, err := c.Check(context.Background(), "some essay")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	want := Result{IsHuman: 12.5, FakePercentage: 87.5, Feedback: "Your text is AI generated", TextWords: 40, AIWords: 35, DetectedLanguage: "en"}
	if *res != want {
		t.Errorf("result = %+v", res)
	}
}

func TestCheckUnsuccessful(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false, "message": "Invalid API key"}`))
	})
	_, err := c.Check(context.Background(), "x")
	var remote *apiclient.RemoteAPIError
	if !errors.As(err, &remote) || remote.Body != "Invalid API key" {
		t.Fatalf("expected RemoteAPIError with message, got %v", err)
	}
}

func TestCheckEmptyText(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { called = true })
	if _, err := c.Check(context.Background(), "   "); !errors.Is(err, ErrEmptyText) {
		t.Errorf("expected ErrEmptyText, got %v", err)
	}
	if called {
		t.Error("empty text must not reach the API")
	}
}

func TestNewInvalidURL(t *testing.T) {
	if _, err := New(config.AICheckConfig{URL: "not a url"}); err == nil {
		t.Error("expected error for invalid url")
	}
}
