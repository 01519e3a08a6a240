package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"medipin-ocr/internal/platform/httpclient"
)

func TestEngine_Recognize(t *testing.T) {
	var got recognizeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/recognize" {
			http.Error(w, "bad route", http.StatusNotFound)
			return
		}
		if r.Header.Get("X-Api-Key") != "secret" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"  처방전\n타이레놀정  ","confidence":87}`))
	}))
	defer srv.Close()

	e, err := NewEngine(Config{BaseURL: srv.URL + "/", APIKey: "secret", Languages: []string{"kor"}})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	res, err := e.Recognize(context.Background(), []byte{0x89, 'P', 'N', 'G'})
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if res.Text != "처방전\n타이레놀정" {
		t.Fatalf("unexpected text %q", res.Text)
	}
	if res.Confidence != 0.87 {
		t.Fatalf("expected confidence scaled to 0.87, got %v", res.Confidence)
	}
	if string(got.Image) != "\x89PNG" || len(got.Languages) != 1 {
		t.Fatalf("unexpected request payload %#v", got)
	}
}

func TestEngine_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "engine busy", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	e, err := NewEngine(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	_, err = e.Recognize(context.Background(), []byte("x"))
	var httpErr *httpclient.HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected wrapped HTTPError 503, got %v", err)
	}
}

func TestNewEngine_RequiresBaseURL(t *testing.T) {
	if _, err := NewEngine(Config{}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if _, err := NewEngine(Config{BaseURL: "::not a url"}); err == nil {
		t.Fatalf("expected invalid url error")
	}
}
