package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGetHTMLBytes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.UserAgent(), "smart-digest") {
			t.Errorf("unexpected user agent %q", r.UserAgent())
		}
		switch r.URL.Path {
		case "/ok":
			_, _ = w.Write([]byte("<html><head><title>Hi</title></head><body>Body</body></html>"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	f := NewFetcher()

	body, err := f.GetHTMLBytes(context.Background(), server.URL+"/ok")
	if err != nil {
		t.Fatalf("GetHTMLBytes() error = %v", err)
	}
	if !strings.Contains(string(body), "Body") {
		t.Errorf("unexpected body %q", body)
	}

	if _, err := f.GetHTMLBytes(context.Background(), server.URL+"/missing"); err == nil {
		t.Error("expected error for 404")
	}

	doc, err := f.GetHTML(context.Background(), server.URL+"/ok")
	if err != nil {
		t.Fatalf("GetHTML() error = %v", err)
	}
	if doc.Find("title").Text() != "Hi" {
		t.Errorf("title = %q", doc.Find("title").Text())
	}
}

func TestGetHTMLBytesCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewFetcher().GetHTMLBytes(ctx, server.URL); err == nil {
		t.Error("expected error for cancelled context")
	}
}
