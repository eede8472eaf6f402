package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
)

func TestNewWithoutCredentials(t *testing.T) {
	c, err := New(Config{Endpoint: "", AccessKey: "a", SecretKey: "b", Bucket: "x"})
	if c != nil || err != nil {
		t.Errorf("New = %v, %v; want nil, nil", c, err)
	}

	if _, err := New(Config{Endpoint: "http://s3", AccessKey: "a", SecretKey: "b"}); err == nil {
		t.Error("expected error without a bucket")
	}
}

func TestFileURL(t *testing.T) {
	tests := []struct {
		name      string
		publicURL string
		key       string
		wantURL   string
	}{
		{"path style", "", "uploads/a.png", "http://s3.local/media/uploads/a.png"},
		{"cdn", "https://cdn.example.com/", "uploads/a.png", "https://cdn.example.com/uploads/a.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(Config{Endpoint: "http://s3.local/", AccessKey: "a", SecretKey: "b", Bucket: "media", PublicURL: tt.publicURL})
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			url := c.FileURL(tt.key)
			if url != tt.wantURL {
				t.Errorf("FileURL = %q, want %q", url, tt.wantURL)
			}
		})
	}
}

func TestKeys(t *testing.T) {
	if got := SiteKey("Rosa.Example.COM"); got != "sites/rosa.example.com/index.html" {
		t.Errorf("SiteKey = %q", got)
	}

	owner := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	key := ObjectKey(PrefixUploads, owner, "Photo.JPG")
	if !strings.HasPrefix(key, "uploads/11111111-1111-1111-1111-111111111111/") || !strings.HasSuffix(key, ".jpg") {
		t.Errorf("ObjectKey = %q", key)
	}
	if key == ObjectKey(PrefixUploads, owner, "Photo.JPG") {
		t.Error("ObjectKey is not unique per call")
	}
}

func TestPutSite(t *testing.T) {
	var (
		mu     sync.Mutex
		method string
		path   string
		body   string
		ctype  string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		method, path, body, ctype = r.Method, r.URL.Path, string(b), r.Header.Get("Content-Type")
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, err := New(Config{Endpoint: srv.URL, AccessKey: "a", SecretKey: "b", Bucket: "sites-bucket"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	url, err := c.PutSite(context.Background(), "rosa.example.com", "<html></html>")
	if err != nil {
		t.Fatalf("PutSite: %v", err)
	}
	if url != srv.URL+"/sites-bucket/sites/rosa.example.com/index.html" {
		t.Errorf("url = %q", url)
	}

	mu.Lock()
	defer mu.Unlock()
	if method != http.MethodPut || path != "/sites-bucket/sites/rosa.example.com/index.html" {
		t.Errorf("request = %s %s", method, path)
	}
	if !strings.Contains(body, "<html></html>") {
		t.Errorf("body = %q", body)
	}
	if !strings.HasPrefix(ctype, "text/html") {
		t.Errorf("content type = %q", ctype)
	}
}
