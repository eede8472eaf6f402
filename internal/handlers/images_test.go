package handlers

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"pagesmith/internal/ai"
	"pagesmith/internal/images"
)

func uploadRequest(t *testing.T, field, fileName string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, fileName)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/images/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return asUser(req, uuid.New())
}

func TestImagesUpload(t *testing.T) {
	svc := &fakeImages{}
	h := NewImages(svc, nil)

	rr := httptest.NewRecorder()
	h.Upload(rr, uploadRequest(t, "file", "logo.png", []byte("\x89PNG\r\n\x1a\nrest")))

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rr.Code, rr.Body)
	}
	if svc.fileName != "logo.png" || len(svc.uploaded) != 12 {
		t.Errorf("uploaded %q (%d bytes)", svc.fileName, len(svc.uploaded))
	}
}

func TestImagesUpload_Errors(t *testing.T) {
	tests := []struct {
		name  string
		field string
		err   error
		want  int
	}{
		{name: "missing field", field: "image", want: http.StatusBadRequest},
		{name: "invalid image", field: "file", err: fmt.Errorf("%w: unsupported type text/plain", images.ErrInvalidUpload), want: http.StatusBadRequest},
		{name: "no storage", field: "file", err: images.ErrUnavailable, want: http.StatusServiceUnavailable},
		{name: "storage failure", field: "file", err: errBoom, want: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewImages(&fakeImages{uploadErr: tt.err}, nil)
			rr := httptest.NewRecorder()
			h.Upload(rr, uploadRequest(t, tt.field, "a.png", []byte("data")))

			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", rr.Code, tt.want, rr.Body)
			}
		})
	}
}

func TestImagesUpload_TooLarge_Returns413(t *testing.T) {
	h := NewImages(&fakeImages{}, nil)
	rr := httptest.NewRecorder()
	h.Upload(rr, uploadRequest(t, "file", "big.jpg", make([]byte, images.MaxUploadSize+1)))

	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rr.Code)
	}
}

func TestImagesSearch(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		err       error
		want      int
		wantLimit int
	}{
		{name: "default limit", target: "/api/images/search?q=bread", want: http.StatusOK, wantLimit: defaultSearchLimit},
		{name: "custom limit", target: "/api/images/search?q=bread&limit=5", want: http.StatusOK, wantLimit: 5},
		{name: "limit capped", target: "/api/images/search?q=bread&limit=500", want: http.StatusOK, wantLimit: maxSearchLimit},
		{name: "bad limit", target: "/api/images/search?q=bread&limit=-1", want: http.StatusBadRequest},
		{name: "missing query", target: "/api/images/search?q=+", want: http.StatusBadRequest},
		{name: "not configured", target: "/api/images/search?q=bread", err: images.ErrUnavailable, want: http.StatusServiceUnavailable},
		{name: "provider failure", target: "/api/images/search?q=bread", err: errBoom, want: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeImages{searchErr: tt.err}
			h := NewImages(svc, nil)
			rr := httptest.NewRecorder()
			h.Search(rr, asUser(httptest.NewRequest(http.MethodGet, tt.target, nil), uuid.New()))

			if rr.Code != tt.want {
				t.Fatalf("status = %d, want %d", rr.Code, tt.want)
			}
			if tt.wantLimit != 0 && (svc.limit != tt.wantLimit || svc.query != "bread") {
				t.Errorf("search(%q, %d), want limit %d", svc.query, svc.limit, tt.wantLimit)
			}
		})
	}
}

func TestImagesGenerate(t *testing.T) {
	tests := []struct {
		name    string
		checker PromptChecker
		prompt  string
		want    int
		called  bool
	}{
		{name: "no checker", prompt: "a loaf of bread", want: http.StatusCreated, called: true},
		{name: "safe", checker: &fakeChecker{result: &ai.ModerationResult{Safe: true}}, prompt: "bread", want: http.StatusCreated, called: true},
		{name: "flagged", checker: &fakeChecker{result: &ai.ModerationResult{Categories: []string{"violence"}}}, prompt: "bread", want: http.StatusBadRequest},
		{name: "moderation outage", checker: &fakeChecker{err: errBoom}, prompt: "bread", want: http.StatusCreated, called: true},
		{name: "empty prompt", prompt: "   ", want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeImages{}
			h := NewImages(svc, tt.checker)
			rr := httptest.NewRecorder()
			h.Generate(rr, asUser(jsonRequest(t, http.MethodPost, "/api/images/generate", imagePrompt{Prompt: tt.prompt}), uuid.New()))

			if rr.Code != tt.want {
				t.Fatalf("status = %d, want %d: %s", rr.Code, tt.want, rr.Body)
			}
			if called := svc.prompt != ""; called != tt.called {
				t.Errorf("provider called = %v, want %v", called, tt.called)
			}
		})
	}
}
