// handler_test.go provides in-memory fakes and request helpers shared by
// the handler tests.
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"pagesmith/internal/ai"
	"pagesmith/internal/generator"
	"pagesmith/internal/middleware"
	"pagesmith/internal/models"
	"pagesmith/internal/session"
	"pagesmith/internal/store"
)

const testBaseDomain = "pagesmith.site"

// --------------------------------------------------------------------------
// Fakes
// --------------------------------------------------------------------------

type fakeUsers struct {
	mu      sync.Mutex
	byEmail map[string]*models.User
	err     error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byEmail: make(map[string]*models.User)}
}

func (f *fakeUsers) FindByEmail(email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.byEmail[email], nil
}

func (f *fakeUsers) FindByID(id uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) Create(email, password, displayName string, credits int) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if _, ok := f.byEmail[email]; ok {
		return nil, store.ErrDuplicateEmail
	}
	u := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: "plain:" + password,
		DisplayName:  displayName,
		Credits:      credits,
	}
	f.byEmail[email] = u
	return u, nil
}

func (f *fakeUsers) CheckPassword(user *models.User, password string) bool {
	return user.PasswordHash == "plain:"+password
}

type fakeLedger struct {
	events []models.CreditEvent
}

func (f *fakeLedger) Record(e *models.CreditEvent) error {
	f.events = append(f.events, *e)
	return nil
}

func (f *fakeLedger) ListByUser(userID uuid.UUID, limit int) ([]models.CreditEvent, error) {
	var out []models.CreditEvent
	for _, e := range f.events {
		if e.UserID == userID && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeSites struct {
	mu    sync.Mutex
	sites map[uuid.UUID]*models.GeneratedSite
	err   error
}

func newFakeSites(sites ...*models.GeneratedSite) *fakeSites {
	f := &fakeSites{sites: make(map[uuid.UUID]*models.GeneratedSite)}
	for _, s := range sites {
		f.sites[s.ID] = s
	}
	return f
}

func (f *fakeSites) get(id uuid.UUID) *models.GeneratedSite {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.sites[id]; ok {
		cp := *s
		return &cp
	}
	return nil
}

func (f *fakeSites) FindForOwner(id, owner uuid.UUID) (*models.GeneratedSite, error) {
	if f.err != nil {
		return nil, f.err
	}
	s := f.get(id)
	if s == nil || s.OwnerID != owner {
		return nil, nil
	}
	return s, nil
}

func (f *fakeSites) ListByOwner(owner uuid.UUID) ([]models.GeneratedSite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.GeneratedSite{}
	for _, s := range f.sites {
		if s.OwnerID == owner {
			cp := *s
			cp.HTMLContent = ""
			out = append(out, cp)
		}
	}
	return out, nil
}

func (f *fakeSites) UpdateHTML(id, owner uuid.UUID, html string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sites[id]
	if !ok || s.OwnerID != owner {
		return false, nil
	}
	s.HTMLContent = html
	return true, nil
}

func (f *fakeSites) Delete(id, owner uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sites[id]
	if !ok || s.OwnerID != owner {
		return false, nil
	}
	delete(f.sites, id)
	return true, nil
}

func (f *fakeSites) Publish(id, owner uuid.UUID, slug, customDomain *string) (*models.GeneratedSite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sites[id]
	if !ok || s.OwnerID != owner {
		return nil, nil
	}
	for _, other := range f.sites {
		if other.ID == id || !other.IsPublished {
			continue
		}
		if slug != nil && other.Slug != nil && *other.Slug == *slug {
			return nil, store.ErrDuplicateSlug
		}
		if customDomain != nil && other.CustomDomain != nil && *other.CustomDomain == *customDomain {
			return nil, store.ErrDuplicateDomain
		}
	}
	now := time.Now()
	s.IsPublished = true
	s.Slug = slug
	s.CustomDomain = customDomain
	s.PublishedAt = &now
	cp := *s
	return &cp, nil
}

func (f *fakeSites) Unpublish(id, owner uuid.UUID) (*models.GeneratedSite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sites[id]
	if !ok || s.OwnerID != owner {
		return nil, nil
	}
	before := *s
	s.IsPublished = false
	s.Slug = nil
	s.CustomDomain = nil
	s.PublishedAt = nil
	return &before, nil
}

func (f *fakeSites) FindPublishedBySlug(slug string) (*models.GeneratedSite, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sites {
		if s.IsPublished && s.Slug != nil && *s.Slug == slug {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeSites) FindPublishedByDomain(domain string) (*models.GeneratedSite, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sites {
		if s.IsPublished && s.CustomDomain != nil && *s.CustomDomain == domain {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

type fakePublisher struct {
	put     map[string]string
	deleted []string
	err     error
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{put: make(map[string]string)}
}

func (f *fakePublisher) PutSite(_ context.Context, host, html string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.put[host] = html
	return "https://cdn.example.com/sites/" + host + "/index.html", nil
}

func (f *fakePublisher) DeleteSite(_ context.Context, host string) error {
	f.deleted = append(f.deleted, host)
	return f.err
}

type fakePages struct {
	pages       map[string][]byte
	invalidated []string
	gets        int
}

func newFakePages() *fakePages {
	return &fakePages{pages: make(map[string][]byte)}
}

func (f *fakePages) Get(_ context.Context, host string) ([]byte, bool) {
	f.gets++
	b, ok := f.pages[host]
	return b, ok
}

func (f *fakePages) Set(_ context.Context, host string, html []byte) {
	f.pages[host] = html
}

func (f *fakePages) Invalidate(_ context.Context, host string) {
	f.invalidated = append(f.invalidated, host)
	delete(f.pages, host)
}

type fakeGenerator struct {
	result *generator.Result
	err    error
	got    generator.Request
	userID uuid.UUID
}

func (f *fakeGenerator) Generate(_ context.Context, userID uuid.UUID, req generator.Request) (*generator.Result, error) {
	f.userID = userID
	f.got = req
	return f.result, f.err
}

type fakeImages struct {
	uploaded  []byte
	fileName  string
	query     string
	limit     int
	prompt    string
	uploadErr error
	searchErr error
	genErr    error
}

func (f *fakeImages) Upload(_ context.Context, _ uuid.UUID, fileName string, data []byte) (models.UploadedFile, error) {
	if f.uploadErr != nil {
		return models.UploadedFile{}, f.uploadErr
	}
	f.fileName, f.uploaded = fileName, data
	return models.UploadedFile{URL: "https://cdn.example.com/" + fileName, FileName: fileName, FileSize: int64(len(data))}, nil
}

func (f *fakeImages) Search(_ context.Context, query string, limit int) ([]models.ImageAsset, error) {
	f.query, f.limit = query, limit
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return []models.ImageAsset{{Role: models.ImageRoleGallery, URL: "https://images.example.com/1.jpg", AltText: query}}, nil
}

func (f *fakeImages) Generate(_ context.Context, _ uuid.UUID, prompt string) (models.ImageAsset, error) {
	f.prompt = prompt
	if f.genErr != nil {
		return models.ImageAsset{}, f.genErr
	}
	return models.ImageAsset{Role: models.ImageRoleGallery, URL: "https://cdn.example.com/gen.png", AltText: prompt}, nil
}

type fakeChecker struct {
	result *ai.ModerationResult
	err    error
}

func (f *fakeChecker) CheckPrompt(context.Context, string) (*ai.ModerationResult, error) {
	return f.result, f.err
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

var errBoom = errors.New("boom")

// newSessionStore returns a session store backed by miniredis.
func newSessionStore(t *testing.T) *session.Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return session.NewStore(client, false)
}

// jsonRequest builds a request with v encoded as its JSON body.
func jsonRequest(t *testing.T, method, target string, v any) *http.Request {
	t.Helper()
	var body io.Reader = http.NoBody
	if v != nil {
		b, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		body = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// asUser attaches a session for userID to the request context.
func asUser(req *http.Request, userID uuid.UUID) *http.Request {
	data := &session.Data{UserID: userID, Email: "owner@example.com"}
	return req.WithContext(middleware.WithSession(req.Context(), data))
}

// withSiteID sets the chi {id} URL parameter.
func withSiteID(req *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// decodeBody decodes the recorder's JSON body into v.
func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode body %q: %v", rr.Body.String(), err)
	}
}

// errorOf returns the "error" field of a JSON error response.
func errorOf(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorBody
	decodeBody(t, rr, &body)
	return body.Error
}
