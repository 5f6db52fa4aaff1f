package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"resumecanvas/internal/domain"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL+"/", StaticToken("secret"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestCreate_SendsPayloadWithBearer(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/projects" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q", got)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		var p domain.ProjectPayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if p.Name != "CV" {
			t.Errorf("name = %q", p.Name)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(domain.ProjectRecord{ID: "p1", Name: p.Name, Data: p.Data})
	})

	data, _ := domain.EncodeProjectData(nil)
	rec, err := c.Create(context.Background(), domain.ProjectPayload{Name: "CV", Data: data})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.ID != "p1" {
		t.Errorf("id = %q", rec.ID)
	}
}

func TestCreate_MissingIDIsAnError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"name":"CV"}`)
	})
	if _, err := c.Create(context.Background(), domain.ProjectPayload{Name: "CV"}); err == nil {
		t.Fatal("expected error for a record without id")
	}
}

func TestUpdate_UsesPUTWithEscapedID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/projects/abc_1" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		_, _ = io.WriteString(w, `{}`)
	})
	rec, err := c.Update(context.Background(), "abc_1", domain.ProjectPayload{Name: "CV"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if rec.ID != "abc_1" {
		t.Errorf("id = %q, want the requested id", rec.ID)
	}
}

func TestFetch_NotFoundMapsToSentinel(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	_, err := c.Fetch(context.Background(), "gone")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestFetch_ServerErrorIsStatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "database down", http.StatusBadGateway)
	})
	_, err := c.Fetch(context.Background(), "x")
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *StatusError", err)
	}
	if se.Code != http.StatusBadGateway || se.Body != "database down" {
		t.Errorf("status error = %+v", se)
	}
	if errors.Is(err, domain.ErrNotFound) {
		t.Error("5xx must not look like not-found")
	}
}

func TestFetch_DecodesRecord(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"id":"x","name":"CV","data":{"elements":[]},"thumbnail":{"url":"u","publicId":"p"}}`)
	})
	rec, err := c.Fetch(context.Background(), "x")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if rec.Thumbnail == nil || rec.Thumbnail.PublicID != "p" {
		t.Errorf("thumbnail = %+v", rec.Thumbnail)
	}
	els, err := domain.DecodeProjectData(rec.Data)
	if err != nil || len(els) != 0 {
		t.Errorf("elements = %v, %v", els, err)
	}
}

func TestNoTokenSendsNoAuthorization(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Header["Authorization"]; ok {
			t.Error("unexpected Authorization header")
		}
		_, _ = io.WriteString(w, `{"id":"x"}`)
	}))
	defer srv.Close()
	c, err := New(srv.URL, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.Fetch(context.Background(), "x"); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
}

type failingToken struct{}

func (failingToken) Token(context.Context) (string, error) { return "", errors.New("expired") }

func TestTokenErrorAbortsRequest(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	defer srv.Close()
	c, _ := New(srv.URL, failingToken{})
	if _, err := c.Fetch(context.Background(), "x"); err == nil || !strings.Contains(err.Error(), "expired") {
		t.Fatalf("err = %v", err)
	}
	if called {
		t.Error("request sent despite token failure")
	}
}

func TestNew_RejectsBadScheme(t *testing.T) {
	if _, err := New("ftp://example.com", nil); err == nil {
		t.Fatal("expected error")
	}
}

// ─────────────────────────────────────────────────────────────
// Images
// ─────────────────────────────────────────────────────────────

func TestUpload_MultipartFile(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/images" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("FormFile: %v", err)
			return
		}
		defer f.Close()
		b, _ := io.ReadAll(f)
		if hdr.Filename != "thumb.png" || string(b) != "PNGDATA" {
			t.Errorf("file = %s %q", hdr.Filename, b)
		}
		_, _ = io.WriteString(w, `{"url":"https://cdn/thumb.png","publicId":"img-1"}`)
	})
	img, err := c.Upload(context.Background(), "thumb.png", strings.NewReader("PNGDATA"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if img.PublicID != "img-1" || img.URL != "https://cdn/thumb.png" {
		t.Errorf("uploaded = %+v", img)
	}
}

func TestDelete_UsesDELETE(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/images/img-1" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	})
	if err := c.Delete(context.Background(), "img-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}
