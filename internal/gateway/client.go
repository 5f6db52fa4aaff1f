// Package gateway talks to the remote project API over HTTP.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"resumecanvas/internal/domain"
)

// StatusError is returned for non-2xx responses other than 404.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Code)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Code, e.Body)
}

// TokenSource yields the bearer credential for each request. An empty
// token sends no Authorization header.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource that always returns the same token.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) { return string(t), nil }

// Client implements domain.ProjectGateway and domain.ImageUploader.
type Client struct {
	base   *url.URL
	tokens TokenSource
	http   *http.Client
	log    *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.http = hc } }

func WithLogger(l *slog.Logger) Option { return func(c *Client) { c.log = l } }

func New(baseURL string, tokens TokenSource, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("parse base url: unsupported scheme %q", u.Scheme)
	}
	if tokens == nil {
		tokens = StaticToken("")
	}
	c := &Client{
		base:   u,
		tokens: tokens,
		http:   &http.Client{Timeout: 30 * time.Second},
		log:    slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// ─────────────────────────────────────────────────────────────
// Projects
// ─────────────────────────────────────────────────────────────

func (c *Client) Create(ctx context.Context, p domain.ProjectPayload) (*domain.ProjectRecord, error) {
	var rec domain.ProjectRecord
	if err := c.doJSON(ctx, http.MethodPost, "/projects", p, &rec); err != nil {
		return nil, err
	}
	if rec.ID == "" {
		return nil, errors.New("POST /projects: response carried no id")
	}
	return &rec, nil
}

func (c *Client) Update(ctx context.Context, id string, p domain.ProjectPayload) (*domain.ProjectRecord, error) {
	var rec domain.ProjectRecord
	if err := c.doJSON(ctx, http.MethodPut, "/projects/"+url.PathEscape(id), p, &rec); err != nil {
		return nil, err
	}
	if rec.ID == "" {
		rec.ID = id
	}
	return &rec, nil
}

func (c *Client) Fetch(ctx context.Context, id string) (*domain.ProjectRecord, error) {
	var rec domain.ProjectRecord
	if err := c.doJSON(ctx, http.MethodGet, "/projects/"+url.PathEscape(id), nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// ─────────────────────────────────────────────────────────────
// Images
// ─────────────────────────────────────────────────────────────

// Upload posts r as the multipart field "file".
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (domain.UploadedImage, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return domain.UploadedImage{}, fmt.Errorf("upload image: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return domain.UploadedImage{}, fmt.Errorf("upload image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return domain.UploadedImage{}, fmt.Errorf("upload image: %w", err)
	}

	var out domain.UploadedImage
	if err := c.do(ctx, http.MethodPost, "/images", &body, mw.FormDataContentType(), &out); err != nil {
		return domain.UploadedImage{}, err
	}
	if out.URL == "" {
		return domain.UploadedImage{}, errors.New("POST /images: response carried no url")
	}
	return out, nil
}

func (c *Client) Delete(ctx context.Context, publicID string) error {
	return c.do(ctx, http.MethodDelete, "/images/"+url.PathEscape(publicID), nil, "", nil)
}

// ─────────────────────────────────────────────────────────────
// Transport
// ─────────────────────────────────────────────────────────────

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	if in == nil {
		return c.do(ctx, method, path, nil, "", out)
	}
	b, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%s %s: encode body: %w", method, path, err)
	}
	return c.do(ctx, method, path, bytes.NewReader(b), "application/json", out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, body)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("%s %s: token: %w", method, path, err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	c.log.Debug("gateway: request", "method", method, "path", path, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s %s: %w", method, path, domain.ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}
