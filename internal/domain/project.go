package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

type identityKind uint8

const (
	identityNone identityKind = iota
	identityLocal
	identityPersisted
)

// ProjectID is either Local(token), for a project that only exists in
// memory, or Persisted(id), for one the server has assigned an id to.
// The zero value is neither and reports IsZero.
type ProjectID struct {
	kind  identityKind
	value string
}

// NewLocalID returns a fresh Local identity.
func NewLocalID() ProjectID {
	return ProjectID{kind: identityLocal, value: uuid.NewString()}
}

// LocalID wraps an existing local token.
func LocalID(token string) ProjectID {
	return ProjectID{kind: identityLocal, value: token}
}

// PersistedID wraps a server-issued id.
func PersistedID(id string) ProjectID {
	return ProjectID{kind: identityPersisted, value: id}
}

var persistedIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ParseProjectID validates an externally supplied project reference, such
// as the id segment of an editor address. Empty strings, the "undefined" and
// "null" sentinels and anything outside [A-Za-z0-9_-]{1,64} are rejected
// with ErrInvalidProjectID.
func ParseProjectID(ref string) (ProjectID, error) {
	ref = strings.TrimSpace(ref)
	switch strings.ToLower(ref) {
	case "", "undefined", "null", "new":
		return ProjectID{}, fmt.Errorf("%w: %q", ErrInvalidProjectID, ref)
	}
	if !persistedIDPattern.MatchString(ref) {
		return ProjectID{}, fmt.Errorf("%w: %q", ErrInvalidProjectID, ref)
	}
	return PersistedID(ref), nil
}

func (id ProjectID) IsLocal() bool     { return id.kind == identityLocal }
func (id ProjectID) IsPersisted() bool { return id.kind == identityPersisted }
func (id ProjectID) IsZero() bool      { return id.kind == identityNone }

// Value returns the local token or the server id.
func (id ProjectID) Value() string { return id.value }

func (id ProjectID) String() string {
	switch id.kind {
	case identityLocal:
		return "local:" + id.value
	case identityPersisted:
		return id.value
	}
	return "<none>"
}

type Thumbnail struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}

// IsEmpty reports whether no image is referenced.
func (t Thumbnail) IsEmpty() bool { return t.URL == "" }

// Project is the editable resume canvas.
type Project struct {
	ID          ProjectID  `json:"-"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Elements    []Element  `json:"elements"`
	Thumbnail   *Thumbnail `json:"thumbnail,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
