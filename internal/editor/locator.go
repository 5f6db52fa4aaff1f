package editor

import (
	"sync"

	"resumecanvas/internal/domain"
)

// AddressBar mirrors the reload address of the editor. A Local project
// lives at /editor/new until the server assigns it an id.
type AddressBar struct {
	mu      sync.Mutex
	path    string
	history []string
}

func NewAddressBar(id domain.ProjectID) *AddressBar {
	a := &AddressBar{}
	a.path = pathFor(id)
	a.history = []string{a.path}
	return a
}

func pathFor(id domain.ProjectID) string {
	if id.IsPersisted() {
		return "/editor/" + id.Value()
	}
	return "/editor/new"
}

// Promote replaces the current address so a reload opens the persisted
// project instead of a fresh one.
func (a *AddressBar) Promote(_, to domain.ProjectID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.path = pathFor(to)
	a.history = append(a.history, a.path)
}

func (a *AddressBar) Path() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.path
}

// History lists every address the bar has shown, oldest first.
func (a *AddressBar) History() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.history...)
}
