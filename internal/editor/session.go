// Package editor wires the element store, the interaction controller and
// the autosave engine into one editing session for a project.
package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"resumecanvas/internal/autosave"
	"resumecanvas/internal/canvas"
	"resumecanvas/internal/domain"
	"resumecanvas/internal/interaction"
)

// DefaultName is given to projects that start empty.
const DefaultName = "Untitled resume"

type Options struct {
	Capturer domain.ThumbnailCapturer
	Emitter  autosave.Emitter
	// Locator defaults to an AddressBar.
	Locator autosave.Locator
	Clock   autosave.Clock
	Logger  *slog.Logger

	CanvasWidth  float64
	CanvasHeight float64

	Window          time.Duration
	MaxPayloadBytes int
	ContentBudget   int
}

// Session is one open project. All methods are safe for concurrent use;
// store and controller access is serialised by the session lock.
type Session struct {
	mu      sync.Mutex
	store   *canvas.Store
	ctrl    *interaction.Controller
	engine  *autosave.Engine
	locator autosave.Locator
	notices *Notices
	unsub   func()
	log     *slog.Logger
	closed  bool

	loadedThumb *domain.Thumbnail
	createdAt   time.Time
}

// Open starts an editing session for ref, the id segment of an editor
// address. Refs that are not a usable id, and ids the gateway does not
// know, start a new Local project. Other fetch failures are returned.
func Open(ctx context.Context, gw domain.ProjectGateway, ref string, opts Options) (*Session, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "editor")

	store := canvas.New(opts.CanvasWidth, opts.CanvasHeight)
	width, _ := store.Size()

	id, err := domain.ParseProjectID(ref)
	var rec *domain.ProjectRecord
	if err == nil {
		rec, err = gw.Fetch(ctx, id.Value())
		switch {
		case errors.Is(err, domain.ErrNotFound):
			log.Info("editor: project not found, starting a new one", "ref", ref)
			rec = nil
		case err != nil:
			return nil, fmt.Errorf("open project %s: %w", id.Value(), err)
		}
	} else {
		log.Debug("editor: no usable project ref, starting a new one", "ref", ref)
	}

	if rec == nil {
		id = domain.NewLocalID()
		store.Load(canvas.Meta{Name: DefaultName}, canvas.DefaultElements(width))
	} else {
		id = domain.PersistedID(rec.ID)
		elements, derr := domain.DecodeProjectData(rec.Data)
		if derr != nil {
			log.Warn("editor: stored elements unreadable, using defaults", "project", rec.ID, "error", derr)
			elements = canvas.DefaultElements(width)
		}
		store.Load(canvas.Meta{Name: rec.Name, Description: rec.Description}, elements)
	}

	s := &Session{
		store: store,
		ctrl:  interaction.New(store),
		log:   log,
	}
	if rec != nil {
		s.loadedThumb = rec.Thumbnail
		s.createdAt = rec.CreatedAt
	}
	s.notices = NewNotices(opts.Emitter)
	s.locator = opts.Locator
	if s.locator == nil {
		s.locator = NewAddressBar(id)
	}

	engine, err := autosave.New(gw, autosave.Options{
		Identity:        id,
		Baseline:        s.snapshot(),
		Capturer:        opts.Capturer,
		Locator:         s.locator,
		Emitter:         s.notices,
		Clock:           opts.Clock,
		Logger:          opts.Logger,
		Window:          opts.Window,
		MaxPayloadBytes: opts.MaxPayloadBytes,
		ContentBudget:   opts.ContentBudget,
	})
	if err != nil {
		return nil, err
	}
	s.engine = engine
	s.unsub = store.Subscribe(s.onChange)
	log.Info("editor: opened", "project", id.String(), "elements", store.Len())
	return s, nil
}

// onChange runs under s.mu, inside the mutating call.
func (s *Session) onChange(c canvas.Change) {
	if c.Kind == canvas.ChangeSelection {
		return
	}
	s.engine.Notify(s.snapshot())
}

func (s *Session) snapshot() autosave.Snapshot {
	w, h := s.store.Size()
	meta := s.store.Meta()
	return autosave.Snapshot{
		Name:         meta.Name,
		Description:  meta.Description,
		Elements:     s.store.Elements(),
		CanvasWidth:  w,
		CanvasHeight: h,
	}
}

// Do runs fn with exclusive access to the store.
func (s *Session) Do(fn func(*canvas.Store)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	fn(s.store)
}

// Dispatch feeds one input event to the interaction controller.
func (s *Session) Dispatch(ev interaction.Event) interaction.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.Handle(ev)
}

// Interaction returns the controller state and the on-screen position of
// every element, drag overlay included.
func (s *Session) Interaction() (interaction.State, []domain.Element) {
	s.mu.Lock()
	defer s.mu.Unlock()
	els := s.store.Elements()
	for i := range els {
		els[i].Position = s.ctrl.Overlay().Resolve(els[i])
	}
	return s.ctrl.State(), els
}

func (s *Session) Elements() []domain.Element {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Elements()
}

func (s *Session) Meta() canvas.Meta {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Meta()
}

func (s *Session) Rename(name string) {
	s.Do(func(st *canvas.Store) { st.SetName(name) })
}

func (s *Session) SetDescription(desc string) {
	s.Do(func(st *canvas.Store) { st.SetDescription(desc) })
}

// Save runs a manual save.
func (s *Session) Save(ctx context.Context) error {
	return s.engine.SaveNow(ctx)
}

func (s *Session) Identity() domain.ProjectID { return s.engine.Identity() }

func (s *Session) SaveState() autosave.State { return s.engine.State() }

func (s *Session) LastSavedAt() time.Time { return s.engine.LastSavedAt() }

// Thumbnail returns the thumbnail of the last save, or the one the project
// was loaded with.
func (s *Session) Thumbnail() *domain.Thumbnail {
	if t := s.engine.Thumbnail(); t != nil {
		return t
	}
	return s.loadedThumb
}

// Project returns a copy of the project as currently edited. UpdatedAt is
// the time of the last successful save.
func (s *Session) Project() domain.Project {
	s.mu.Lock()
	meta := s.store.Meta()
	elements := s.store.Elements()
	s.mu.Unlock()
	return domain.Project{
		ID:          s.engine.Identity(),
		Name:        meta.Name,
		Description: meta.Description,
		Elements:    elements,
		Thumbnail:   s.Thumbnail(),
		CreatedAt:   s.createdAt,
		UpdatedAt:   s.engine.LastSavedAt(),
	}
}

func (s *Session) Locator() autosave.Locator { return s.locator }

func (s *Session) Notices() *Notices { return s.notices }

// Close commits any open text edit, tears down the controller and shuts
// the autosave engine down, waiting for an in-flight save.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.ctrl.Handle(interaction.Blur{})
	s.ctrl.Close()
	s.unsub()
	s.closed = true
	s.mu.Unlock()

	if err := s.engine.Close(ctx); err != nil {
		return fmt.Errorf("close session: %w", err)
	}
	s.log.Info("editor: closed", "project", s.engine.Identity().String())
	return nil
}
