// Package autosave keeps the server copy of a project eventually
// consistent with in-memory edits.
//
// The engine is a small state machine:
//
//	Clean ──edit──▶ Dirty ──quiescence / manual──▶ Saving ──ok──▶ Clean
//	                  ▲                              │
//	                  └──────── failure / edits ─────┘
//
// Every notified edit resets the quiescence timer, so at most one save is
// pending. Autosave and manual save share one in-flight flag; a save that
// finds it set is skipped, not queued.
package autosave

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"resumecanvas/internal/domain"
)

var (
	ErrSaveInFlight = errors.New("autosave: save already in flight")
	ErrClosed       = errors.New("autosave: engine closed")
)

type State int

const (
	Clean State = iota
	Dirty
	Saving
)

func (s State) String() string {
	switch s {
	case Dirty:
		return "dirty"
	case Saving:
		return "saving"
	}
	return "clean"
}

// Event names emitted through the Emitter.
const (
	EventSaved      = "save:succeeded"
	EventSaveFailed = "save:failed"
	EventPromoted   = "project:promoted"
)

// Emitter delivers events to the user-facing surface.
type Emitter interface {
	Emit(ctx context.Context, event string, data any)
}

// Locator owns the address a project is reloaded from. Promote is called
// exactly once, when a Local project receives its server id.
type Locator interface {
	Promote(from, to domain.ProjectID)
}

// Clock schedules the quiescence timer.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type Timer interface {
	Stop() bool
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// SaveFailure is the payload of EventSaveFailed for manual saves.
type SaveFailure struct {
	Project     string `json:"project"`
	Message     string `json:"message"`
	Dismissible bool   `json:"dismissible"`
}

// SaveResult is the payload of EventSaved.
type SaveResult struct {
	Project  string `json:"project"`
	Manual   bool   `json:"manual"`
	Bytes    int    `json:"bytes"`
	Degraded bool   `json:"degraded"`
}

// Options configures an Engine. Zero values take the defaults noted.
type Options struct {
	// Identity of the project being edited. Zero means a fresh Local id.
	Identity domain.ProjectID
	// Baseline is the state the server already has (or, for a new local
	// project, the untouched initial state).
	Baseline Snapshot

	Capturer domain.ThumbnailCapturer
	Locator  Locator
	Emitter  Emitter
	Clock    Clock
	Logger   *slog.Logger

	// Window is the quiescence interval. Default 5s.
	Window time.Duration
	// SaveTimeout bounds one autosave cycle. Default 30s.
	SaveTimeout time.Duration
	// MaxPayloadBytes triggers payload reduction. Default 1 MiB.
	MaxPayloadBytes int
	// ContentBudget is the rune limit of element content when reduced. Default 500.
	ContentBudget int
	// StyleAllowList is the style subset kept when reduced.
	StyleAllowList []string
}

func (o *Options) defaults() {
	if o.Identity.IsZero() {
		o.Identity = domain.NewLocalID()
	}
	if o.Clock == nil {
		o.Clock = realClock{}
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Window <= 0 {
		o.Window = 5 * time.Second
	}
	if o.SaveTimeout <= 0 {
		o.SaveTimeout = 30 * time.Second
	}
	if o.MaxPayloadBytes <= 0 {
		o.MaxPayloadBytes = 1 << 20
	}
	if o.ContentBudget <= 0 {
		o.ContentBudget = 500
	}
	if o.StyleAllowList == nil {
		o.StyleAllowList = DefaultStyleAllowList
	}
}

// Engine is safe for concurrent use.
type Engine struct {
	gw      domain.ProjectGateway
	opts    Options
	log     *slog.Logger
	builder payloadBuilder
	guard   flightGuard

	baseCtx context.Context
	cancel  context.CancelFunc

	mu        sync.Mutex
	state     State
	identity  domain.ProjectID
	current   Snapshot
	currentB  []byte
	lastSaved []byte
	savedAt   time.Time
	thumbnail *domain.Thumbnail
	timer     Timer
	timerGen  uint64
	closed    bool
}

// New returns an engine in the Clean state.
func New(gw domain.ProjectGateway, opts Options) (*Engine, error) {
	opts.defaults()
	base, err := opts.Baseline.Encode()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Engine{
		gw:   gw,
		opts: opts,
		log:  opts.Logger.With("component", "autosave"),
		builder: payloadBuilder{
			maxBytes: opts.MaxPayloadBytes,
			budget:   opts.ContentBudget,
			allow:    opts.StyleAllowList,
		},
		baseCtx:   ctx,
		cancel:    cancel,
		identity:  opts.Identity,
		current:   opts.Baseline,
		currentB:  base,
		lastSaved: base,
	}, nil
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Identity returns the project identity; it flips from Local to Persisted
// on the first successful create.
func (e *Engine) Identity() domain.ProjectID {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.identity
}

// LastSavedAt is the time of the last successful save, zero if none.
func (e *Engine) LastSavedAt() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.savedAt
}

// Thumbnail returns the thumbnail sent with the last successful save.
func (e *Engine) Thumbnail() *domain.Thumbnail {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.thumbnail
}

// InFlight reports whether a save cycle is running.
func (e *Engine) InFlight() bool { return e.guard.InFlight() }

// Notify records the current project state after a mutation. A state
// that differs from the last saved one makes the engine Dirty and
// restarts the quiescence timer.
func (e *Engine) Notify(s Snapshot) {
	b, err := s.Encode()
	if err != nil {
		e.log.Error("autosave: snapshot", "error", err)
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.current = s
	e.currentB = b

	if bytes.Equal(b, e.lastSaved) {
		if e.state == Dirty {
			e.state = Clean
			e.stopTimerLocked()
		}
		return
	}
	if e.state != Saving {
		e.state = Dirty
	}
	e.resetTimerLocked()
}

func (e *Engine) resetTimerLocked() {
	e.stopTimerLocked()
	gen := e.timerGen
	e.timer = e.opts.Clock.AfterFunc(e.opts.Window, func() { e.fire(gen) })
}

func (e *Engine) stopTimerLocked() {
	e.timerGen++
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

// fire runs when the quiescence window elapses. Timers that were reset or
// stopped in the meantime carry a stale generation and do nothing.
func (e *Engine) fire(gen uint64) {
	e.mu.Lock()
	if e.closed || gen != e.timerGen {
		e.mu.Unlock()
		return
	}
	e.timer = nil
	dirty := e.state == Dirty
	e.mu.Unlock()
	if !dirty {
		return
	}

	ctx, cancel := context.WithTimeout(e.baseCtx, e.opts.SaveTimeout)
	defer cancel()
	switch err := e.save(ctx, false); {
	case err == nil:
	case errors.Is(err, ErrSaveInFlight):
		e.log.Debug("autosave: skipped, save in flight")
	case errors.Is(err, ErrClosed):
	default:
		e.log.Warn("autosave: save failed, will retry on next edit", "project", e.Identity().String(), "error", err)
	}
}

// SaveNow runs a save cycle immediately, cancelling any pending autosave.
// Failures are returned and emitted as a dismissible EventSaveFailed.
func (e *Engine) SaveNow(ctx context.Context) error {
	err := e.save(ctx, true)
	if err != nil && !errors.Is(err, ErrSaveInFlight) && !errors.Is(err, ErrClosed) {
		e.log.Error("autosave: manual save failed", "project", e.Identity().String(), "error", err)
		e.emit(ctx, EventSaveFailed, SaveFailure{
			Project:     e.Identity().String(),
			Message:     fmt.Sprintf("Could not save your resume: %v", err),
			Dismissible: true,
		})
	}
	return err
}

func (e *Engine) save(ctx context.Context, manual bool) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	if !e.guard.TryLock() {
		e.mu.Unlock()
		return ErrSaveInFlight
	}
	defer e.guard.Unlock()

	snap, snapB, id := e.current, e.currentB, e.identity
	prev := e.state
	e.state = Saving
	if manual {
		e.stopTimerLocked()
	}
	e.mu.Unlock()

	res, err := e.cycle(ctx, snap, id)

	e.mu.Lock()
	if err != nil {
		if bytes.Equal(e.currentB, e.lastSaved) && prev == Clean {
			e.state = Clean
		} else {
			e.state = Dirty
		}
		e.mu.Unlock()
		return err
	}

	if id.IsLocal() {
		next := domain.PersistedID(res.record.ID)
		e.identity = next
		if e.opts.Locator != nil {
			e.opts.Locator.Promote(id, next)
		}
		e.log.Info("autosave: project promoted", "from", id.String(), "to", next.String())
	}
	e.lastSaved = snapB
	e.savedAt = time.Now()
	e.thumbnail = res.payload.Thumbnail

	if bytes.Equal(e.currentB, e.lastSaved) {
		e.state = Clean
	} else {
		// Edits landed while the request was out; their timer may have fired
		// and been skipped, so arm a fresh one.
		e.state = Dirty
		if !e.closed {
			e.resetTimerLocked()
		}
	}

	project := e.identity.String()
	e.mu.Unlock()

	if id.IsLocal() {
		e.emit(ctx, EventPromoted, map[string]string{"from": id.String(), "to": project})
	}
	e.emit(ctx, EventSaved, SaveResult{Project: project, Manual: manual, Bytes: res.size, Degraded: res.degraded})
	return nil
}

type cycleResult struct {
	record   *domain.ProjectRecord
	payload  domain.ProjectPayload
	size     int
	degraded bool
}

// cycle performs the I/O of one save without holding the engine lock.
func (e *Engine) cycle(ctx context.Context, snap Snapshot, id domain.ProjectID) (cycleResult, error) {
	thumb := e.capture(ctx, snap)

	built, err := e.builder.build(snap, thumb)
	if err != nil {
		return cycleResult{}, err
	}
	if built.degraded {
		e.log.Warn("autosave: payload over limit, sending reduced representation",
			"project", id.String(), "bytes", built.size, "limit", e.opts.MaxPayloadBytes)
	}

	var rec *domain.ProjectRecord
	if id.IsLocal() {
		rec, err = e.gw.Create(ctx, built.payload)
		if err != nil {
			return cycleResult{}, fmt.Errorf("create project: %w", err)
		}
		if rec == nil || rec.ID == "" {
			return cycleResult{}, errors.New("create project: response carried no id")
		}
	} else {
		rec, err = e.gw.Update(ctx, id.Value(), built.payload)
		if err != nil {
			return cycleResult{}, fmt.Errorf("update project %s: %w", id.Value(), err)
		}
	}
	return cycleResult{record: rec, payload: built.payload, size: built.size, degraded: built.degraded}, nil
}

// capture is best-effort: any failure yields no thumbnail.
func (e *Engine) capture(ctx context.Context, snap Snapshot) *domain.Thumbnail {
	if e.opts.Capturer == nil {
		return nil
	}
	t, err := e.opts.Capturer.Capture(ctx, domain.Region{
		Width:    snap.CanvasWidth,
		Height:   snap.CanvasHeight,
		Elements: snap.Elements,
	})
	if err != nil {
		e.log.Warn("autosave: thumbnail capture failed", "error", err)
		return nil
	}
	if t.IsEmpty() {
		return nil
	}
	return &t
}

func (e *Engine) emit(ctx context.Context, event string, data any) {
	if e.opts.Emitter != nil {
		e.opts.Emitter.Emit(ctx, event, data)
	}
}

// Close cancels the pending timer and waits for an in-flight save to
// finish or ctx to expire. Timers that already fired become no-ops.
func (e *Engine) Close(ctx context.Context) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.stopTimerLocked()
	e.mu.Unlock()

	err := e.guard.Wait(ctx)
	e.cancel()
	return err
}
