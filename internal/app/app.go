// Package app wires configuration, persistence and the editing session
// into the commands the binary exposes.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"resumecanvas/internal/capture"
	"resumecanvas/internal/config"
	"resumecanvas/internal/domain"
	"resumecanvas/internal/editor"
)

// App holds what every command shares.
type App struct {
	cfg config.Config
	log *slog.Logger
}

func New(cfg config.Config, log *slog.Logger) *App {
	if log == nil {
		log = slog.Default()
	}
	return &App{cfg: cfg, log: log}
}

// OpenSession opens ref on the configured backend. The returned close
// function ends the session, waiting for an in-flight save, and then
// releases the backend.
func (a *App) OpenSession(ctx context.Context, ref string) (*editor.Session, func(context.Context) error, error) {
	backend, err := OpenBackend(ctx, a.cfg, a.log)
	if err != nil {
		return nil, nil, err
	}

	var capturer domain.ThumbnailCapturer = capture.NewRasterizer()
	if a.cfg.UploadThumbnails && backend.Uploader != nil {
		capturer = capture.NewUploading(capture.NewRasterizer(), backend.Uploader, a.log)
	}

	sess, err := editor.Open(ctx, backend.Gateway, ref, editor.Options{
		Capturer:        capturer,
		Logger:          a.log,
		CanvasWidth:     a.cfg.CanvasWidth,
		CanvasHeight:    a.cfg.CanvasHeight,
		Window:          a.cfg.AutosaveWindow,
		MaxPayloadBytes: a.cfg.MaxPayloadBytes,
		ContentBudget:   a.cfg.ContentBudget,
	})
	if err != nil {
		backend.Close(ctx)
		return nil, nil, err
	}
	if up, ok := capturer.(*capture.Uploading); ok {
		up.Seed(sess.Thumbnail())
	}

	closeFn := func(ctx context.Context) error {
		serr := sess.Close(ctx)
		berr := backend.Close(ctx)
		if serr != nil {
			return serr
		}
		if berr != nil {
			return fmt.Errorf("close backend: %w", berr)
		}
		return nil
	}
	return sess, closeFn, nil
}

// shutdownTimeout bounds the final save on exit.
const shutdownTimeout = 30 * time.Second
