package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"resumecanvas/internal/pagination"
	"resumecanvas/internal/render"
	"resumecanvas/internal/watch"
)

// Paginate reads the resume at in and writes its pages as JSON to w.
func (a *App) Paginate(in string, caps pagination.Capacities, w io.Writer) error {
	res, err := render.LoadResume(in)
	if err != nil {
		return err
	}
	pages, err := pagination.PaginateResume(res, caps)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(pages)
}

// Render paginates the resume at in and writes the PDF to out.
func (a *App) Render(in, out string, caps pagination.Capacities) (render.Result, error) {
	res, err := render.LoadResume(in)
	if err != nil {
		return render.Result{}, err
	}
	pages, err := pagination.PaginateResume(res, caps)
	if err != nil {
		return render.Result{}, err
	}

	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return render.Result{}, fmt.Errorf("create output dir: %w", err)
	}
	// Rendered into a sibling temp file and renamed, so out is never
	// partially written.
	tmp, err := os.CreateTemp(filepath.Dir(out), ".resume-*.pdf")
	if err != nil {
		return render.Result{}, fmt.Errorf("create output: %w", err)
	}
	defer os.Remove(tmp.Name())

	result, err := render.RenderFile(tmp, res, pages, a.cfg.FontPath, a.log)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return render.Result{}, err
	}
	if err := os.Rename(tmp.Name(), out); err != nil {
		return render.Result{}, fmt.Errorf("write output: %w", err)
	}
	a.log.Info("app: rendered resume", "out", out, "pages", result.Pages, "overflowing", result.Overflowing)
	return result, nil
}

// Watch renders once and then again every time in changes, until ctx is
// done. Render failures while watching are logged, not returned.
func (a *App) Watch(ctx context.Context, in, out string, caps pagination.Capacities) error {
	if _, err := a.Render(in, out, caps); err != nil {
		return err
	}
	w, err := watch.New(func(ctx context.Context, path string) {
		if _, err := a.Render(in, out, caps); err != nil {
			a.log.Error("app: re-render failed", "in", path, "error", err)
		}
	}, watch.WithLogger(a.log))
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(in); err != nil {
		return err
	}
	a.log.Info("app: watching resume", "in", in)
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
