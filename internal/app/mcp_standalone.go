package app

import (
	"context"

	"resumecanvas/internal/autosave"
	"resumecanvas/internal/editor"
	mcpserver "resumecanvas/internal/mcp"
	"resumecanvas/internal/pagination"
)

// ServeMCP opens ref and serves the session as an MCP server on
// stdin/stdout until the client disconnects. Pending edits are saved on
// the way out.
func (a *App) ServeMCP(ctx context.Context, ref string, caps pagination.Capacities) error {
	sess, closeSession, err := a.OpenSession(ctx, ref)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.saveOnExit(sctx, sess)
		if err := closeSession(sctx); err != nil {
			a.log.Warn("app: close session", "error", err)
		}
	}()

	srv := mcpserver.New(mcpserver.Deps{
		Session:      sess,
		Capacities:   caps,
		FontPath:     a.cfg.FontPath,
		Logger:       a.log,
		CanvasWidth:  a.cfg.CanvasWidth,
		CanvasHeight: a.cfg.CanvasHeight,
	})
	return srv.ServeStdio()
}

// saveOnExit flushes unsaved edits. A clean session is left alone so an
// untouched "new" project never reaches the gateway.
func (a *App) saveOnExit(ctx context.Context, sess *editor.Session) {
	if sess.SaveState() == autosave.Clean {
		return
	}
	if err := sess.Save(ctx); err != nil {
		a.log.Warn("app: final save failed", "error", err)
	}
}
