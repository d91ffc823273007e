package web

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const templatePattern = "*.html"

// templateSet holds the parsed page templates.
// Reads are lock-free; the reloader swaps in a fully parsed set.
type templateSet struct {
	current atomic.Pointer[template.Template]
	fsys    fs.FS
}

func parseTemplates(fsys fs.FS) (*template.Template, error) {
	return template.New("pages").ParseFS(fsys, templatePattern)
}

// newTemplateSet parses the templates of dir, or the embedded ones when dir is empty.
func newTemplateSet(dir string) (*templateSet, error) {
	var fsys fs.FS
	if dir == "" {
		sub, err := fs.Sub(EmbeddedTemplatesFS, "templates")
		if err != nil {
			return nil, err
		}
		fsys = sub
	} else {
		fsys = os.DirFS(dir)
	}
	tmpl, err := parseTemplates(fsys)
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	ts := &templateSet{fsys: fsys}
	ts.current.Store(tmpl)
	return ts, nil
}

// Execute renders the named template to w.
func (ts *templateSet) Execute(w io.Writer, name string, data any) error {
	return ts.current.Load().ExecuteTemplate(w, name, data)
}

// reload reparses the templates; on failure the previous set stays active.
func (ts *templateSet) reload() error {
	tmpl, err := parseTemplates(ts.fsys)
	if err != nil {
		return err
	}
	ts.current.Store(tmpl)
	return nil
}

// templateReloader watches a template directory and reparses on change.
// Only used by the development server.
type templateReloader struct {
	dir      string
	set      *templateSet
	debounce time.Duration
	logger   zerolog.Logger
}

func newTemplateReloader(dir string, set *templateSet, logger zerolog.Logger) *templateReloader {
	return &templateReloader{
		dir:      dir,
		set:      set,
		debounce: 250 * time.Millisecond,
		logger:   logger,
	}
}

// Run watches until ctx is cancelled.
func (r *templateReloader) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(r.dir); err != nil {
		return fmt.Errorf("watch template dir: %w", err)
	}
	r.logger.Info().Str("event", "templates.watcher_started").Str("path", r.dir).Msg("watching templates for changes")

	timer := time.NewTimer(r.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info().Str("event", "templates.watcher_stopped").Msg("template watcher stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if match, _ := filepath.Match(templatePattern, filepath.Base(event.Name)); !match {
				continue
			}
			r.logger.Debug().Str("event", "templates.file_changed").Str("op", event.Op.String()).Str("file", event.Name).Msg("template changed")
			timer.Reset(r.debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Error().Err(err).Str("event", "templates.watcher_error").Msg("template watcher error")

		case <-timer.C:
			if err := r.set.reload(); err != nil {
				r.logger.Error().Err(err).Str("event", "templates.reload_failed").Msg("keeping previous templates")
				continue
			}
			r.logger.Info().Str("event", "templates.reloaded").Msg("templates reloaded")
		}
	}
}
