package view

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

var funcs = template.FuncMap{
	"add": func(a, b int) int {
		return a + b
	},
}

// Templates is a reloadable set of html templates.
type Templates struct {
	mu     sync.RWMutex
	tmpl   *template.Template
	fsys   fs.FS
	logger *slog.Logger
}

func New(fsys fs.FS, logger *slog.Logger) (*Templates, error) {
	if logger == nil {
		logger = slog.Default()
	}
	t := &Templates{fsys: fsys, logger: logger}
	if err := t.Reload(); err != nil {
		return nil, err
	}
	return t, nil
}

func parse(fsys fs.FS) (*template.Template, error) {
	tmpl := template.New("").Funcs(funcs)
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == ".html" {
			_, err = tmpl.ParseFS(fsys, path)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return tmpl, nil
}

// Reload re-parses every template. On failure the previous set is kept.
func (t *Templates) Reload() error {
	tmpl, err := parse(t.fsys)
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}
	t.mu.Lock()
	t.tmpl = tmpl
	t.mu.Unlock()
	return nil
}

func (t *Templates) ExecuteTemplate(w io.Writer, name string, data any) error {
	t.mu.RLock()
	tmpl := t.tmpl
	t.mu.RUnlock()
	return tmpl.ExecuteTemplate(w, name, data)
}

// Watch reloads the templates whenever a file in dir is written or
// created. It blocks until ctx is done.
func (t *Templates) Watch(ctx context.Context, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()
	err = watcher.Add(dir)
	if err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				break
			}
			if err := t.Reload(); err != nil {
				t.logger.ErrorContext(ctx, "failed to reload templates!", "error", err, "file", event.Name)
				break
			}
			t.logger.InfoContext(ctx, "templates reloaded", "file", event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			t.logger.ErrorContext(ctx, "template watcher error", "error", err)
		case <-ctx.Done():
			return nil
		}
	}
}
