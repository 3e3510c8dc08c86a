// Package watch reloads scene resources when their files change on disk.
//
// A Watcher observes the directories of registered texture and mesh files.
// When a watched file is written or recreated it drops the loader's cached
// copy, loads the file again and stores the result in the controller under
// the same name, so every reader of the next snapshot sees the new data.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Carmen-Shannon/oxy-sandbox/engine/controller"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/loader"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/model"
)

// ErrClosed is returned when registering a file on a closed Watcher.
var ErrClosed = errors.New("watch: closed")

// Defaults used when no option overrides them.
const (
	DefaultDebounce = 100 * time.Millisecond
	DefaultTimeout  = 30 * time.Second
)

// Kind is the kind of resource a watched file holds.
type Kind int

const (
	KindTexture Kind = iota
	KindModel
)

func (k Kind) String() string {
	switch k {
	case KindTexture:
		return "texture"
	case KindModel:
		return "model"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Reload reports the outcome of one resource reload.
type Reload struct {
	Kind Kind
	Name string
	Path string // absolute
	Err  error
}

// pending is a scheduled reload of one path. fire only acts on the pending
// reload currently stored for its path, so a timer that went off while it was
// being replaced does nothing.
type pending struct {
	timer *time.Timer
}

// target is one resource backed by a watched file. Several models may share a
// mesh file, so a path can carry several targets.
type target struct {
	kind    Kind
	texture model.TextureDescription
	model   model.ModelDescription
}

func (t target) name() string {
	if t.kind == KindTexture {
		return t.texture.Name()
	}
	return t.model.Name()
}

// watcher is the implementation of the Watcher interface.
type watcher struct {
	mu      sync.Mutex
	targets map[string][]target // by absolute file path
	dirs    map[string]int      // watched directory -> number of watched files in it
	timers  map[string]*pending
	closed  bool

	fs     *fsnotify.Watcher
	loader loader.Loader
	ctrl   controller.Controller

	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	reloads sync.WaitGroup

	debounce time.Duration
	timeout  time.Duration
	onReload func(Reload)
	logger   *slog.Logger
}

// Watcher reloads registered resources into a controller when their files change.
type Watcher interface {
	// WatchTexture reloads desc whenever its file changes.
	//
	// Parameters:
	//   - desc: the texture to keep up to date
	//
	// Returns:
	//   - error: ErrClosed, or an error if the file's directory cannot be watched
	WatchTexture(desc model.TextureDescription) error

	// WatchModel reloads desc whenever its mesh file changes.
	//
	// Parameters:
	//   - desc: the model to keep up to date
	//
	// Returns:
	//   - error: ErrClosed, or an error if the file's directory cannot be watched
	WatchModel(desc model.ModelDescription) error

	// Unwatch stops reloading every resource backed by path.
	//
	// Parameters:
	//   - path: the file path, absolute or relative to the loader root
	//
	// Returns:
	//   - bool: true if path was watched
	Unwatch(path string) bool

	// Watched returns the watched file paths in ascending order.
	Watched() []string

	// Close stops watching and waits for running reloads to finish.
	Close() error
}

var _ Watcher = &watcher{}

// NewWatcher creates a Watcher that reloads through l into ctrl.
//
// Parameters:
//   - l: the loader resources are reloaded with
//   - ctrl: the controller reloaded resources are stored in
//   - options: a variadic list of WatcherBuilderOption functions
//
// Returns:
//   - Watcher: the watcher
//   - error: an error if the file system watcher cannot be created
func NewWatcher(l loader.Loader, ctrl controller.Controller, options ...WatcherBuilderOption) (Watcher, error) {
	if l == nil || ctrl == nil {
		panic("watch: NewWatcher requires a loader and a controller")
	}
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	w := &watcher{
		targets:  make(map[string][]target),
		dirs:     make(map[string]int),
		timers:   make(map[string]*pending),
		fs:       fs,
		loader:   l,
		ctrl:     ctrl,
		done:     make(chan struct{}),
		debounce: DefaultDebounce,
		timeout:  DefaultTimeout,
		logger:   slog.Default(),
	}
	for _, option := range options {
		option(w)
	}
	w.logger = w.logger.With("component", "watch")
	w.ctx, w.cancel = context.WithCancel(context.Background())

	go w.run()
	return w, nil
}

func (w *watcher) WatchTexture(desc model.TextureDescription) error {
	return w.add(desc.Path(), target{kind: KindTexture, texture: desc})
}

func (w *watcher) WatchModel(desc model.ModelDescription) error {
	return w.add(desc.Mesh().Path(), target{kind: KindModel, model: desc})
}

func (w *watcher) Unwatch(path string) bool {
	abs, err := w.loader.Abs(path)
	if err != nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.targets[abs]; !ok {
		return false
	}
	delete(w.targets, abs)
	if p, ok := w.timers[abs]; ok {
		p.timer.Stop()
		delete(w.timers, abs)
	}
	dir := filepath.Dir(abs)
	w.dirs[dir]--
	if w.dirs[dir] == 0 {
		delete(w.dirs, dir)
		if err := w.fs.Remove(dir); err != nil {
			w.logger.Debug("unwatch directory", "dir", dir, "error", err)
		}
	}
	return true
}

func (w *watcher) Watched() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	paths := make([]string, 0, len(w.targets))
	for p := range w.targets {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return paths
}

func (w *watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	for path, p := range w.timers {
		p.timer.Stop()
		delete(w.timers, path)
	}
	w.mu.Unlock()

	w.cancel()
	err := w.fs.Close()
	<-w.done
	w.reloads.Wait()
	return err
}

// add registers t as backed by the file at path, watching its directory the
// first time a file in it is registered. Editors commonly save by writing a
// new file and renaming it over the old one, which only the directory sees.
func (w *watcher) add(path string, t target) error {
	abs, err := w.loader.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %q: %w", path, err)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}

	existing := w.targets[abs]
	for i, e := range existing {
		if e.kind == t.kind && e.name() == t.name() {
			existing[i] = t
			return nil
		}
	}
	if len(existing) == 0 {
		dir := filepath.Dir(abs)
		if w.dirs[dir] == 0 {
			if err := w.fs.Add(dir); err != nil {
				return fmt.Errorf("failed to watch %s: %w", dir, err)
			}
		}
		w.dirs[dir]++
	}
	w.targets[abs] = append(existing, t)
	w.logger.Debug("watching", "kind", t.kind.String(), "name", t.name(), "path", abs)
	return nil
}

// run forwards file system events until the fsnotify watcher is closed.
func (w *watcher) run() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Write == fsnotify.Write ||
				event.Op&fsnotify.Create == fsnotify.Create {
				w.schedule(filepath.Clean(event.Name))
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Error("file watcher error", "error", err)
		}
	}
}

// schedule reloads path once no event for it has arrived for the debounce
// interval. A single save usually produces several write events.
func (w *watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if _, ok := w.targets[path]; !ok {
		return
	}
	// Stop fails once the timer has gone off; its fire call is then on its
	// way and is superseded by a new pending reload.
	if p, ok := w.timers[path]; ok && p.timer.Stop() {
		p.timer.Reset(w.debounce)
		return
	}
	p := &pending{}
	p.timer = time.AfterFunc(w.debounce, func() { w.fire(path, p) })
	w.timers[path] = p
}

// fire runs the reload of path scheduled as p.
func (w *watcher) fire(path string, p *pending) {
	w.mu.Lock()
	if w.closed || w.timers[path] != p {
		w.mu.Unlock()
		return
	}
	delete(w.timers, path)
	targets := slices.Clone(w.targets[path])
	w.reloads.Add(1)
	w.mu.Unlock()
	defer w.reloads.Done()

	dropped := w.loader.Invalidate(path)
	w.logger.Debug("file changed", "path", path, "dropped", dropped)
	for _, t := range targets {
		w.reload(path, t)
	}
}

// reload loads one target again and stores it in the controller.
func (w *watcher) reload(path string, t target) {
	ctx, cancel := context.WithTimeout(w.ctx, w.timeout)
	defer cancel()

	var err error
	switch t.kind {
	case KindTexture:
		err = loader.ResolveInto(ctx, w.ctrl, w.loader.LoadTexture(t.texture))
	case KindModel:
		err = loader.ResolveInto(ctx, w.ctrl, w.loader.LoadModel(t.model))
	}
	if err != nil {
		w.logger.Warn("reload failed", "kind", t.kind.String(), "name", t.name(), "path", path, "error", err)
	} else {
		w.logger.Info("reloaded", "kind", t.kind.String(), "name", t.name(), "path", path)
	}
	if w.onReload != nil {
		w.onReload(Reload{Kind: t.kind, Name: t.name(), Path: path, Err: err})
	}
}
