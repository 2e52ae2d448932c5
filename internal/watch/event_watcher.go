package watch

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// EventWatcher fsnotify olaylarıyla Poll çağrısını öne alır. Kararı yine
// Poller verir; olaylar yalnızca "şimdi tara" sinyalidir.
type EventWatcher struct {
	*Poller
	fs *fsnotify.Watcher

	events chan struct{}
	done   chan struct{}
	once   sync.Once
}

// NewEventWatcher fsnotify arka ucunu oluşturur.
func NewEventWatcher(opts Options) (*EventWatcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &EventWatcher{
		Poller: NewPoller(opts),
		fs:     fs,
		events: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}, nil
}

// New olay tabanlı izleyiciyi dener. fsnotify kullanılamıyorsa hatayla
// birlikte çalışır durumda bir Poller döner.
func New(opts Options) (Engine, error) {
	ew, err := NewEventWatcher(opts)
	if err != nil {
		return NewPoller(opts), err
	}
	return ew, nil
}

func (w *EventWatcher) Bootstrap() error {
	if err := w.Poller.Bootstrap(); err != nil {
		return err
	}
	if err := w.addTree(w.opts.Root); err != nil {
		return err
	}
	go w.loop()
	return nil
}

func (w *EventWatcher) Events() <-chan struct{} { return w.events }

func (w *EventWatcher) Close() error {
	w.once.Do(func() { close(w.done) })
	return w.fs.Close()
}

func (w *EventWatcher) Mode() string { return "event+polling" }

func (w *EventWatcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case evt, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if w.relevant(evt) {
				w.opts.Logger.Debug("dosya olayı", "path", evt.Name, "op", evt.Op.String())
				w.signal()
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			// Periyodik tarama sürdüğü için olay hatası izlemeyi durdurmaz.
			w.opts.Logger.Warn("fsnotify hatası", "error", err)
			w.signal()
		}
	}
}

// relevant kayıtları ve proje dosyalarını ilgilendiren olayları seçer.
// Yeni alt dizinler özyinelemeli modda izlemeye eklenir.
func (w *EventWatcher) relevant(evt fsnotify.Event) bool {
	if evt.Has(fsnotify.Chmod) && !evt.Has(fsnotify.Write) {
		return false
	}
	if evt.Has(fsnotify.Create) && w.opts.Recursive {
		if info, err := os.Stat(evt.Name); err == nil && info.IsDir() {
			if err := w.addTree(evt.Name); err != nil {
				w.opts.Logger.Warn("alt dizin izlenemedi", "path", evt.Name, "error", err)
			}
			return true
		}
	}
	return isRecording(evt.Name, w.opts.Format) || isProjectFile(evt.Name)
}

func (w *EventWatcher) signal() {
	select {
	case w.events <- struct{}{}:
	default:
	}
}

func (w *EventWatcher) addTree(root string) error {
	if err := checkRoot(root); err != nil {
		return err
	}
	if !w.opts.Recursive {
		return w.fs.Add(root)
	}
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		return w.fs.Add(path)
	})
}

var (
	_ Engine = (*EventWatcher)(nil)
	_ Engine = (*Poller)(nil)
)
