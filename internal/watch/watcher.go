// Package watch kayıt klasörüne düşen videoları ve videoların yanındaki
// proje dosyalarındaki değişiklikleri algılar.
package watch

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mlihgenel/videocut-cli/internal/logging"
	"github.com/mlihgenel/videocut-cli/internal/media"
	"github.com/mlihgenel/videocut-cli/internal/project"
)

// editedMarker dışa aktarılmış dosyaların adında bulunur; bu dosyalar
// yeniden işlenmez.
const editedMarker = "_edited_"

const defaultSettle = 1500 * time.Millisecond

// Bir kaydın neden hazır bildirildiği.
const (
	ReasonNew      = "new"
	ReasonModified = "modified"
	ReasonProject  = "project"
)

// Recording yazımı bitmiş (boyutu ve zamanı Settle boyunca değişmemiş) bir
// videodur.
type Recording struct {
	Path    string
	Project string // videonun yanındaki proje dosyası; yoksa boş
	Reason  string
}

// Options izleyici ayarlarıdır. Format boşsa tüm video formatları izlenir.
type Options struct {
	Root      string
	Format    string
	Recursive bool
	Settle    time.Duration
	Logger    *slog.Logger
}

func (o Options) normalized() Options {
	o.Format = media.NormalizeFormat(o.Format)
	if o.Settle <= 0 {
		o.Settle = defaultSettle
	}
	if o.Logger == nil {
		o.Logger = logging.Discard()
	}
	return o
}

// Engine izleme arka ucudur. Events, Poll çağrısını öne almak için sinyal
// verir; nil kanal yalnızca periyodik taramaya güvenilir demektir.
type Engine interface {
	Bootstrap() error
	Poll(now time.Time) ([]Recording, error)
	Events() <-chan struct{}
	Close() error
	Mode() string
}

type entry struct {
	size       int64
	modTime    time.Time
	projectMod time.Time
	changedAt  time.Time
	reason     string
	done       bool
}

// Poller klasörü periyodik tarayan izleyicidir.
type Poller struct {
	opts    Options
	entries map[string]*entry
}

// NewPoller yeni bir polling izleyicisi oluşturur.
func NewPoller(opts Options) *Poller {
	return &Poller{
		opts:    opts.normalized(),
		entries: make(map[string]*entry),
	}
}

// Bootstrap klasörde zaten bulunan kayıtları işlenmiş sayar.
func (p *Poller) Bootstrap() error {
	now := time.Now()
	count := 0
	err := p.scan(func(path string, info os.FileInfo) {
		p.entries[path] = &entry{
			size:       info.Size(),
			modTime:    info.ModTime(),
			projectMod: projectModTime(path),
			changedAt:  now,
			done:       true,
		}
		count++
	})
	if err == nil {
		p.opts.Logger.Debug("mevcut kayıtlar atlandı", "root", p.opts.Root, "count", count)
	}
	return err
}

func (p *Poller) Events() <-chan struct{} { return nil }

func (p *Poller) Close() error { return nil }

func (p *Poller) Mode() string { return "polling" }

// Poll Settle süresini dolduran yeni veya değişmiş kayıtları döner. Bir kayıt
// her değişiklikten sonra yalnızca bir kez döner.
func (p *Poller) Poll(now time.Time) ([]Recording, error) {
	seen := make(map[string]struct{}, len(p.entries))
	var ready []Recording

	err := p.scan(func(path string, info os.FileInfo) {
		seen[path] = struct{}{}
		pm := projectModTime(path)
		e, ok := p.entries[path]
		switch {
		case !ok:
			p.entries[path] = &entry{size: info.Size(), modTime: info.ModTime(), projectMod: pm, changedAt: now, reason: ReasonNew}
			return
		case e.size != info.Size() || !e.modTime.Equal(info.ModTime()):
			e.size, e.modTime, e.projectMod = info.Size(), info.ModTime(), pm
			e.changedAt = now
			if e.done || e.reason == "" {
				e.reason = ReasonModified
			}
			e.done = false
			return
		case !e.projectMod.Equal(pm):
			// Editörde kaydedilen proje, çıktının yeniden üretilmesini ister.
			e.projectMod = pm
			e.changedAt = now
			if e.done {
				e.reason = ReasonProject
			}
			e.done = false
			return
		}

		if !e.done && now.Sub(e.changedAt) >= p.opts.Settle {
			e.done = true
			rec := Recording{Path: path, Reason: e.reason}
			if !pm.IsZero() {
				rec.Project = project.DefaultPath(path)
			}
			ready = append(ready, rec)
		}
	})
	if err != nil {
		return nil, err
	}

	for path := range p.entries {
		if _, ok := seen[path]; !ok {
			delete(p.entries, path)
		}
	}
	return ready, nil
}

func (p *Poller) scan(onFile func(path string, info os.FileInfo)) error {
	root := p.opts.Root
	if err := checkRoot(root); err != nil {
		return err
	}

	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if !p.opts.Recursive && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if !isRecording(path, p.opts.Format) {
			return nil
		}
		if info, err := d.Info(); err == nil {
			onFile(path, info)
		}
		return nil
	})
}

func checkRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("izlenecek yol dizin olmalı: %s", root)
	}
	return nil
}

// isRecording yolun işlenecek bir ham kayıt olup olmadığını söyler.
func isRecording(path, format string) bool {
	if strings.Contains(filepath.Base(path), editedMarker) {
		return false
	}
	if format == "" {
		return media.IsVideoFile(path)
	}
	return media.DetectFormat(path) == format
}

// isProjectFile yolun bir videonun yanındaki proje dosyası olup olmadığını söyler.
func isProjectFile(path string) bool {
	return strings.HasSuffix(path, project.FileSuffix)
}

func projectModTime(video string) time.Time {
	info, err := os.Stat(project.DefaultPath(video))
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}
