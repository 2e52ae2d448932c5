// Package batch aynı düzenlemeyi birden çok videoya paralel uygular.
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mlihgenel/videocut-cli/internal/export"
	"github.com/mlihgenel/videocut-cli/internal/media"
)

// Job tek bir dışa aktarma işidir.
type Job struct {
	Export     export.Job
	SkipReason string
}

// JobResult bir işin sonucunu tutar
type JobResult struct {
	Job        Job
	Success    bool
	Skipped    bool
	Attempts   int
	OutputSize int64
	SkipReason string
	Error      error
	Duration   time.Duration
}

// Pool dışa aktarma işlerini sınırlı sayıda worker ile çalıştırır.
type Pool struct {
	Workers    int
	RetryMax   int
	RetryDelay time.Duration
	Transcoder export.Transcoder
	OnProgress func(completed, total int)
	OnStatus   func(job Job, status export.Status, message string)

	processed atomic.Int64
}

// NewPool yeni bir worker pool oluşturur. ffmpeg tek başına çok çekirdek
// kullandığı için varsayılan worker sayısı CPU sayısının yarısıdır.
func NewPool(workers int, t export.Transcoder) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU() / 2
	}
	if workers < 1 {
		workers = 1
	}
	maxWorkers := runtime.NumCPU() * 2
	if workers > maxWorkers {
		workers = maxWorkers
	}

	return &Pool{
		Workers:    workers,
		RetryDelay: 500 * time.Millisecond,
		Transcoder: t,
	}
}

// SetRetry retry davranışını ayarlar.
func (p *Pool) SetRetry(max int, delay time.Duration) {
	if max < 0 {
		max = 0
	}
	p.RetryMax = max

	if delay >= 0 {
		p.RetryDelay = delay
	}
}

// Execute işleri paralel çalıştırır. Sonuçlar işlerin sırasıyla döner.
// ctx iptal edilirse bekleyen işler başlatılmaz; başlamış işler iptal
// hatasıyla sonuçlanır.
func (p *Pool) Execute(ctx context.Context, jobs []Job) []JobResult {
	results := make([]JobResult, len(jobs))
	p.processed.Store(0)
	if len(jobs) == 0 {
		return results
	}

	var progressMu sync.Mutex
	report := func() {
		completed := int(p.processed.Add(1))
		if p.OnProgress == nil {
			return
		}
		progressMu.Lock()
		defer progressMu.Unlock()
		p.OnProgress(completed, len(jobs))
	}

	// İş hataları JobResult içinde taşınır; grup hiçbir zaman hata dönmez.
	var g errgroup.Group
	g.SetLimit(max(p.Workers, 1))
	for i := range jobs {
		g.Go(func() error {
			results[i] = p.processJob(ctx, jobs[i])
			report()
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (p *Pool) processJob(ctx context.Context, job Job) (res JobResult) {
	start := time.Now()
	res.Job = job
	defer func() { res.Duration = time.Since(start) }()

	switch {
	case job.SkipReason != "":
		res.Skipped, res.SkipReason = true, job.SkipReason
	case ctx.Err() != nil:
		res.Error = ctx.Err()
	case p.Transcoder == nil:
		res.Attempts, res.Error = 1, errors.New("dönüştürücü tanımlı değil")
	default:
		res.Attempts, res.Error = p.runWithRetry(ctx, job)
		if res.Error == nil {
			res.Success = true
			if info, err := os.Stat(job.Export.Output); err == nil {
				res.OutputSize = info.Size()
			}
		}
	}
	return res
}

// runWithRetry işi en fazla RetryMax+1 kez dener ve deneme sayısını döner.
// Boş düzenleme ve iptal tekrar denenince düzelmediği için hemen döner.
func (p *Pool) runWithRetry(ctx context.Context, job Job) (int, error) {
	var notify export.StatusFunc
	if p.OnStatus != nil {
		notify = func(status export.Status, message string) {
			p.OnStatus(job, status, message)
		}
	}

	var err error
	for attempt := 1; ; attempt++ {
		if err = export.Run(ctx, p.Transcoder, job.Export, notify); err == nil {
			return attempt, nil
		}
		if errors.Is(err, export.ErrNoSegments) || ctx.Err() != nil || attempt > p.RetryMax {
			return attempt, err
		}
		if p.RetryDelay > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(p.RetryDelay):
			}
		}
	}
}

// Summary toplu iş sonuçlarını özetler
type Summary struct {
	Total     int
	Succeeded int
	Skipped   int
	Failed    int
	Duration  time.Duration
	Errors    []JobError
}

// JobError başarısız olan bir işin hata bilgisi
type JobError struct {
	InputFile string
	Error     string
	Attempts  int
}

// GetSummary iş sonuçlarından özet oluşturur
func GetSummary(results []JobResult, totalDuration time.Duration) Summary {
	s := Summary{
		Total:    len(results),
		Duration: totalDuration,
	}

	for _, r := range results {
		switch {
		case r.Success:
			s.Succeeded++
		case r.Skipped:
			s.Skipped++
		default:
			s.Failed++
			msg := "bilinmeyen hata"
			if r.Error != nil {
				msg = r.Error.Error()
			}
			s.Errors = append(s.Errors, JobError{
				InputFile: r.Job.Export.Input,
				Error:     msg,
				Attempts:  r.Attempts,
			})
		}
	}

	return s
}

// CollectVideos dizindeki video dosyalarını toplar. format boşsa tüm
// desteklenen video uzantıları kabul edilir.
func CollectVideos(dir, format string, recursive bool) ([]string, error) {
	format = media.NormalizeFormat(format)
	var files []string

	walkFn := func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if !recursive && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if format == "" && media.IsVideoFile(path) || format != "" && media.DetectFormat(path) == format {
			files = append(files, path)
		}
		return nil
	}

	if err := filepath.WalkDir(dir, walkFn); err != nil {
		return nil, fmt.Errorf("dizin taranamadı: %w", err)
	}
	return files, nil
}
