package transcribe

import (
	"context"
	"errors"
	"log/slog"
)

// Fallback birincil tanıyıcı başarısız olursa ikincil tanıyıcıyı bir kez dener.
type Fallback struct {
	Primary   Transcriber
	Secondary Transcriber
	Logger    *slog.Logger

	guard busyGuard
}

func (f *Fallback) Transcribe(ctx context.Context, pcm []float32, opts Options) ([]Segment, error) {
	release, err := f.guard.enter()
	if err != nil {
		return nil, err
	}
	defer release()

	if f.Primary == nil {
		if f.Secondary == nil {
			return nil, ErrWorkerUnavailable
		}
		return f.Secondary.Transcribe(ctx, pcm, opts)
	}

	segs, err := f.Primary.Transcribe(ctx, pcm, opts)
	if err == nil || f.Secondary == nil || ctx.Err() != nil || errors.Is(err, ErrBusy) {
		return segs, err
	}

	logger := f.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Warn("birincil transkripsiyon başarısız, ikincil yol deneniyor", "error", err)
	return f.Secondary.Transcribe(ctx, pcm, opts)
}
