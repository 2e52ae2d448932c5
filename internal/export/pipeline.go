package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Status dışa aktarma sürecinin kullanıcıya gösterilen durumudur.
type Status string

const (
	StatusPreparing  Status = "preparing"
	StatusProcessing Status = "processing"
	StatusDone       Status = "done"
	StatusError      Status = "error"
)

// StatusFunc her durum değişiminde çağrılır.
type StatusFunc func(status Status, message string)

// Run işi doğrular, çıktı dizinini hazırlar ve dönüştürücüyü çalıştırır.
// Durum mesajları notify ile sırayla bildirilir; notify nil olabilir.
// Dönüştürücü hatası yeniden denenmez.
func Run(ctx context.Context, t Transcoder, job Job, notify StatusFunc) error {
	if notify == nil {
		notify = func(Status, string) {}
	}

	notify(StatusPreparing, "Dışa aktarma hazırlanıyor...")
	if len(usableSegments(job.Segments)) == 0 {
		notify(StatusError, "Hata: "+ErrNoSegments.Error())
		return ErrNoSegments
	}
	if err := os.MkdirAll(filepath.Dir(job.Output), 0755); err != nil {
		err = fmt.Errorf("çıktı dizini oluşturulamadı: %w", err)
		notify(StatusError, "Hata: "+err.Error())
		return err
	}

	notify(StatusProcessing, fmt.Sprintf("Video işleniyor (%d segment)... bu işlem birkaç dakika sürebilir", len(job.Segments)))
	if err := t.Transcode(ctx, job); err != nil {
		msg := err.Error()
		var te *TranscodeError
		if errors.As(err, &te) {
			msg = te.Stage + " aşamasında ffmpeg hatası"
		}
		notify(StatusError, "Hata: "+msg)
		return err
	}

	notify(StatusDone, "Dışa aktarma başarıyla tamamlandı!")
	return nil
}
