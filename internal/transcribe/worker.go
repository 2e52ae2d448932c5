package transcribe

import (
	"bufio"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"sync"
)

// Worker protokolü satır başına bir JSON mesajdır.
//
//	istek:  {"id":1,"type":"transcribe","payload":{...}}
//	yanıt:  {"id":1,"ok":true,"type":"transcribe","payload":{"segments":[...]}}
//	hata:   {"id":1,"ok":false,"error":"..."}
type workerRequest struct {
	ID      int64  `json:"id"`
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

type workerResponse struct {
	ID      int64           `json:"id"`
	OK      bool            `json:"ok"`
	Type    string          `json:"type,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Error   string          `json:"error,omitempty"`
}

type transcribePayload struct {
	SampleRate int     `json:"sample_rate"`
	PCM        string  `json:"pcm"` // base64 f32le
	Options    Options `json:"options"`
}

// DialFunc worker bağlantısını açar. Varsayılan uygulama süreci başlatır.
type DialFunc func() (io.WriteCloser, io.ReadCloser, error)

// WorkerTranscriber uzun ömürlü bir tanıma sürecine stdin/stdout üzerinden
// JSON satırlarıyla konuşur. Süreç ilk istekte başlatılır, koparsa bir
// sonraki istekte yeniden başlatılır.
type WorkerTranscriber struct {
	Dial   DialFunc
	Logger *slog.Logger

	guard busyGuard

	mu      sync.Mutex
	stdin   io.WriteCloser
	enc     *json.Encoder
	pending map[int64]chan workerResponse
	nextID  int64
	gen     int
	alive   bool
}

// NewWorkerTranscriber verilen komutu worker süreci olarak kullanan tanıyıcı döner.
func NewWorkerTranscriber(command string, args []string, logger *slog.Logger) *WorkerTranscriber {
	return &WorkerTranscriber{
		Dial:   processDialer(command, args),
		Logger: logger,
	}
}

func processDialer(command string, args []string) DialFunc {
	return func() (io.WriteCloser, io.ReadCloser, error) {
		if command == "" {
			return nil, nil, errors.New("worker komutu tanımlı değil")
		}
		cmd := exec.Command(command, args...)
		stdin, err := cmd.StdinPipe()
		if err != nil {
			return nil, nil, err
		}
		stdout, err := cmd.StdoutPipe()
		if err != nil {
			return nil, nil, err
		}
		if err := cmd.Start(); err != nil {
			return nil, nil, err
		}
		go cmd.Wait()
		return stdin, stdout, nil
	}
}

// Init worker'ı başlatır ve modeli önceden yüklemesini ister.
func (w *WorkerTranscriber) Init(ctx context.Context) error {
	release, err := w.guard.enter()
	if err != nil {
		return err
	}
	defer release()
	_, err = w.call(ctx, "init", nil)
	return err
}

// Transcribe PCM örneklerini worker'a gönderir ve segmentleri döndürür.
func (w *WorkerTranscriber) Transcribe(ctx context.Context, pcm []float32, opts Options) ([]Segment, error) {
	release, err := w.guard.enter()
	if err != nil {
		return nil, err
	}
	defer release()

	payload := transcribePayload{
		SampleRate: SampleRate,
		PCM:        base64.StdEncoding.EncodeToString(EncodeF32LE(pcm)),
		Options:    opts,
	}
	resp, err := w.call(ctx, "transcribe", payload)
	if err != nil {
		return nil, err
	}
	return normalizeResult(resp.Payload)
}

// Close worker'ın stdin'ini kapatır; süreç kendiliğinden sonlanmalıdır.
func (w *WorkerTranscriber) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stdin == nil {
		return nil
	}
	err := w.stdin.Close()
	w.stdin = nil
	w.alive = false
	return err
}

func (w *WorkerTranscriber) call(ctx context.Context, typ string, payload any) (workerResponse, error) {
	ch, id, err := w.send(typ, payload)
	if err != nil {
		return workerResponse{}, err
	}

	select {
	case <-ctx.Done():
		w.forget(id)
		return workerResponse{}, ctx.Err()
	case resp, ok := <-ch:
		if !ok {
			return workerResponse{}, ErrWorkerUnavailable
		}
		if !resp.OK {
			msg := resp.Error
			if msg == "" {
				msg = "bilinmeyen worker hatası"
			}
			return workerResponse{}, fmt.Errorf("worker %s hatası: %s", typ, msg)
		}
		return resp, nil
	}
}

func (w *WorkerTranscriber) send(typ string, payload any) (chan workerResponse, int64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.alive {
		if err := w.connectLocked(); err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrWorkerUnavailable, err)
		}
	}

	w.nextID++
	id := w.nextID
	ch := make(chan workerResponse, 1)
	w.pending[id] = ch

	if err := w.enc.Encode(workerRequest{ID: id, Type: typ, Payload: payload}); err != nil {
		delete(w.pending, id)
		w.alive = false
		return nil, 0, fmt.Errorf("%w: %v", ErrWorkerUnavailable, err)
	}
	return ch, id, nil
}

func (w *WorkerTranscriber) connectLocked() error {
	if w.Dial == nil {
		return errors.New("worker bağlantısı tanımlı değil")
	}
	stdin, stdout, err := w.Dial()
	if err != nil {
		return err
	}
	w.stdin = stdin
	w.enc = json.NewEncoder(stdin)
	w.pending = make(map[int64]chan workerResponse)
	w.alive = true
	w.gen++
	go w.readLoop(stdout, w.pending, w.gen)
	return nil
}

func (w *WorkerTranscriber) readLoop(r io.ReadCloser, pending map[int64]chan workerResponse, gen int) {
	defer r.Close()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 64*1024*1024)
	for scanner.Scan() {
		var resp workerResponse
		if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
			w.logger().Warn("worker satırı çözülemedi", "error", err)
			continue
		}
		w.mu.Lock()
		ch, ok := pending[resp.ID]
		if ok {
			delete(pending, resp.ID)
		}
		w.mu.Unlock()
		if ok {
			ch <- resp
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	for id, ch := range pending {
		close(ch)
		delete(pending, id)
	}
	// Aynı bağlantıya aitse durumu düşür; yeniden bağlantı kurulmuş olabilir.
	if w.gen == gen {
		w.alive = false
	}
	if err := scanner.Err(); err != nil {
		w.logger().Warn("worker bağlantısı koptu", "error", err)
	}
}

func (w *WorkerTranscriber) forget(id int64) {
	w.mu.Lock()
	delete(w.pending, id)
	w.mu.Unlock()
}

func (w *WorkerTranscriber) logger() *slog.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return slog.Default()
}
