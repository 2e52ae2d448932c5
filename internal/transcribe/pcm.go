package transcribe

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/mlihgenel/videocut-cli/internal/media"
)

// ExtractPCM ffmpeg ile medyanın ses izini 16 kHz mono float32 örneklere çevirir.
func ExtractPCM(ctx context.Context, run media.Runner, ffmpegPath, input string) ([]float32, error) {
	if run == nil {
		run = media.ExecRunner
	}
	dir, err := os.MkdirTemp("", "videocut-pcm-*")
	if err != nil {
		return nil, fmt.Errorf("geçici klasör oluşturulamadı: %w", err)
	}
	defer os.RemoveAll(dir)

	raw := filepath.Join(dir, "audio.f32")
	out, err := run(ctx, ffmpegPath,
		"-loglevel", "error",
		"-i", input,
		"-vn",
		"-ac", "1",
		"-ar", strconv.Itoa(SampleRate),
		"-f", "f32le",
		"-y", raw,
	)
	if err != nil {
		return nil, fmt.Errorf("ses çıkarılamadı: %w\n%s", err, string(out))
	}

	f, err := os.Open(raw)
	if err != nil {
		return nil, fmt.Errorf("ses verisi okunamadı: %w", err)
	}
	defer f.Close()
	return DecodeF32LE(f)
}

// DecodeF32LE little-endian float32 örnek akışını çözer.
func DecodeF32LE(r io.Reader) ([]float32, error) {
	br := bufio.NewReader(r)
	var pcm []float32
	var buf [4]byte
	for {
		_, err := io.ReadFull(br, buf[:])
		if err == io.EOF {
			return pcm, nil
		}
		if err != nil {
			return nil, fmt.Errorf("eksik örnek verisi: %w", err)
		}
		pcm = append(pcm, math.Float32frombits(binary.LittleEndian.Uint32(buf[:])))
	}
}

// EncodeF32LE örnekleri little-endian float32 olarak yazar.
func EncodeF32LE(pcm []float32) []byte {
	out := make([]byte, 4*len(pcm))
	for i, v := range pcm {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}

// WriteWAV örnekleri 16-bit PCM mono WAV olarak yazar.
func WriteWAV(w io.Writer, pcm []float32, sampleRate int) error {
	const bitsPerSample = 16
	dataSize := uint32(len(pcm) * 2)
	header := []any{
		[4]byte{'R', 'I', 'F', 'F'},
		uint32(36 + dataSize),
		[4]byte{'W', 'A', 'V', 'E'},
		[4]byte{'f', 'm', 't', ' '},
		uint32(16),
		uint16(1), // PCM
		uint16(1), // mono
		uint32(sampleRate),
		uint32(sampleRate * bitsPerSample / 8),
		uint16(bitsPerSample / 8),
		uint16(bitsPerSample),
		[4]byte{'d', 'a', 't', 'a'},
		dataSize,
	}
	for _, v := range header {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return err
		}
	}

	samples := make([]int16, len(pcm))
	for i, v := range pcm {
		v = float32(math.Max(-1, math.Min(1, float64(v))))
		samples[i] = int16(math.Round(float64(v) * math.MaxInt16))
	}
	return binary.Write(w, binary.LittleEndian, samples)
}
