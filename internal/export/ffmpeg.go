package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mlihgenel/videocut-cli/internal/media"
	"github.com/mlihgenel/videocut-cli/internal/timeline"
)

// maxOutputBytes hata mesajında tutulan ffmpeg çıktısının son kısmı.
const maxOutputBytes = 8 * 1024

// FFmpegTranscoder segmentleri ffmpeg ile keser ve birleştirir.
//
// concat stratejisinde her segment geçici bir parçaya yazılır, ardından
// concat demuxer ile birleştirilir. Sonraki adımlar önceki adımların
// ürettiği dosyaları okuduğu için adımlar sırayla çalışır.
// filter stratejisinde tek bir trim/atrim + concat filtre grafiği kullanılır.
type FFmpegTranscoder struct {
	FFmpegPath string
	Strategy   string
	TempDir    string
	Run        media.Runner
	Logger     *slog.Logger
}

// NewFFmpegTranscoder sistemdeki ffmpeg ile çalışan bir dönüştürücü döner.
func NewFFmpegTranscoder(ffmpegPath, strategy string, logger *slog.Logger) (*FFmpegTranscoder, error) {
	path, err := media.FindFFmpeg(ffmpegPath)
	if err != nil {
		return nil, err
	}
	s := NormalizeStrategy(strategy)
	if s == "" {
		return nil, fmt.Errorf("gecersiz strateji: %s (concat|filter)", strategy)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FFmpegTranscoder{FFmpegPath: path, Strategy: s, Run: media.ExecRunner, Logger: logger}, nil
}

func (t *FFmpegTranscoder) Transcode(ctx context.Context, job Job) error {
	segments := usableSegments(job.Segments)
	if len(segments) == 0 {
		return ErrNoSegments
	}
	job.Segments = segments

	if NormalizeStrategy(t.Strategy) == StrategyFilter {
		return t.runFilter(ctx, job)
	}
	return t.runConcat(ctx, job)
}

func (t *FFmpegTranscoder) runConcat(ctx context.Context, job Job) error {
	tempDir, err := os.MkdirTemp(t.TempDir, "videocut-export-*")
	if err != nil {
		return fmt.Errorf("geçici klasör oluşturulamadı: %w", err)
	}
	defer os.RemoveAll(tempDir)

	ext := filepath.Ext(job.Input)
	if ext == "" {
		ext = ".mp4"
	}

	parts := make([]string, 0, len(job.Segments))
	for i, seg := range job.Segments {
		if err := ctx.Err(); err != nil {
			return err
		}
		partPath := filepath.Join(tempDir, fmt.Sprintf("part_%02d%s", i+1, ext))
		args := baseArgs(job.Verbose)
		args = append(args,
			"-i", job.Input,
			"-ss", formatSeconds(seg.Start),
			"-t", formatSeconds(seg.Len()),
			"-c", "copy",
		)
		args = append(args, audioArgs(job.VideoOnly)...)
		args = append(args, "-y", partPath)
		if err := t.exec(ctx, "segment", i, args); err != nil {
			return err
		}
		if hasContent(partPath) {
			parts = append(parts, partPath)
		}
	}
	if len(parts) == 0 {
		return ErrNoSegments
	}

	if len(parts) == 1 {
		args := baseArgs(job.Verbose)
		args = append(args, "-i", parts[0])
		args = append(args, codecArgs(job.Format(), job.Codec, job.Quality)...)
		args = append(args, audioArgs(job.VideoOnly)...)
		args = append(args, metadataArgs(job.StripMetadata)...)
		args = append(args, "-y", job.Output)
		return t.exec(ctx, "output", -1, args)
	}

	listPath := filepath.Join(tempDir, "concat.txt")
	var list strings.Builder
	for _, part := range parts {
		fmt.Fprintf(&list, "file '%s'\n", escapeConcatPath(part))
	}
	if err := os.WriteFile(listPath, []byte(list.String()), 0644); err != nil {
		return fmt.Errorf("concat listesi yazılamadı: %w", err)
	}

	args := baseArgs(job.Verbose)
	args = append(args, "-f", "concat", "-safe", "0", "-i", listPath)
	args = append(args, codecArgs(job.Format(), job.Codec, job.Quality)...)
	args = append(args, audioArgs(job.VideoOnly)...)
	args = append(args, metadataArgs(job.StripMetadata)...)
	args = append(args, "-y", job.Output)
	return t.exec(ctx, "concat", -1, args)
}

func (t *FFmpegTranscoder) runFilter(ctx context.Context, job Job) error {
	args := baseArgs(job.Verbose)
	args = append(args,
		"-i", job.Input,
		"-filter_complex", BuildFilterGraph(job.Segments, !job.VideoOnly),
		"-map", "[outv]",
	)
	if !job.VideoOnly {
		args = append(args, "-map", "[outa]")
	}
	args = append(args, reencodeArgs(job.Format(), job.Quality)...)
	args = append(args, metadataArgs(job.StripMetadata)...)
	args = append(args, "-y", job.Output)
	return t.exec(ctx, "filter", -1, args)
}

// BuildFilterGraph segmentler için trim + concat filtre grafiğini üretir.
func BuildFilterGraph(segments []timeline.Range, withAudio bool) string {
	var b strings.Builder
	var inputs strings.Builder
	for i, s := range segments {
		start, end := formatSeconds(s.Start), formatSeconds(s.End)
		fmt.Fprintf(&b, "[0:v]trim=start=%s:end=%s,setpts=PTS-STARTPTS[v%d];", start, end, i)
		fmt.Fprintf(&inputs, "[v%d]", i)
		if withAudio {
			fmt.Fprintf(&b, "[0:a]atrim=start=%s:end=%s,asetpts=PTS-STARTPTS[a%d];", start, end, i)
			fmt.Fprintf(&inputs, "[a%d]", i)
		}
	}
	b.WriteString(inputs.String())
	if withAudio {
		fmt.Fprintf(&b, "concat=n=%d:v=1:a=1[outv][outa]", len(segments))
	} else {
		fmt.Fprintf(&b, "concat=n=%d:v=1:a=0[outv]", len(segments))
	}
	return b.String()
}

func (t *FFmpegTranscoder) exec(ctx context.Context, stage string, segment int, args []string) error {
	run := t.Run
	if run == nil {
		run = media.ExecRunner
	}
	if t.Logger != nil {
		t.Logger.Debug("ffmpeg", "stage", stage, "segment", segment, "args", strings.Join(args, " "))
	}
	out, err := run(ctx, t.FFmpegPath, args...)
	if err != nil {
		return &TranscodeError{Stage: stage, Segment: segment, Output: tail(out), Err: err}
	}
	return nil
}

func baseArgs(verbose bool) []string {
	if verbose {
		return []string{}
	}
	return []string{"-loglevel", "error"}
}

// audioArgs ses izini çıkarır; parçalar sessizse son adım da sessiz kalır.
func audioArgs(videoOnly bool) []string {
	if videoOnly {
		return []string{"-an"}
	}
	return nil
}

func metadataArgs(strip bool) []string {
	if strip {
		return []string{"-map_metadata", "-1"}
	}
	return nil
}

func codecArgs(targetFormat, codec string, quality int) []string {
	if codec == CodecCopy {
		return []string{"-c", "copy"}
	}
	return reencodeArgs(targetFormat, quality)
}

func reencodeArgs(targetFormat string, quality int) []string {
	crf := qualityCRF(quality)

	switch media.NormalizeFormat(targetFormat) {
	case "webm":
		webmCRF := crf + 6
		if webmCRF > 40 {
			webmCRF = 40
		}
		return []string{
			"-c:v", "libvpx-vp9",
			"-crf", strconv.Itoa(webmCRF),
			"-b:v", "0",
			"-row-mt", "1",
			"-c:a", "libopus",
			"-b:a", "128k",
		}
	case "avi":
		return []string{
			"-c:v", "mpeg4",
			"-q:v", strconv.Itoa(qualityQScale(quality)),
			"-c:a", "mp3",
			"-b:a", "192k",
		}
	case "wmv":
		return []string{"-c:v", "wmv2", "-c:a", "wmav2"}
	case "flv":
		return []string{"-c:v", "flv", "-c:a", "mp3", "-ar", "44100"}
	case "mp4", "m4v", "mov":
		return []string{
			"-c:v", "libx264",
			"-crf", strconv.Itoa(crf),
			"-preset", "medium",
			"-pix_fmt", "yuv420p",
			"-movflags", "+faststart",
			"-c:a", "aac",
			"-b:a", "128k",
		}
	default: // mkv ve h264 uyumlu kapsayıcılar
		return []string{
			"-c:v", "libx264",
			"-crf", strconv.Itoa(crf),
			"-preset", "medium",
			"-pix_fmt", "yuv420p",
			"-c:a", "aac",
			"-b:a", "128k",
		}
	}
}

func qualityCRF(quality int) int {
	if quality <= 0 {
		return 23
	}
	switch {
	case quality <= 25:
		return 30
	case quality <= 50:
		return 27
	case quality <= 75:
		return 24
	default:
		return 20
	}
}

func qualityQScale(quality int) int {
	if quality <= 0 {
		return 5
	}
	switch {
	case quality <= 25:
		return 8
	case quality <= 50:
		return 6
	case quality <= 75:
		return 4
	default:
		return 2
	}
}

func formatSeconds(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func hasContent(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Size() > 0
}

func escapeConcatPath(path string) string {
	return strings.ReplaceAll(path, "'", "'\\''")
}

func tail(out []byte) string {
	if len(out) > maxOutputBytes {
		out = out[len(out)-maxOutputBytes:]
	}
	return string(out)
}
