package export

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/mlihgenel/videocut-cli/internal/timeline"
)

// GenerateEDL korunan segmentler için CMX 3600 formatında bir edit decision
// list üretir. Kayıt zaman kodları segmentlerin art arda eklenmesiyle ilerler.
func GenerateEDL(segments []timeline.Range, title, mediaPath string, frameRate float64) string {
	fps := int(math.Round(frameRate))
	if fps <= 0 {
		fps = 30
	}

	// Zaman kodları ':' ayraçlı ve düşürmesiz sayılır; 29.97 fps de dahil.
	lines := []string{fmt.Sprintf("TITLE: %s", title), "FCM: NON-DROP FRAME", ""}

	clipName := strings.TrimSuffix(filepath.Base(mediaPath), filepath.Ext(mediaPath))
	recordMs := 0
	for i, seg := range usableSegments(segments) {
		startMs := secondsToMs(seg.Start)
		endMs := secondsToMs(seg.End)
		lengthMs := endMs - startMs

		lines = append(lines,
			fmt.Sprintf("%03d  %-8s %-5s C        %s %s %s %s", i+1, "AX", "B",
				msToTimecode(startMs, fps), msToTimecode(endMs, fps),
				msToTimecode(recordMs, fps), msToTimecode(recordMs+lengthMs, fps)),
			fmt.Sprintf("* FROM CLIP NAME:  %s", clipName),
			fmt.Sprintf("* SOURCE FILE:  %s", mediaPath),
		)
		recordMs += lengthMs
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func secondsToMs(s float64) int {
	return int(math.Round(s * 1000))
}

func msToTimecode(ms int, fps int) string {
	totalFrames := int(math.Round(float64(ms) * float64(fps) / 1000.0))
	frames := totalFrames % fps
	totalSeconds := totalFrames / fps
	seconds := totalSeconds % 60
	totalMinutes := totalSeconds / 60
	minutes := totalMinutes % 60
	hours := totalMinutes / 60
	return fmt.Sprintf("%02d:%02d:%02d:%02d", hours, minutes, seconds, frames)
}
