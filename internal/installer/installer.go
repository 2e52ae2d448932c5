// Package installer harici araçların (ffmpeg, whisper.cpp) varlığını denetler
// ve paket yöneticisiyle kurulum komutlarını üretir.
package installer

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

const (
	ToolFFmpeg  = "ffmpeg"
	ToolWhisper = "whisper"
)

// InstallInfo kurulum bilgisini tutar
type InstallInfo struct {
	ToolName    string
	Command     string
	Args        []string
	Description string
	ManualURL   string
	Supported   bool // Otomatik kurulum destekleniyor mu
}

// ToolStatus bir aracın sistemdeki durumudur.
type ToolStatus struct {
	Tool     string   `json:"tool"`
	Binaries []string `json:"binaries"`
	Path     string   `json:"path,omitempty"`
	Found    bool     `json:"found"`
}

// LookPathFunc exec.LookPath imzasıdır; testlerde sahte arama verilir.
type LookPathFunc func(file string) (string, error)

type toolSpec struct {
	name      string
	manualURL string
	binaries  []string
	// paket yöneticisi -> paket adı
	packages map[string]string
}

var tools = map[string]toolSpec{
	ToolFFmpeg: {
		name:      "FFmpeg",
		manualURL: "https://ffmpeg.org/download.html",
		binaries:  []string{"ffmpeg", "ffprobe"},
		packages: map[string]string{
			"brew": "ffmpeg", "apt": "ffmpeg", "dnf": "ffmpeg", "yum": "ffmpeg",
			"pacman": "ffmpeg", "choco": "ffmpeg", "winget": "Gyan.FFmpeg",
		},
	},
	ToolWhisper: {
		name:      "whisper.cpp",
		manualURL: "https://github.com/ggml-org/whisper.cpp",
		binaries:  []string{"whisper-cli"},
		packages: map[string]string{
			"brew": "whisper-cpp", "pacman": "whisper.cpp",
		},
	},
}

// Tools denetlenen araçların adlarını döner.
func Tools() []string {
	return []string{ToolFFmpeg, ToolWhisper}
}

// DetectPackageManager mevcut paket yöneticisini tespit eder
func DetectPackageManager() string {
	return detectPackageManager(runtime.GOOS, exec.LookPath)
}

func detectPackageManager(goos string, lookPath LookPathFunc) string {
	var candidates []string
	switch goos {
	case "darwin":
		candidates = []string{"brew"}
	case "linux":
		candidates = []string{"apt", "dnf", "yum", "pacman", "brew"}
	case "windows":
		candidates = []string{"choco", "winget"}
	}
	for _, pm := range candidates {
		if _, err := lookPath(pm); err == nil {
			return pm
		}
	}
	return ""
}

// GetInstallInfo belirli bir araç için kurulum bilgilerini döner
func GetInstallInfo(toolName string) InstallInfo {
	return installInfo(toolName, DetectPackageManager())
}

func installInfo(toolName, pm string) InstallInfo {
	spec, ok := tools[strings.ToLower(strings.TrimSpace(toolName))]
	if !ok {
		return InstallInfo{ToolName: toolName}
	}
	info := InstallInfo{ToolName: spec.name, ManualURL: spec.manualURL}
	pkg, ok := spec.packages[pm]
	if !ok {
		return info
	}

	switch pm {
	case "brew":
		info.Command, info.Args = "brew", []string{"install", pkg}
	case "apt", "dnf", "yum":
		info.Command, info.Args = "sudo", []string{pm, "install", "-y", pkg}
	case "pacman":
		info.Command, info.Args = "sudo", []string{"pacman", "-S", "--noconfirm", pkg}
	case "choco":
		info.Command, info.Args = "choco", []string{"install", pkg, "-y"}
	case "winget":
		info.Command, info.Args = "winget", []string{"install", pkg}
	default:
		return info
	}
	info.Description = info.Command + " " + strings.Join(info.Args, " ")
	info.Supported = true
	return info
}

// InstallTool belirli bir aracı kurar
func InstallTool(ctx context.Context, toolName string) (string, error) {
	info := GetInstallInfo(toolName)

	if !info.Supported {
		return "", fmt.Errorf(
			"%s otomatik olarak kurulamıyor.\nManuel kurulum: %s",
			info.ToolName, info.ManualURL,
		)
	}

	cmd := exec.CommandContext(ctx, info.Command, info.Args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s kurulumu başarısız: %w", info.ToolName, err)
	}

	return info.Description, nil
}

// Check araçların ikili dosyalarını PATH'te arar. Bir araç ancak tüm
// ikilileri bulunursa hazır sayılır.
func Check(toolNames []string, lookPath LookPathFunc) []ToolStatus {
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	statuses := make([]ToolStatus, 0, len(toolNames))
	for _, name := range toolNames {
		spec, ok := tools[strings.ToLower(name)]
		if !ok {
			statuses = append(statuses, ToolStatus{Tool: name, Binaries: []string{name}})
			continue
		}
		st := ToolStatus{Tool: name, Binaries: spec.binaries, Found: true}
		for i, bin := range spec.binaries {
			path, err := lookPath(bin)
			if err != nil {
				st.Found = false
				break
			}
			if i == 0 {
				st.Path = path
			}
		}
		if !st.Found {
			st.Path = ""
		}
		statuses = append(statuses, st)
	}
	return statuses
}

// GetMissingToolNames eksik araçların isimlerini döner
func GetMissingToolNames(toolNames []string, lookPath LookPathFunc) []string {
	var missing []string
	for _, st := range Check(toolNames, lookPath) {
		if !st.Found {
			missing = append(missing, st.Tool)
		}
	}
	return missing
}
