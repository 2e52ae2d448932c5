package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mlihgenel/videocut-cli/internal/ui"
)

const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
)

func NormalizeOutputFormat(format string) string {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", OutputFormatText:
		return OutputFormatText
	case OutputFormatJSON:
		return OutputFormatJSON
	default:
		return ""
	}
}

// addOutputFormatFlag komuta --output-format bayrağını ekler.
func addOutputFormatFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVar(target, "output-format", OutputFormatText, "Çıktı formatı: text veya json")
}

// resolveOutputFormat bayrak değerini doğrular; json ise true döner.
func resolveOutputFormat(format string) (bool, error) {
	normalized := NormalizeOutputFormat(format)
	if normalized == "" {
		return false, fmt.Errorf("gecersiz output-format: %s (text|json)", format)
	}
	return normalized == OutputFormatJSON, nil
}

func printJSON(payload any) error {
	enc := json.NewEncoder(ui.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
