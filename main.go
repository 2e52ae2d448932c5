package main

import (
	"fmt"
	"os"

	"github.com/mlihgenel/videocut-cli/cmd"
)

var (
	version = "1.0.0"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cmd.SetVersionInfo(version, commit, date)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Hata: %s\n", err.Error())
		os.Exit(1)
	}
}
