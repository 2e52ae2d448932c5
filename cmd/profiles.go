package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mlihgenel/videocut-cli/internal/profile"
	"github.com/mlihgenel/videocut-cli/internal/ui"
)

var profilesOutputFormat string

type profileView struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	Strategy      string `json:"strategy,omitempty"`
	Codec         string `json:"codec,omitempty"`
	Quality       *int   `json:"quality,omitempty"`
	OnConflict    string `json:"on_conflict,omitempty"`
	Report        string `json:"report,omitempty"`
	StripMetadata *bool  `json:"strip_metadata,omitempty"`
}

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Hazır dışa aktarma profillerini listeler",
	Long: `export --profile ile kullanılabilecek hazır ayar setlerini gösterir.
Profil yalnızca açıkça verilmemiş bayrakları doldurur.

Örnek:
  videocut profiles
  videocut export kayit.mp4 --remove "0-3" --profile precise --quality 90`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		isJSON, err := resolveOutputFormat(profilesOutputFormat)
		if err != nil {
			return err
		}

		views := make([]profileView, 0, len(profile.Names()))
		for _, name := range profile.Names() {
			p, _ := profile.Resolve(name)
			views = append(views, profileView(p))
		}
		if isJSON {
			return printJSON(views)
		}

		rows := make([][]string, 0, len(views))
		for _, v := range views {
			quality := "-"
			if v.Quality != nil {
				quality = strconv.Itoa(*v.Quality)
			}
			rows = append(rows, []string{v.Name, v.Strategy, v.Codec, quality, v.Report, v.Description})
		}
		fmt.Fprintln(ui.Out, "Hazır Profiller")
		ui.PrintTable([]string{"Profil", "Strateji", "Codec", "Kalite", "Rapor", "Açıklama"}, rows)
		return nil
	},
}

func init() {
	addOutputFormatFlag(profilesCmd, &profilesOutputFormat)
	rootCmd.AddCommand(profilesCmd)
}
