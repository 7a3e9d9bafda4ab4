package cli

import (
	"fmt"

	"github.com/pfrederiksen/odense-concerts/internal/scraper"
	"github.com/spf13/cobra"
)

func newSourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List the venue sources in the order they are fetched",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, name := range scraper.Names() {
				if cfg.SourceEnabled(name) {
					fmt.Fprintln(w, name)
				} else {
					fmt.Fprintf(w, "%s (disabled)\n", name)
				}
			}
			return nil
		},
	}
}
