package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/specdock/specdock/internal/spec"
)

func newSpecsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "specs",
		Short: "List OpenAPI specifications found in the spec directory",
		Example: strings.TrimSpace(`  specdock specs --specs-dir ./api-specs
  specdock specs --endpoints`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			registry := spec.NewRegistry(cfg.APISpecs.BasePath, logger)
			if err := registry.Load(cmd.Context()); err != nil {
				return err
			}

			showEndpoints, _ := cmd.Flags().GetBool("endpoints")
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tVERSION\tENDPOINTS")
			for _, s := range registry.List() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", s.ID, s.Title, s.Version, s.EndpointCount)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if !showEndpoints {
				return nil
			}
			for _, doc := range registry.Docs() {
				fmt.Fprintf(cmd.OutOrStdout(), "\n%s:\n", doc.ID)
				for _, ep := range doc.Endpoints {
					fmt.Fprintf(cmd.OutOrStdout(), "  %-7s %s\n", ep.Method, ep.Path)
				}
			}
			return nil
		},
	}

	addDirFlags(cmd.Flags())
	cmd.Flags().Bool("endpoints", false, "Also list every endpoint per spec")
	return cmd
}
