package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/specdock/specdock/internal/codegen"
	"github.com/specdock/specdock/internal/spec"
)

func newExampleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "example",
		Short: "Generate a code example for one endpoint",
		Long: "Generate a ready-to-use code example for calling an endpoint, printed to stdout. " +
			"The same generator backs the get_api_code_example MCP tool.",
		Example: strings.TrimSpace(`  specdock example --spec petstore --path /pets/{petId} --method GET
  specdock example --spec petstore --path /pets --method POST --lang python`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := resolveConfig(cmd)
			if err != nil {
				return err
			}

			specID, _ := cmd.Flags().GetString("spec")
			path, _ := cmd.Flags().GetString("path")
			method, _ := cmd.Flags().GetString("method")
			language, _ := cmd.Flags().GetString("lang")
			if specID == "" || path == "" || method == "" {
				return newUsageError("example: --spec, --path, and --method are required")
			}

			registry := spec.NewRegistry(cfg.APISpecs.BasePath, logger)
			if err := registry.Load(cmd.Context()); err != nil {
				return err
			}
			doc, err := registry.Get(specID)
			if err != nil {
				return err
			}
			ep, err := doc.Endpoint(path, spec.HTTPMethod(strings.ToUpper(method)))
			if err != nil {
				return err
			}

			example, err := codegen.Generate(doc.Integration(), ep, language)
			if err != nil {
				if errors.Is(err, codegen.ErrUnsupportedLanguage) {
					return newUsageError(fmt.Sprintf("example: %v", err))
				}
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, example.Code)
			for _, note := range example.Notes {
				fmt.Fprintf(cmd.ErrOrStderr(), "note: %s\n", note)
			}
			return nil
		},
	}

	addDirFlags(cmd.Flags())
	flags := cmd.Flags()
	flags.String("spec", "", "Specification identifier (filename without extension)")
	flags.String("path", "", "Endpoint path, e.g. /users/{id}")
	flags.String("method", "", "HTTP method")
	flags.String("lang", "typescript", "Target language (typescript|javascript|python)")
	return cmd
}
