package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vango-dev/waypoint/internal/config"
	"github.com/vango-dev/waypoint/internal/errors"
	"github.com/vango-dev/waypoint/pkg/router"
)

func lintCmd() *cobra.Command {
	var (
		manifest string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "lint [PATTERN...]",
		Short: "Report pattern fragments the compiler drops",
		Long: `Check route patterns, or every route of a manifest, for fragments that
compile to nothing:

  W101  empty parameter, as in a/{}/b
  W102  dot run other than "...", as in a/../b
  W103  text after the wildcard, as in docs/.../edit
  W104  route shadowed by an earlier route of the same shape

A manifest is also validated. The command fails when any diagnostic
is reported.

Examples:
  waypoint lint "a/{}/b" docs/...
  waypoint lint --manifest ./site`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			var diags errors.List
			if manifest != "" {
				cfg, err := config.Open(cmd.Context(), manifest, nil)
				if err != nil {
					return err
				}
				if err := cfg.Validate(); err != nil {
					return err
				}
				diags = cfg.Lint()
			} else {
				if len(args) == 0 {
					return fmt.Errorf("lint needs patterns or --manifest")
				}
				diags = lintPatterns(args)
			}

			printDiagnostics(out, diags, asJSON)

			if len(diags) > 0 {
				return errors.New("E402").
					WithDetail(fmt.Sprintf("%d diagnostic(s) reported", len(diags)))
			}
			if !asJSON {
				success(out, "no diagnostics")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&manifest, "manifest", "m", "", "Manifest directory, file or s3:// URI")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print diagnostics as JSON lines")

	return cmd
}

func lintPatterns(patterns []string) errors.List {
	var diags errors.List
	for _, pattern := range patterns {
		if err := router.Lint(pattern); err != nil {
			if list, ok := err.(errors.List); ok {
				diags = append(diags, list...)
			}
		}
	}
	return diags
}

func printDiagnostics(out io.Writer, diags errors.List, asJSON bool) {
	for _, d := range diags {
		if asJSON {
			fmt.Fprintln(out, d.FormatJSON())
			continue
		}
		fmt.Fprint(out, d.Format())
	}
}
