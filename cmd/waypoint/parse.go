package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/waypoint/pkg/router"
)

type segmentJSON struct {
	Kind  string `json:"kind"`
	Value string `json:"value,omitempty"`
}

type parseResultJSON struct {
	Pattern   string        `json:"pattern"`
	Canonical string        `json:"canonical"`
	Segments  []segmentJSON `json:"segments"`
}

func parseCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "parse PATTERN...",
		Short: "Show the compiled segments of route patterns",
		Long: `Compile each pattern and print its segments and canonical form.

Fragments the compiler drops (empty parameters, dot runs other than
"...", anything after the wildcard) are simply absent; use
"waypoint lint" to report them.

Examples:
  waypoint parse users/{id}
  waypoint parse --json "a/{}/b" docs/...`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			results := make([]parseResultJSON, 0, len(args))
			for _, pattern := range args {
				segments := router.Parse(pattern)

				res := parseResultJSON{
					Pattern:   pattern,
					Canonical: router.Compile(segments),
					Segments:  make([]segmentJSON, 0, len(segments)),
				}
				for _, seg := range segments {
					res.Segments = append(res.Segments, segmentJSON{
						Kind:  seg.Kind().String(),
						Value: seg.Value(),
					})
				}
				results = append(results, res)
			}

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}

			for _, res := range results {
				fmt.Fprintf(out, "%s -> %q\n", res.Pattern, res.Canonical)
				if len(res.Segments) == 0 {
					info(out, "(no segments)")
				}
				for i, seg := range res.Segments {
					info(out, "%d  %-8s %s", i, seg.Kind, seg.Value)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print results as JSON")

	return cmd
}
