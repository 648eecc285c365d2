package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/waypoint/internal/config"
	"github.com/vango-dev/waypoint/internal/errors"
	"github.com/vango-dev/waypoint/pkg/nav"
	"github.com/vango-dev/waypoint/pkg/router"
)

type matchResultJSON struct {
	Path      string            `json:"path"`
	Matched   bool              `json:"matched"`
	Pattern   string            `json:"pattern,omitempty"`
	View      string            `json:"view,omitempty"`
	Consumed  string            `json:"consumed,omitempty"`
	Params    map[string]string `json:"params,omitempty"`
	Remainder []string          `json:"remainder,omitempty"`
}

func matchCmd() *cobra.Command {
	var (
		manifest string
		then     []string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "match PATH [PATTERN...]",
		Short: "Match a path against route patterns",
		Long: `Match PATH against the given patterns, or against the routes of a
manifest, and print the first match in order.

With --then, the path is treated as the starting location and each
following path is navigated to in turn, printing the match after
every navigation.

Examples:
  waypoint match /users/7 users/{id} docs/...
  waypoint match /docs --manifest ./site --then /docs/intro --then /users/1`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			routes, err := matchRoutes(cmd.Context(), manifest, args[1:])
			if err != nil {
				return err
			}
			return runMatch(cmd.OutOrStdout(), routes, args[0], then, asJSON)
		},
	}

	cmd.Flags().StringVarP(&manifest, "manifest", "m", "", "Manifest directory, file or s3:// URI")
	cmd.Flags().StringArrayVar(&then, "then", nil, "Navigate to this path afterwards (repeatable)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print results as JSON")

	return cmd
}

// matchRoutes builds routes from the manifest when given, otherwise from
// the patterns. Pattern routes resolve to their own pattern.
func matchRoutes(ctx context.Context, manifest string, patterns []string) (router.Routes, error) {
	if manifest != "" {
		if ctx == nil {
			ctx = context.Background()
		}
		cfg, err := config.Open(ctx, manifest, nil)
		if err != nil {
			return nil, err
		}
		return cfg.BuildRoutes(), nil
	}

	if len(patterns) == 0 {
		return nil, errors.New("E401").
			WithDetail("No patterns given").
			WithSuggestion("Pass patterns after the path or use --manifest")
	}

	routes := make(router.Routes, 0, len(patterns))
	for _, p := range patterns {
		pattern := p
		routes = append(routes, router.NewRoute(pattern, func() router.View { return pattern }))
	}
	return routes, nil
}

func runMatch(out io.Writer, routes router.Routes, start string, then []string, asJSON bool) error {
	state := nav.New(nav.NewMemoryHost(start), nav.WithLogger(discardLogger()))
	outlet := nav.NewOutlet(state, routes)
	defer outlet.Close()

	var results []matchResultJSON
	record := func(path string) {
		results = append(results, matchResult(path, outlet.Current()))
	}

	record(start)
	for _, path := range then {
		state.Goto(path)
		record(path)
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	} else {
		for _, res := range results {
			printMatch(out, res)
		}
	}

	var unmatched []string
	for _, res := range results {
		if !res.Matched {
			unmatched = append(unmatched, res.Path)
		}
	}
	if len(unmatched) > 0 {
		return errors.New("E401").WithDetail("Unmatched: " + strings.Join(unmatched, ", "))
	}
	return nil
}

func matchResult(path string, m *router.RouteMatch) matchResultJSON {
	res := matchResultJSON{Path: path}
	if m == nil {
		return res
	}

	res.Matched = true
	res.Consumed = m.Path()
	res.Params = m.Params()
	res.Remainder = m.Remainder()
	if r := m.Route(); r != nil {
		res.Pattern = r.Pattern()
	}
	if v := m.Resolve(); v != nil {
		res.View = fmt.Sprint(v)
	}
	return res
}

func printMatch(out io.Writer, res matchResultJSON) {
	if !res.Matched {
		errorMsg(out, "%s matched no route", res.Path)
		return
	}

	success(out, "%s matched %s", res.Path, res.Pattern)
	info(out, "view:      %s", res.View)
	info(out, "consumed:  %s", res.Consumed)

	if len(res.Params) == 0 {
		info(out, "params:    (none)")
	} else {
		names := make([]string, 0, len(res.Params))
		for name := range res.Params {
			names = append(names, name)
		}
		sort.Strings(names)
		pairs := make([]string, len(names))
		for i, name := range names {
			pairs[i] = name + "=" + res.Params[name]
		}
		info(out, "params:    %s", strings.Join(pairs, " "))
	}

	if len(res.Remainder) == 0 {
		info(out, "remainder: (none)")
	} else {
		info(out, "remainder: %s", router.JoinPath(res.Remainder))
	}
}
