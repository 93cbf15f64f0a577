package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/samuelfneumann/envies/environment"
	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// NewListCommand creates the list command
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the configured environments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := rootOpts.registry()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tENVIRONMENT\tKWARGS")
			for _, name := range registry.Names() {
				config := registry[name]
				fmt.Fprintf(w, "%v\t%v\t%v\n", name, config.Environment,
					formatKwargs(config.Kwargs))
			}
			return w.Flush()
		},
	}
}

// formatKwargs formats kw with sorted keys
func formatKwargs(kw environment.Kwargs) string {
	keys := maps.Keys(kw)
	slices.Sort(keys)

	s := ""
	for i, k := range keys {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("%v=%v", k, kw[k])
	}
	if s == "" {
		return "-"
	}
	return s
}
