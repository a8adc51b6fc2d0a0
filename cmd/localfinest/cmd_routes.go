package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Fritte91/247LocalFinest/internal/api"
	"github.com/Fritte91/247LocalFinest/internal/core/session"
)

// localfinest routes: print every registered route.
var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List all registered routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		e := api.NewRouter(api.Deps{
			Sessions: session.NewManager(session.NewMemoryBridge(), zerolog.Nop()),
			Log:      zerolog.Nop(),
		})

		routes := e.Routes()
		sort.Slice(routes, func(i, j int) bool {
			if routes[i].Path != routes[j].Path {
				return routes[i].Path < routes[j].Path
			}
			return routes[i].Method < routes[j].Method
		})

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH")
		for _, r := range routes {
			if r.Method == "echo_route_not_found" {
				continue
			}
			fmt.Fprintf(w, "%s\t%s\n", r.Method, r.Path)
		}
		return w.Flush()
	},
}
