package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"intent-router/internal/model"
)

var routeCmd = &cobra.Command{
	Use:   "route <query>",
	Short: "Print the routing decision for a query without answering it",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRoute,
}

func init() {
	rootCmd.AddCommand(routeCmd)
}

func runRoute(cmd *cobra.Command, args []string) error {
	app, err := openWarmApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	decision, err := app.Router.Route(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return err
	}
	if flagJSON {
		return printJSON(cmd.OutOrStdout(), decision)
	}
	printDecision(cmd.OutOrStdout(), decision)
	return nil
}

func printDecision(w io.Writer, d model.RouteDecision) {
	switch {
	case d.Matched():
		fmt.Fprintf(w, "route:      %s\n", d.RouteName)
	case d.HasConfidence():
		fmt.Fprintf(w, "route:      (none, best was %s)\n", d.BestRoute)
	default:
		fmt.Fprintln(w, "route:      (none, index returned no hits)")
	}
	fmt.Fprintf(w, "confidence: %.4f\n", d.Confidence)
	fmt.Fprintf(w, "threshold:  %.2f\n", d.Threshold)
	for _, h := range d.Hits {
		fmt.Fprintf(w, "  %.4f  %-10s %s\n", h.Score, h.RouteName, h.Utterance)
	}
}
