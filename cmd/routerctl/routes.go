package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List declared routes, thresholds and wired handlers",
	Args:  cobra.NoArgs,
	RunE:  runRoutes,
}

func init() {
	rootCmd.AddCommand(routesCmd)
}

func runRoutes(cmd *cobra.Command, _ []string) error {
	app, err := openWarmApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	out, err := app.UseCase.Routes(cmd.Context())
	if err != nil {
		return err
	}
	if flagJSON {
		return printJSON(cmd.OutOrStdout(), out)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ROUTE\tUTTERANCES\tTHRESHOLD\tHANDLER\tDEFAULT")
	for _, r := range out.Routes {
		fmt.Fprintf(tw, "%s\t%d\t%.2f\t%s\t%s\n", r.Name, r.Utterances, r.Threshold, yesNo(r.HasHandler), yesNo(r.IsDefault))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d entries indexed\n", out.IndexSize)
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "-"
}
