package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"intent-router/internal/assistant"
)

var askCmd = &cobra.Command{
	Use:   "ask <query>",
	Short: "Route a query and print the handler's answer",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	app, err := openWarmApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	out, err := app.UseCase.Ask(cmd.Context(), assistant.AskInput{Query: strings.Join(args, " ")})
	if err != nil {
		return err
	}
	if flagJSON {
		return printJSON(cmd.OutOrStdout(), out)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, out.Answer)
	if flagVerbose {
		fmt.Fprintf(w, "\n(outcome %s)\n", out.Outcome)
		printDecision(w, out.Decision)
	}
	return nil
}
