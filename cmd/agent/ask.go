package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [consulta]",
	Short: "Responde una sola consulta y termina",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func runAsk(cmd *cobra.Command, args []string) error {
	orch, st, err := newCLIOrchestrator()
	if err != nil {
		return err
	}
	defer st.Close()

	query := strings.Join(args, " ")
	resp := orch.Process(cmd.Context(), query)
	fmt.Fprintln(cmd.OutOrStdout(), resp.Answer)
	return nil
}
