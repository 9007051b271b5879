package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Sesión interactiva de consultas",
	Args:  cobra.NoArgs,
	RunE:  runREPL,
}

func runREPL(cmd *cobra.Command, _ []string) error {
	orch, st, err := newCLIOrchestrator()
	if err != nil {
		return err
	}
	defer st.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "🌱 Agente agrícola del Casanare. Escribe tu consulta o 'salir' para terminar.")

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "\n> ")
		if !scanner.Scan() {
			break
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if strings.EqualFold(query, "salir") {
			fmt.Fprintln(out, "👋 ¡Hasta pronto!")
			return nil
		}

		resp := orch.Process(cmd.Context(), query)
		fmt.Fprintln(out, resp.Answer)
	}
	return scanner.Err()
}
