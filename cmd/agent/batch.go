package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/liwaisi-tech/agriculture-agent-liwaisi/internal/domain"
)

var batchOutputPath string

var batchCmd = &cobra.Command{
	Use:   "batch [archivo]",
	Short: "Procesa un archivo de consultas, una por línea",
	Args:  cobra.ExactArgs(1),
	RunE:  runBatch,
}

func init() {
	batchCmd.Flags().StringVarP(&batchOutputPath, "output", "o", "", "archivo de resumen JSON Lines (opcional)")
}

// batchRecord is one line of the JSON Lines summary file.
type batchRecord struct {
	Query      string           `json:"query"`
	Answer     string           `json:"answer"`
	QueryType  domain.QueryType `json:"type"`
	Confidence float64          `json:"confidence"`
}

func runBatch(cmd *cobra.Command, args []string) error {
	in, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer in.Close()

	var summary *json.Encoder
	if batchOutputPath != "" {
		out, err := os.Create(batchOutputPath)
		if err != nil {
			return err
		}
		defer out.Close()
		summary = json.NewEncoder(out)
	}

	orch, st, err := newCLIOrchestrator()
	if err != nil {
		return err
	}
	defer st.Close()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}

		resp := orch.Process(cmd.Context(), query)
		fmt.Fprintf(cmd.OutOrStdout(), "❓ %s\n%s\n\n", query, resp.Answer)

		if summary != nil {
			rec := batchRecord{
				Query:      query,
				Answer:     resp.Answer,
				QueryType:  resp.QueryType,
				Confidence: resp.Confidence,
			}
			if err := summary.Encode(rec); err != nil {
				return fmt.Errorf("write summary: %w", err)
			}
		}
	}
	return scanner.Err()
}
