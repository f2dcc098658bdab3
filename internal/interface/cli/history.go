package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/westward-dev/westward/internal/domain/repository"
)

// historyRecord is the JSON view of a journal record
type historyRecord struct {
	ID        string `json:"id"`
	RunID     string `json:"run_id"`
	Operation string `json:"operation"`
	Outcome   string `json:"outcome"`
	Detail    string `json:"detail,omitempty"`
	ElapsedMs int64  `json:"elapsed_ms"`
	CreatedAt string `json:"created_at"`
}

func newHistoryCmd() *cobra.Command {
	var jsonOutput bool
	var limit int
	var runID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show journaled workspace operations, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := newContainer()
			if err != nil {
				return err
			}
			defer container.Close()

			journal := container.JournalRepository()
			var records []*repository.JournalRecord
			if runID != "" {
				records, err = journal.FindByRun(cmd.Context(), runID)
			} else {
				records, err = journal.Recent(cmd.Context(), limit)
			}
			if err != nil {
				return fmt.Errorf("read journal: %w", err)
			}

			if jsonOutput {
				rows := make([]historyRecord, 0, len(records))
				for _, r := range records {
					rows = append(rows, historyRecord{
						ID:        r.ID,
						RunID:     r.RunID,
						Operation: r.Operation,
						Outcome:   r.Outcome,
						Detail:    r.Detail,
						ElapsedMs: r.ElapsedMs,
						CreatedAt: r.CreatedAt,
					})
				}
				b, err := json.Marshal(rows)
				if err != nil {
					return fmt.Errorf("marshal json: %w", err)
				}
				fmt.Println(string(b))
				return nil
			}

			if len(records) == 0 {
				fmt.Println("No recorded operations.")
				return nil
			}
			for _, r := range records {
				fmt.Printf("%s  %-18s %-9s %8s  %s\n",
					r.CreatedAt, r.Operation, r.Outcome, formatElapsed(r.ElapsedMs), r.Detail)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of records")
	cmd.Flags().StringVar(&runID, "run", "", "Show all records of one command invocation")
	return cmd
}
