package main

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/codemarcinu/steward/cmd/steward/internal"
	"github.com/codemarcinu/steward/internal/record"
	"github.com/codemarcinu/steward/internal/sanitize"
)

var recordsLimit int

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Show recent call records",
	Long: `Show the audit trail of processed messages, newest first. Each row
is one message: what was asked, which tool ran, how it ended, how many
correction retries it took, and the injection risk the sanitizer saw.

Use --output json for the full records including raw model responses.`,
	RunE: runRecords,
}

func init() {
	recordsCmd.Flags().IntVar(&recordsLimit, "limit", 20, "Maximum number of records to show")
}

func runRecords(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(globalFlags)
	if err != nil {
		return err
	}

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	records, err := record.NewSQLiteStore(db).Recent(ctx, recordsLimit)
	if err != nil {
		return err
	}

	formatter := globalFlags.formatter()
	if globalFlags.GetOutputFormat() == internal.FormatJSON {
		return formatter.PrintJSON(records)
	}

	if len(records) == 0 {
		cmd.Println("No records yet. Run 'steward ask' to process a message.")
		return nil
	}

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			rec.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			rec.ParsedTool,
			outcomeOf(rec),
			strconv.Itoa(rec.RetryCount),
			string(rec.InjectionRisk),
			truncate(rec.UserInput, 48),
		})
	}
	return formatter.PrintTable([]string{"Created", "Tool", "Outcome", "Retries", "Risk", "Input"}, rows)
}

// outcomeOf condenses a record's flags into one word for the table.
func outcomeOf(rec record.CallRecord) string {
	switch {
	case rec.InjectionRisk == sanitize.RiskHigh && rec.ModelUsed == "":
		return "refused"
	case rec.ValidationSuccess && rec.ExecutionSuccess:
		return "ok"
	case rec.ValidationSuccess:
		return "failed"
	default:
		return "fallback"
	}
}

// truncate shortens s to max runes, flattening newlines so the table
// stays one line per record.
func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
