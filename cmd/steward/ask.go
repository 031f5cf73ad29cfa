package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/codemarcinu/steward/cmd/steward/internal"
	"github.com/codemarcinu/steward/internal/events"
	"github.com/codemarcinu/steward/internal/observability"
	"github.com/codemarcinu/steward/internal/orchestrator"
)

var (
	askSessionID string
	askLocale    string
)

var askCmd = &cobra.Command{
	Use:   "ask <message>",
	Short: "Process one natural-language message",
	Long: `Process a single natural-language message through the pipeline:
the message is sanitized, the model picks exactly one tool, the call is
validated and executed, and the reply is printed.

Multiple arguments are joined into one message, so quoting is optional:

  steward ask "remind me to buy milk"
  steward ask what is the weather in Warsaw tomorrow

Every message leaves an audit record regardless of outcome; see
'steward records'.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askSessionID, "session", "", "Session ID to group related messages (default: random)")
	askCmd.Flags().StringVar(&askLocale, "locale", "", "Locale hint for the session (e.g. pl-PL)")
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := openApp(ctx, globalFlags)
	if err != nil {
		return err
	}
	defer a.Close()

	session := orchestrator.Session{
		ID:     askSessionID,
		Source: "cli",
		Locale: askLocale,
	}
	if session.ID == "" {
		session.ID = uuid.NewString()
	}

	// In verbose mode, stream pipeline events to stderr as they happen.
	var (
		unsubscribe func()
		drained     chan struct{}
	)
	if globalFlags.IsVerbose() {
		var eventCh <-chan events.Event
		eventCh, unsubscribe = a.bus.Subscribe(ctx, events.Filter{SessionID: session.ID}, 16)
		defer unsubscribe()

		drained = make(chan struct{})
		go func() {
			defer close(drained)
			for ev := range eventCh {
				cmd.PrintErrf("  %s %s%s\n", ev.Timestamp.Format("15:04:05.000"), ev.Type, formatEventAttrs(ev))
			}
		}()
	}

	message := strings.Join(args, " ")
	logger := observability.WithTraceContext(ctx, a.logger)
	logger.Debug("processing message",
		"session_id", session.ID,
		"source", session.Source,
		"length", len(message))

	result, processErr := a.orch.Process(ctx, session, message)

	if drained != nil {
		// Unsubscribing closes the event channel; waiting for the stream
		// to finish keeps events from interleaving with the reply.
		unsubscribe()
		<-drained
	}

	if result == nil {
		return processErr
	}

	if globalFlags.GetOutputFormat() == internal.FormatJSON {
		if err := globalFlags.formatter().PrintJSON(newAskReport(result)); err != nil {
			return err
		}
	} else {
		cmd.Println(result.Reply)
	}

	// A failed record append is surfaced after the reply; the exit code
	// tells scripts the audit trail is incomplete.
	return processErr
}

func formatEventAttrs(ev events.Event) string {
	var sb strings.Builder
	if ev.Tool != "" {
		fmt.Fprintf(&sb, " tool=%s", ev.Tool)
	}

	keys := make([]string, 0, len(ev.Attrs))
	for k := range ev.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s=%v", k, ev.Attrs[k])
	}
	return sb.String()
}

// askReport is the JSON output shape of the ask command.
type askReport struct {
	RecordID          string         `json:"record_id"`
	Status            string         `json:"status"`
	Reply             string         `json:"reply"`
	Tool              string         `json:"tool"`
	Arguments         map[string]any `json:"arguments"`
	ValidationSuccess bool           `json:"validation_success"`
	ExecutionSuccess  bool           `json:"execution_success"`
	RetryCount        int            `json:"retry_count"`
	InjectionRisk     string         `json:"injection_risk"`
	TotalTimeMS       int64          `json:"total_time_ms"`
}

func newAskReport(result *orchestrator.Result) askReport {
	rec := result.Record
	return askReport{
		RecordID:          result.RecordID.String(),
		Status:            result.Status.String(),
		Reply:             result.Reply,
		Tool:              rec.ParsedTool,
		Arguments:         rec.ParsedArguments,
		ValidationSuccess: rec.ValidationSuccess,
		ExecutionSuccess:  rec.ExecutionSuccess,
		RetryCount:        rec.RetryCount,
		InjectionRisk:     string(rec.InjectionRisk),
		TotalTimeMS:       rec.TotalTimeMS,
	}
}
