// Package record defines the call record audit trail. Every processed
// user message produces exactly one CallRecord describing what the
// model was asked, what it answered, and what steward did about it,
// regardless of how the pipeline terminated.
package record

import (
	"time"

	"github.com/codemarcinu/steward/internal/sanitize"
	"github.com/codemarcinu/steward/internal/types"
)

// CallRecord is the persisted outcome of one orchestrated message.
type CallRecord struct {
	ID                types.ID           `db:"id" json:"id"`
	SessionID         string             `db:"session_id" json:"session_id,omitempty"`
	Source            string             `db:"source" json:"source,omitempty"`
	UserInput         string             `db:"user_input" json:"user_input"`
	SanitizedInput    string             `db:"sanitized_input" json:"sanitized_input"`
	ModelUsed         string             `db:"model_used" json:"model_used"`
	RawResponse       string             `db:"raw_response" json:"raw_response,omitempty"`
	ParsedTool        string             `db:"parsed_tool" json:"parsed_tool"`
	ParsedArguments   map[string]any     `db:"parsed_arguments" json:"parsed_arguments"`
	ValidationSuccess bool               `db:"validation_success" json:"validation_success"`
	ValidationError   string             `db:"validation_error" json:"validation_error,omitempty"`
	ExecutionSuccess  bool               `db:"execution_success" json:"execution_success"`
	ExecutionError    string             `db:"execution_error" json:"execution_error,omitempty"`
	RetryCount        int                `db:"retry_count" json:"retry_count"`
	TotalTimeMS       int64              `db:"total_time_ms" json:"total_time_ms"`
	InjectionRisk     sanitize.RiskLevel `db:"injection_risk" json:"injection_risk"`
	Confidence        *float64           `db:"confidence" json:"confidence,omitempty"`
	CreatedAt         time.Time          `db:"created_at" json:"created_at"`
}

// New returns a CallRecord initialized for one incoming message.
func New(sessionID, source, userInput string) *CallRecord {
	return &CallRecord{
		ID:              types.NewID(),
		SessionID:       sessionID,
		Source:          source,
		UserInput:       userInput,
		ParsedArguments: map[string]any{},
		InjectionRisk:   sanitize.RiskNone,
	}
}

// RaiseRisk raises the recorded injection risk to level if it is
// higher. Risk never decreases within a run: a later attempt with a
// cleaner-looking feedback prompt does not launder the original one.
func (r *CallRecord) RaiseRisk(level sanitize.RiskLevel) {
	r.InjectionRisk = sanitize.MaxRisk(r.InjectionRisk, level)
}

// SetConfidence stores the model-reported confidence when it is inside
// [0, 1]; out-of-range values are discarded as absent.
func (r *CallRecord) SetConfidence(confidence *float64) {
	if confidence == nil || *confidence < 0 || *confidence > 1 {
		r.Confidence = nil
		return
	}
	v := *confidence
	r.Confidence = &v
}
