package record

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/codemarcinu/steward/internal/database"
	"github.com/codemarcinu/steward/internal/sanitize"
	"github.com/codemarcinu/steward/internal/types"
)

// Store persists call records. Append is the orchestrator's terminal
// step and its error is the only one allowed to escape a finished run.
type Store interface {
	Append(ctx context.Context, rec *CallRecord) (types.ID, error)
	Recent(ctx context.Context, limit int) ([]CallRecord, error)
}

type sqliteStore struct {
	db *database.DB
}

// NewSQLiteStore creates a Store writing to the call_records table.
func NewSQLiteStore(db *database.DB) Store {
	return &sqliteStore{db: db}
}

func (s *sqliteStore) Append(ctx context.Context, rec *CallRecord) (types.ID, error) {
	if rec.ID.IsZero() {
		rec.ID = types.NewID()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if rec.InjectionRisk == "" {
		rec.InjectionRisk = sanitize.RiskNone
	}

	args := rec.ParsedArguments
	if args == nil {
		args = map[string]any{}
	}
	argsJSON, err := json.Marshal(args)
	if err != nil {
		return "", types.WrapError(types.STORE_APPEND_FAILED, "encode parsed arguments", err)
	}

	var confidence sql.NullFloat64
	if rec.Confidence != nil {
		confidence = sql.NullFloat64{Float64: *rec.Confidence, Valid: true}
	}

	query := `
		INSERT INTO call_records (
			id, session_id, source, user_input, sanitized_input, model_used,
			raw_response, parsed_tool, parsed_arguments,
			validation_success, validation_error,
			execution_success, execution_error,
			retry_count, total_time_ms, injection_risk, confidence, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query,
		rec.ID.String(), rec.SessionID, rec.Source, rec.UserInput, rec.SanitizedInput,
		rec.ModelUsed, rec.RawResponse, rec.ParsedTool, string(argsJSON),
		rec.ValidationSuccess, rec.ValidationError,
		rec.ExecutionSuccess, rec.ExecutionError,
		rec.RetryCount, rec.TotalTimeMS, string(rec.InjectionRisk), confidence, rec.CreatedAt)
	if err != nil {
		return "", types.WrapError(types.STORE_APPEND_FAILED, "insert call record", err)
	}
	return rec.ID, nil
}

func (s *sqliteStore) Recent(ctx context.Context, limit int) ([]CallRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT
			id, session_id, source, user_input, sanitized_input, model_used,
			raw_response, parsed_tool, parsed_arguments,
			validation_success, validation_error,
			execution_success, execution_error,
			retry_count, total_time_ms, injection_risk, confidence, created_at
		FROM call_records
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, types.WrapError(types.STORE_QUERY_FAILED, "query call records", err)
	}
	defer rows.Close()

	var records []CallRecord
	for rows.Next() {
		var rec CallRecord
		var idStr, argsJSON, risk string
		var confidence sql.NullFloat64

		err := rows.Scan(
			&idStr, &rec.SessionID, &rec.Source, &rec.UserInput, &rec.SanitizedInput,
			&rec.ModelUsed, &rec.RawResponse, &rec.ParsedTool, &argsJSON,
			&rec.ValidationSuccess, &rec.ValidationError,
			&rec.ExecutionSuccess, &rec.ExecutionError,
			&rec.RetryCount, &rec.TotalTimeMS, &risk, &confidence, &rec.CreatedAt)
		if err != nil {
			return nil, types.WrapError(types.STORE_QUERY_FAILED, "scan call record", err)
		}

		rec.ID = types.ID(idStr)
		rec.InjectionRisk = sanitize.RiskLevel(risk)
		if argsJSON != "" {
			if err := json.Unmarshal([]byte(argsJSON), &rec.ParsedArguments); err != nil {
				return nil, types.WrapError(types.STORE_QUERY_FAILED, "decode parsed arguments", err)
			}
		}
		if confidence.Valid {
			v := confidence.Float64
			rec.Confidence = &v
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, types.WrapError(types.STORE_QUERY_FAILED, "iterate call records", err)
	}
	return records, nil
}
