package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/codemarcinu/steward/internal/types"
)

// TranslateError normalizes raw provider errors into the two model error
// codes the pipeline understands. Timeouts are retryable and consume one
// retry like any parse failure; everything else is MODEL_UNAVAILABLE with
// retryability inferred from the failure class.
func TranslateError(provider string, err error) error {
	if err == nil {
		return nil
	}

	var serr *types.Error
	if errors.As(err, &serr) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &types.Error{
			Code:      types.MODEL_TIMEOUT,
			Message:   fmt.Sprintf("model call timed out (provider %s)", provider),
			Retryable: true,
			Cause:     err,
		}
	}

	lowerMsg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(lowerMsg, "timeout") || strings.Contains(lowerMsg, "deadline"):
		return &types.Error{
			Code:      types.MODEL_TIMEOUT,
			Message:   fmt.Sprintf("model call timed out (provider %s)", provider),
			Retryable: true,
			Cause:     err,
		}
	case strings.Contains(lowerMsg, "unauthorized") ||
		strings.Contains(lowerMsg, "authentication") ||
		strings.Contains(lowerMsg, "api key"):
		return &types.Error{
			Code:    types.MODEL_UNAVAILABLE,
			Message: fmt.Sprintf("provider %s authentication failed", provider),
			Cause:   err,
		}
	case strings.Contains(lowerMsg, "rate limit") || strings.Contains(lowerMsg, "too many requests"):
		return &types.Error{
			Code:      types.MODEL_UNAVAILABLE,
			Message:   fmt.Sprintf("provider %s rate limited", provider),
			Retryable: true,
			Cause:     err,
		}
	case strings.Contains(lowerMsg, "network") || strings.Contains(lowerMsg, "connection"):
		return &types.Error{
			Code:      types.MODEL_UNAVAILABLE,
			Message:   fmt.Sprintf("provider %s network failure", provider),
			Retryable: true,
			Cause:     err,
		}
	default:
		return &types.Error{
			Code:      types.MODEL_UNAVAILABLE,
			Message:   fmt.Sprintf("provider %s unavailable", provider),
			Retryable: true,
			Cause:     err,
		}
	}
}
