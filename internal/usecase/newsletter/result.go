// Package newsletter resolves the latest newsletter issue from a configured
// source and keeps a rendered display fragment fresh on a fixed schedule.
package newsletter

import (
	"context"
	"fmt"
	"log/slog"

	"newsletter-feed/internal/domain/entity"
)

// Outcome is the kind of answer a Source gave.
type Outcome int

const (
	// OutcomeSuccess carries a complete record.
	OutcomeSuccess Outcome = iota + 1
	// OutcomeEmpty means the upstream answered but had no issues.
	OutcomeEmpty
	// OutcomeFailure means the upstream could not be reached or answered with an error.
	OutcomeFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeEmpty:
		return "empty"
	case OutcomeFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Result is the value every Source returns. Exactly one of Newsletter
// (success), Reason (empty) or Err (failure) is meaningful.
type Result struct {
	Outcome    Outcome
	Newsletter *entity.Newsletter
	Reason     string
	Err        error
}

// Success wraps a complete record. The record is copied.
func Success(n entity.Newsletter) Result {
	return Result{Outcome: OutcomeSuccess, Newsletter: &n}
}

// Empty reports a valid response with no issues.
func Empty(reason string) Result {
	return Result{Outcome: OutcomeEmpty, Reason: reason}
}

// Failure reports an upstream failure.
func Failure(err error) Result {
	return Result{Outcome: OutcomeFailure, Err: err}
}

// Source is one way of finding the latest issue. FetchLatest never panics
// and reports every problem through the returned Result.
type Source interface {
	Name() string
	FetchLatest(ctx context.Context) Result
}

// FetchLatest calls src and enforces the Result contract: panics become
// failures, and a success must carry a valid record.
func FetchLatest(ctx context.Context, src Source) (res Result) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("newsletter source panicked",
				slog.String("source", src.Name()),
				slog.Any("panic", rec))
			res = Failure(fmt.Errorf("source %s panicked: %v: %w", src.Name(), rec, entity.ErrUpstreamError))
		}
	}()

	res = src.FetchLatest(ctx)
	switch res.Outcome {
	case OutcomeSuccess:
		if res.Newsletter == nil {
			return Failure(fmt.Errorf("source %s: success without record: %w", src.Name(), entity.ErrIncompleteRecord))
		}
		if err := res.Newsletter.Validate(); err != nil {
			return Failure(fmt.Errorf("source %s: %w", src.Name(), err))
		}
	case OutcomeEmpty:
		if res.Reason == "" {
			res.Reason = entity.ErrNoContent.Error()
		}
	case OutcomeFailure:
		if res.Err == nil {
			res.Err = fmt.Errorf("source %s: %w", src.Name(), entity.ErrUpstreamError)
		}
	default:
		return Failure(fmt.Errorf("source %s returned outcome %d: %w", src.Name(), res.Outcome, entity.ErrUpstreamError))
	}
	return res
}
