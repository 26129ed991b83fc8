package action

import (
	"context"

	"github.com/goliatone/go-formwizard/pkg/field"
)

// Executor performs an opaque remote operation. Implementations return a
// *Failure for domain rejections and honour ctx cancellation.
type Executor interface {
	Execute(ctx context.Context, operation string, args map[string]any) (any, error)
}

// ExecutorFunc adapts a function into an Executor.
type ExecutorFunc func(ctx context.Context, operation string, args map[string]any) (any, error)

// Execute delegates to the underlying function.
func (fn ExecutorFunc) Execute(ctx context.Context, operation string, args map[string]any) (any, error) {
	return fn(ctx, operation, args)
}

// ArgsFunc builds operation arguments from the record.
type ArgsFunc func(rec field.Record) (map[string]any, error)

// DecodeFunc converts an executor payload into an Outcome.
type DecodeFunc func(payload any) (Outcome, error)

// RecordArgs passes the listed fields (or the full record when none are
// listed) as arguments.
func RecordArgs(names ...string) ArgsFunc {
	return func(rec field.Record) (map[string]any, error) {
		if len(names) == 0 {
			return map[string]any(rec.Clone()), nil
		}
		out := make(map[string]any, len(names))
		for _, name := range names {
			if v, ok := rec[name]; ok {
				out[name] = v
			}
		}
		return out, nil
	}
}

// PayloadOnly wraps the payload in an Outcome without replacing the baseline.
func PayloadOnly(payload any) (Outcome, error) {
	return Outcome{Payload: payload}, nil
}

// PayloadRecord treats a map payload as the new baseline record.
func PayloadRecord(payload any) (Outcome, error) {
	switch typed := payload.(type) {
	case map[string]any:
		return Outcome{Payload: payload, Record: field.Record(typed).Clone()}, nil
	case field.Record:
		return Outcome{Payload: payload, Record: typed.Clone()}, nil
	default:
		return Outcome{Payload: payload}, nil
	}
}

// Bind returns a RunFunc that calls operation on exec. Nil args and decode
// default to RecordArgs() and PayloadOnly.
func Bind(exec Executor, operation string, args ArgsFunc, decode DecodeFunc) RunFunc {
	if args == nil {
		args = RecordArgs()
	}
	if decode == nil {
		decode = PayloadOnly
	}
	return func(ctx context.Context, rec field.Record) (Outcome, error) {
		in, err := args(rec)
		if err != nil {
			return Outcome{}, toFailure(operation, err)
		}
		payload, err := exec.Execute(ctx, operation, in)
		if err != nil {
			return Outcome{}, err
		}
		return decode(payload)
	}
}
