package wizard

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-formwizard/pkg/action"
	"github.com/goliatone/go-formwizard/pkg/predicate"
)

// Option configures a Controller.
type Option func(*Controller)

// WithLogger attaches a logger. Transitions log at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithEvaluator overrides the rule evaluator used for page resolution.
func WithEvaluator(eval predicate.Evaluator) Option {
	return func(c *Controller) {
		if eval != nil {
			c.eval = eval
		}
	}
}

// WithOnSuccess registers a callback invoked after a successful action has
// been applied. It runs outside the controller lock.
func WithOnSuccess(fn func(action.Outcome)) Option {
	return func(c *Controller) {
		c.onSuccess = fn
	}
}
