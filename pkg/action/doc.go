// Package action binds named operations to the record fields they require and
// dispatches them. An Action's Run function wraps an opaque external call
// (typically an Executor RPC) and reports either an Outcome or a typed
// *Failure. Dispatch validates the required fields before Run is invoked and
// honours context cancellation: a cancelled dispatch yields ErrCanceled and no
// outcome.
package action
