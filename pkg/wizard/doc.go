// Package wizard implements the multi-page form controller. A Controller owns
// one record, the baseline it was initialised from, the ordered pages resolved
// for the current business facts and a status that moves between clean,
// dirty, submitting and error:
//
//   - clean -> dirty when any field differs from the baseline; edits that
//     restore the baseline return to clean.
//   - clean/dirty/error -> submitting when an action is dispatched with all of
//     its required fields valid. Invalid fields are annotated and the status
//     does not change.
//   - submitting -> clean on success: the outcome record (or the submitted
//     record) becomes the new baseline.
//   - submitting -> error on failure: reasons are attached to fields or to the
//     form and the entered values are kept for a retry.
//
// Cancelled dispatches (caller context, Cancel, Reset or Close) are discarded
// without touching the record and report action.ErrCanceled. At most one
// action is in flight per controller. Page navigation requires the current
// page to be valid and never changes the dirty state.
package wizard
