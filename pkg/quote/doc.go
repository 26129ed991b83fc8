// Package quote wires the wizard controller to the startup package quote
// (directors and officers, employment practices, fiduciary and errors and
// omissions coverages): the field table, the coverage and signature pages,
// the actions backed by a Service and the LandingPage that keeps the form in
// step with the quote it edits.
package quote
