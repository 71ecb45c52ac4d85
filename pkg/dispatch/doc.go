// Package dispatch sequences letter production and delivery.
//
// Send parses the caller's personalisation, builds and validates the context,
// renders the template, converts it to PDF, records the request, hands the
// document to the Sender, records the Sender's response and archives a copy.
// Fetch reproduces a letter that was already sent, dated as it was originally.
//
// Every error returned by a Dispatcher belongs to exactly one class:
// ErrInvalidInput, ErrResource, ErrCollaborator, ErrNotFound or ErrConflict.
// The class is joined with the underlying error, so both can be matched with
// errors.Is. Nothing is retried.
package dispatch
