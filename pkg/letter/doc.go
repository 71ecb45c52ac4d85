// Package letter assembles and validates the variables a letter template is
// rendered with.
//
// A Builder combines the letter reference, caller personalisation, the postal
// address and computed values (sending date, reply-by date, trigger date,
// resource paths and Welsh date variants) into a Context, then checks it
// against the template's registered schema.
//
//	b, err := letter.NewBuilder(registry)
//	ctx, err := b.Build(letter.Params{
//		Key:       template.MustKey("chips", "direction_letter", "1"),
//		Reference: "REF1",
//		Address:   letter.NewAddress("Line 1", "Cardiff"),
//		Personalisation: map[string]string{
//			"company_name":  "acme ltd",
//			"deadline_date": "18 August 2025",
//		},
//	})
//
// Regenerating a letter that was already sent uses ModeRegenerate together
// with the date the letter was originally sent, so the reproduced document
// matches the original.
//
// Every error returned by Build is caused by the input. Callers can match
// ErrReservedField, ErrMissingCompanyName, ErrMissingReference,
// ErrMissingOriginalDate and ErrMissingVariables with errors.Is, or extract
// a *ValidationError with errors.As to list the missing variables.
package letter
