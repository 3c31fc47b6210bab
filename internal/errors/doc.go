// Package errors provides structured, actionable error messages for the
// store bindings.
//
// Every configuration failure (missing store, malformed Provider children,
// invalid mapper results, misuse of disabled features) is reported as an
// *Error carrying a registered code, a plain-language explanation and a
// fix suggestion. Errors compare by code, so package-level sentinels work
// with errors.Is:
//
//	var ErrStoreNotFound = errors.New("E101")
//
//	err := errors.New("E101").
//	    WithMessage("Could not find store in %s", name).
//	    WithLocation(file, line, 0)
//
//	stderrors.Is(err, ErrStoreNotFound) // true
//
// Format renders a multi-line report for terminals; FormatCompact and
// FormatJSON serve logs and tooling.
package errors
