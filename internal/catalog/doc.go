// Package catalog defines the prompt catalog and validates uploads.
//
// Validation runs in two phases. Cheap structural checks fail fast:
//
//	ValidateRawFile  name, extension and size
//	Parse            empty, whitespace-only or malformed JSON
//	ValidateShape    root type and category count
//
// The per-category and per-prompt checks in ValidateShape then collect
// every problem before failing, so a single upload reports all of them.
// ValidateTotals runs last, on a shape-valid catalog only.
//
// # Accepted format
//
//	{
//	  "work":    ["Has worked remotely", "Started a new job"],
//	  "hobbies": ["Plays an instrument", "Bakes bread"]
//	}
//
// Key order is preserved and becomes the category order of the Catalog.
//
// All failures are *Error values carrying an ErrorKind, a message and a
// suggestion; use IsKind or KindOf to classify them.
package catalog
