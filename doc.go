// Package delta implements the operation algebra behind real-time
// collaborative rich-text editing: a change script (an ordered sequence of
// insert/delete/retain operations, with optional formatting attributes)
// and the compose, invert, diff, and transform functions that let
// concurrent editors reconcile their edits.
//
// A Script is built fluently (Insert/Delete/Retain/Push), then consumed by
// Compose, Invert, Diff, TransformScript, and TransformPosition, each of
// which treats its Script arguments as immutable. All but
// TransformPosition return a fresh Script; TransformPosition returns an
// int.
// Structured, non-text content (images, mentions, anything that isn't a
// plain text run) is modeled as an EmbedValue and handled through an
// EmbedHandler registered with RegisterEmbed; the algebra never has to
// know what a given embed type means.
package delta
