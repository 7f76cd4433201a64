package delta

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// docString concatenates a document's content into a single string for
// the external diff collaborator: a structured embed insert contributes
// a NUL byte placeholder. Fails with ErrNotADocument if s isn't
// inserts-only.
func docString(s *Script, side string) (string, error) {
	var b strings.Builder
	for _, op := range s.Ops {
		if op.Type != InsertOp {
			return "", fmt.Errorf("%w: %s script contains a %s op", ErrNotADocument, side, op.Type)
		}
		if op.isEmbed() {
			b.WriteByte(0)
		} else {
			b.WriteString(op.Text)
		}
	}
	return b.String(), nil
}

func splitBytes(s string) []string {
	out := make([]string, len(s))
	for i := 0; i < len(s); i++ {
		out[i] = string(s[i])
	}
	return out
}

// insertContentEqual tells a genuine textual match from two different
// embeds that merely landed on the same NUL placeholder byte.
func insertContentEqual(a, b Op) bool {
	if a.isEmbed() != b.isEmbed() {
		return false
	}
	if a.isEmbed() {
		return reflect.DeepEqual(a.Embed, b.Embed)
	}
	return a.Text == b.Text
}

// Diff returns the script that, composed onto this, produces other.
// Both must be documents (inserts only). cursorHint is accepted for
// signature parity with the abstract diff contract, but go-difflib's
// SequenceMatcher has no bias parameter to route it to, so it's unused.
func Diff(this, other *Script, cursorHint ...int) (*Script, error) {
	aStr, err := docString(this, "this")
	if err != nil {
		return nil, err
	}
	bStr, err := docString(other, "other")
	if err != nil {
		return nil, err
	}

	matcher := difflib.NewMatcher(splitBytes(aStr), splitBytes(bStr))
	opCodes := matcher.GetOpCodes()

	out := New()
	thisIt := newOpIterator(this.Ops)
	otherIt := newOpIterator(other.Ops)

	for _, oc := range opCodes {
		thisLen := oc.I2 - oc.I1
		otherLen := oc.J2 - oc.J1
		switch oc.Tag {
		case 'i':
			drainInserts(otherIt, out, otherLen)
		case 'd':
			drainDeletes(thisIt, out, thisLen)
		case 'r':
			// No "replace" in the {EQUAL,INSERT,DELETE} contract: decompose
			// into a delete of this's span then an insert of other's span;
			// Push's insert-after-delete reordering fixes the final order.
			drainDeletes(thisIt, out, thisLen)
			drainInserts(otherIt, out, otherLen)
		case 'e':
			remaining := thisLen
			for remaining > 0 {
				l := min(remaining, thisIt.peekLength(), otherIt.peekLength())
				a := thisIt.next(l)
				b := otherIt.next(l)
				if insertContentEqual(a, b) {
					out.Retain(l, DiffAttrs(a.Attrs, b.Attrs))
				} else {
					out.Push(b)
					out.Delete(l)
				}
				remaining -= l
			}
		}
	}
	// Unlike Compose/Invert/TransformScript, Diff does not chop a
	// trailing bare retain: it documents how much of the base is
	// unchanged at the end of the document.
	return out, nil
}

func drainInserts(it *opIterator, out *Script, length int) {
	consumed := 0
	for consumed < length {
		op := it.next(min(length-consumed, it.peekLength()))
		out.Push(op)
		consumed += op.Length()
	}
}

func drainDeletes(it *opIterator, out *Script, length int) {
	consumed := 0
	for consumed < length {
		op := it.next(min(length-consumed, it.peekLength()))
		out.Delete(op.Length())
		consumed += op.Length()
	}
}
