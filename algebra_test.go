package delta_test

import (
	"testing"

	"github.com/asadovsky/delta"
)

// scenario 2.
func TestScenario2Compose(t *testing.T) {
	this := delta.New().Retain(5, nil).Delete(1)
	other := delta.New().Retain(4, nil).Delete(1)
	got, err := delta.Compose(this, other)
	ok(t, err)
	want := []delta.Op{
		{Type: delta.RetainOp, Count: 4},
		{Type: delta.DeleteOp, Count: 2},
	}
	eq(t, got.Ops, want)
}

// scenario 4.
func TestScenario4TransformPriority(t *testing.T) {
	this := delta.New().Insert("A", nil)
	other := delta.New().Insert("B", nil)

	got, err := delta.TransformScript(this, other, true)
	ok(t, err)
	eq(t, got.Ops, []delta.Op{
		{Type: delta.RetainOp, Count: 1},
		{Type: delta.InsertOp, Text: "B"},
	})

	got, err = delta.TransformScript(this, other, false)
	ok(t, err)
	eq(t, got.Ops, []delta.Op{{Type: delta.InsertOp, Text: "B"}})
}

// scenario 5: base.compose(c).compose(c.invert(base)) == base.
func TestScenario5InvertRoundTrip(t *testing.T) {
	base := delta.New().Insert("Hello", delta.AttributeMap{"b": true})
	c := delta.New().Retain(5, delta.AttributeMap{"b": nil, "i": true})

	applied, err := delta.Compose(base, c)
	ok(t, err)

	inv, err := delta.Invert(c, base)
	ok(t, err)

	back, err := delta.Compose(applied, inv)
	ok(t, err)

	if !back.Equal(base) {
		fatalf(t, "round trip = %#v, want %#v", back.Ops, base.Ops)
	}
}

// scenario 3 is covered in diff_test.go.

func TestComposeDeleteCancelsInsert(t *testing.T) {
	this := delta.New().Insert("Hello", nil)
	other := delta.New().Delete(5)
	got, err := delta.Compose(this, other)
	ok(t, err)
	eq(t, len(got.Ops), 0)
}

func TestComposeRetainAttrsOnInsert(t *testing.T) {
	this := delta.New().Insert("Hello", nil)
	other := delta.New().Retain(5, delta.AttributeMap{"bold": true})
	got, err := delta.Compose(this, other)
	ok(t, err)
	want := []delta.Op{{Type: delta.InsertOp, Text: "Hello", Attrs: delta.AttributeMap{"bold": true}}}
	eq(t, got.Ops, want)
}

func TestComposeTailFastPath(t *testing.T) {
	this := delta.New().Insert("Hello", nil).Insert(" World", nil)
	other := delta.New().Retain(5, nil)
	got, err := delta.Compose(this, other)
	ok(t, err)
	want := delta.New().Insert("Hello World", nil)
	if !got.Equal(want) {
		fatalf(t, "got %#v, want %#v", got.Ops, want.Ops)
	}
}

func TestInvertDelete(t *testing.T) {
	base := delta.New().Insert("Hello", nil)
	this := delta.New().Retain(1, nil).Delete(3)
	inv, err := delta.Invert(this, base)
	ok(t, err)
	want := delta.New().Retain(1, nil).Insert("ell", nil)
	if !inv.Equal(want) {
		fatalf(t, "got %#v, want %#v", inv.Ops, want.Ops)
	}
}

func TestInvertInsert(t *testing.T) {
	base := delta.New().Insert("Hello", nil)
	this := delta.New().Retain(5, nil).Insert(" World", nil)
	inv, err := delta.Invert(this, base)
	ok(t, err)
	want := delta.New().Retain(5, nil).Delete(6)
	if !inv.Equal(want) {
		fatalf(t, "got %#v, want %#v", inv.Ops, want.Ops)
	}
}

func TestTransformPositionInsertBeforePushesRight(t *testing.T) {
	this := delta.New().Insert("abc", nil)
	eq(t, delta.TransformPosition(this, 0, false), 3)
	eq(t, delta.TransformPosition(this, 0, true), 0)
}

func TestTransformPositionDeleteBeforePullsLeft(t *testing.T) {
	this := delta.New().Retain(2, nil).Delete(3)
	eq(t, delta.TransformPosition(this, 6, false), 3)
}

func TestTransformPositionDeleteAtPositionClampsNotNegative(t *testing.T) {
	this := delta.New().Delete(5)
	eq(t, delta.TransformPosition(this, 2, false), 0)
}

// TP1: transform satisfies this.compose(transform(this, other, false)) ==
// other.compose(transform(other, this, true)) for concurrent edits against
// the same base.
func TestTP1TransformProperty(t *testing.T) {
	this := delta.New().Retain(1, nil).Insert("X", nil)
	other := delta.New().Retain(3, nil).Insert("Y", nil)

	otherPrime, err := delta.TransformScript(this, other, false)
	ok(t, err)
	thisPrime, err := delta.TransformScript(other, this, true)
	ok(t, err)

	left, err := delta.Compose(this, otherPrime)
	ok(t, err)
	right, err := delta.Compose(other, thisPrime)
	ok(t, err)

	if !left.Equal(right) {
		fatalf(t, "this.compose(other') = %#v, other.compose(this') = %#v", left.Ops, right.Ops)
	}
}

// Length preservation: composing this with a script whose length matches
// this's resulting length never panics and produces a script whose
// ChangeLength matches the net of both.
func TestComposeChangeLengthIsAdditive(t *testing.T) {
	this := delta.New().Insert("abc", nil).Delete(1)
	other := delta.New().Retain(3, nil).Insert("xy", nil)
	got, err := delta.Compose(this, other)
	ok(t, err)
	eq(t, got.ChangeLength(), this.ChangeLength()+other.ChangeLength())
}

// Composition associativity: (a.compose(b)).compose(c) ==
// a.compose(b.compose(c)).
func TestComposeAssociativity(t *testing.T) {
	a := delta.New().Insert("Hello", nil)
	b := delta.New().Retain(5, nil).Insert(" World", nil)
	c := delta.New().Retain(2, nil).Delete(3).Insert("i", nil)

	ab, err := delta.Compose(a, b)
	ok(t, err)
	left, err := delta.Compose(ab, c)
	ok(t, err)

	bc, err := delta.Compose(b, c)
	ok(t, err)
	right, err := delta.Compose(a, bc)
	ok(t, err)

	if !left.Equal(right) {
		fatalf(t, "(a.b).c = %#v, a.(b.c) = %#v", left.Ops, right.Ops)
	}
}

// Normalization: compose/invert/transform output never carries a
// zero-length op.
func TestComposeOutputHasNoZeroLengthOps(t *testing.T) {
	this := delta.New().Insert("Hello", nil)
	other := delta.New().Retain(5, nil).Delete(0).Insert("", nil)
	got, err := delta.Compose(this, other)
	ok(t, err)
	for _, op := range got.Ops {
		if op.Length() == 0 {
			fatalf(t, "found zero-length op: %#v", op)
		}
	}
}
