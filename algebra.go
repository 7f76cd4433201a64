package delta

import (
	"fmt"
	"reflect"
)

func embedTypeAndDataSafe(v EmbedValue) (string, interface{}, bool) {
	if len(v) != 1 {
		return "", nil, false
	}
	for k, val := range v {
		return k, val, true
	}
	return "", nil, false
}

// opAtPosition returns the single document op covering base position pos.
func opAtPosition(base *Script, pos int) (Op, error) {
	it := newOpIterator(base.Ops)
	remaining := pos
	for remaining > 0 {
		if !it.hasNext() {
			return Op{}, fmt.Errorf("%w: position %d is past the end of base", ErrCannotRetainNonObject, pos)
		}
		take := min(remaining, it.peekLength())
		it.next(take)
		remaining -= take
	}
	if !it.hasNext() {
		return Op{}, fmt.Errorf("%w: position %d is past the end of base", ErrCannotRetainNonObject, pos)
	}
	return it.next(1), nil
}

// composeRetainStep computes Compose's result Op when other's current op
// (b) is a retain; a is this's matching, length-aligned slice.
func composeRetainStep(a, b Op) (Op, error) {
	var result Op
	if b.isEmbed() {
		bType, bData, err := getEmbedTypeAndData(b.Embed)
		if err != nil {
			return Op{}, err
		}
		switch a.Type {
		case RetainOp:
			if !a.isEmbed() {
				// a is a pure integer advance; no handler call warranted.
				result = Op{Type: RetainOp, Embed: deepCopyEmbed(b.Embed)}
			} else {
				aType, aData, err := getEmbedTypeAndData(a.Embed)
				if err != nil {
					return Op{}, err
				}
				if aType != bType {
					return Op{}, fmt.Errorf("%w: %q vs %q", ErrEmbedTypeMismatch, aType, bType)
				}
				handler, err := getEmbedHandler(aType)
				if err != nil {
					return Op{}, err
				}
				composed := handler.Compose(aData, bData, true)
				result = Op{Type: RetainOp, Embed: EmbedValue{aType: composed}}
			}
		case InsertOp:
			aType, aData, err := getEmbedTypeAndData(a.Embed)
			if err != nil {
				return Op{}, err
			}
			if aType != bType {
				return Op{}, fmt.Errorf("%w: %q vs %q", ErrEmbedTypeMismatch, aType, bType)
			}
			handler, err := getEmbedHandler(aType)
			if err != nil {
				return Op{}, err
			}
			composed := handler.Compose(aData, bData, false)
			result = Op{Type: InsertOp, Embed: EmbedValue{aType: composed}}
		default:
			panic("delta: compose encountered a delete paired with a retain")
		}
	} else {
		switch a.Type {
		case RetainOp:
			if !a.isEmbed() {
				result = Op{Type: RetainOp, Count: b.Count}
			} else {
				result = Op{Type: RetainOp, Embed: deepCopyEmbed(a.Embed)}
			}
		case InsertOp:
			result = Op{Type: InsertOp, Text: a.Text, Embed: deepCopyEmbed(a.Embed)}
		default:
			panic("delta: compose encountered a delete paired with a retain")
		}
	}
	keepNull := a.Type == RetainOp && !a.isEmbed()
	result.Attrs = ComposeAttrs(a.Attrs, b.Attrs, keepNull)
	return result, nil
}

// Compose produces a script equivalent to applying this, then other.
func Compose(this, other *Script) (*Script, error) {
	thisIt := newOpIterator(this.Ops)
	otherIt := newOpIterator(other.Ops)
	out := New()

	// Prefix optimization: fold whole inserts from this into a leading
	// bare retain of other, advancing other past the covered portion.
	if len(other.Ops) > 0 {
		first := other.Ops[0]
		if first.Type == RetainOp && !first.isEmbed() && len(first.Attrs) == 0 {
			firstLeft := first.Count
			for thisIt.peekType() == InsertOp && thisIt.peekLength() <= firstLeft {
				firstLeft -= thisIt.peekLength()
				out.Push(thisIt.next(noLimit))
			}
			if first.Count-firstLeft > 0 {
				otherIt.next(first.Count - firstLeft)
			}
		}
	}

	for thisIt.hasNext() || otherIt.hasNext() {
		if otherIt.peekType() == InsertOp {
			out.Push(otherIt.next(noLimit))
			continue
		}
		if thisIt.peekType() == DeleteOp {
			out.Push(thisIt.next(noLimit))
			continue
		}
		l := min(thisIt.peekLength(), otherIt.peekLength())
		a := thisIt.next(l)
		b := otherIt.next(l)
		if b.Type == RetainOp {
			result, err := composeRetainStep(a, b)
			if err != nil {
				return nil, err
			}
			out.Push(result)
			if !otherIt.hasNext() && len(out.Ops) > 0 && reflect.DeepEqual(out.Ops[len(out.Ops)-1], result) {
				// other's rest is an implicit infinite retain: splice the
				// rest of this straight through, Concat-style (push the
				// first op so it can still merge at the seam, then append
				// the remainder verbatim) rather than a raw append.
				if rest := thisIt.rest(); len(rest) > 0 {
					out.Push(rest[0])
					out.Ops = append(out.Ops, rest[1:]...)
				}
				return out.Chop(), nil
			}
		} else if a.Type != InsertOp {
			out.Push(b)
		}
	}
	return out.Chop(), nil
}

// Invert produces the script that undoes this, given the base document it
// was applied against: base.Compose(this).Compose(inv) == base.
func Invert(this, base *Script) (*Script, error) {
	out := New()
	baseIndex := 0
	for _, op := range this.Ops {
		switch op.Type {
		case InsertOp:
			out.Delete(op.Length())

		case RetainOp:
			switch {
			case !op.isEmbed() && len(op.Attrs) == 0:
				out.Retain(op.Count, nil)
				baseIndex += op.Count

			case op.isEmbed():
				baseOp, err := opAtPosition(base, baseIndex)
				if err != nil {
					return nil, err
				}
				if baseOp.Type != InsertOp || !baseOp.isEmbed() {
					return nil, fmt.Errorf("%w: base position %d is not an embed insert", ErrCannotRetainNonObject, baseIndex)
				}
				embedType, opData, err := getEmbedTypeAndData(op.Embed)
				if err != nil {
					return nil, err
				}
				baseType, baseData, err := getEmbedTypeAndData(baseOp.Embed)
				if err != nil {
					return nil, err
				}
				if embedType != baseType {
					return nil, fmt.Errorf("%w: %q vs %q", ErrEmbedTypeMismatch, embedType, baseType)
				}
				handler, err := getEmbedHandler(embedType)
				if err != nil {
					return nil, err
				}
				inverted := handler.Invert(opData, baseData)
				out.RetainEmbed(EmbedValue{embedType: inverted}, InvertAttrs(op.Attrs, baseOp.Attrs))
				baseIndex++

			default:
				l := op.Count
				slice := base.Slice(baseIndex, baseIndex+l)
				for _, baseOp := range slice.Ops {
					out.Retain(baseOp.Length(), InvertAttrs(op.Attrs, baseOp.Attrs))
				}
				baseIndex += l
			}

		case DeleteOp:
			l := op.Count
			slice := base.Slice(baseIndex, baseIndex+l)
			for _, baseOp := range slice.Ops {
				out.Push(baseOp)
			}
			baseIndex += l
		}
	}
	return out.Chop(), nil
}

func transformRetainStep(a, b Op, priority bool) Op {
	var embed EmbedValue
	useEmbed := false
	if a.isEmbed() && b.isEmbed() {
		aType, aData, aOK := embedTypeAndDataSafe(a.Embed)
		bType, bData, bOK := embedTypeAndDataSafe(b.Embed)
		if aOK && bOK && aType == bType {
			if handler, ok := lookupEmbedHandler(aType); ok {
				embed = EmbedValue{aType: handler.Transform(aData, bData, priority)}
				useEmbed = true
			}
		}
	}
	if !useEmbed && b.isEmbed() {
		embed = deepCopyEmbed(b.Embed)
		useEmbed = true
	}
	attrs := TransformAttrs(a.Attrs, b.Attrs, priority)
	if useEmbed {
		return Op{Type: RetainOp, Embed: embed, Attrs: attrs}
	}
	return Op{Type: RetainOp, Count: b.Count, Attrs: attrs}
}

// TransformScript returns other' such that applying this then other' has
// the same effect as applying other then this' (the OT transform
// property), given this and other are concurrent edits against the same
// base. priority true means this happened first: its inserts push
// other's cursor right, and ties between two inserts favor this.
func TransformScript(this, other *Script, priority bool) (*Script, error) {
	thisIt := newOpIterator(this.Ops)
	otherIt := newOpIterator(other.Ops)
	out := New()

	for thisIt.hasNext() || otherIt.hasNext() {
		if thisIt.peekType() == InsertOp && (priority || otherIt.peekType() != InsertOp) {
			out.Retain(thisIt.next(noLimit).Length(), nil)
			continue
		}
		if otherIt.peekType() == InsertOp {
			out.Push(otherIt.next(noLimit))
			continue
		}
		l := min(thisIt.peekLength(), otherIt.peekLength())
		a := thisIt.next(l)
		b := otherIt.next(l)
		switch {
		case a.Type == DeleteOp:
		case b.Type == DeleteOp:
			out.Push(b)
		default:
			out.Push(transformRetainStep(a, b, priority))
		}
	}
	return out.Chop(), nil
}

// TransformPosition returns the position corresponding to position after
// applying this, given position was a valid index into the base
// document this was computed against. priority true resolves ties at an
// insertion point in position's favor.
func TransformPosition(this *Script, position int, priority bool) int {
	offset := 0
	for _, op := range this.Ops {
		if offset > position {
			break
		}
		l := op.Length()
		switch op.Type {
		case DeleteOp:
			position -= min(l, position-offset)
		case InsertOp:
			if offset < position || !priority {
				position += l
			}
		}
		// offset advances by the full op length for every kind, including
		// delete, per the reference implementation's while-loop behavior.
		offset += l
	}
	return position
}
