package delta

import (
	"math"
	"reflect"
	"strings"
)

// Script is an ordered, finite sequence of Ops: either a document
// (inserts only) or a transformation from one document to another.
// Script is mutable during construction; the algebra functions in
// algebra.go and diff.go treat their Script inputs as immutable.
type Script struct {
	Ops []Op
}

// New returns an empty Script.
func New() *Script {
	return &Script{}
}

// NewFromOps builds a Script from ops, running each one through Push.
func NewFromOps(ops []Op) *Script {
	s := New()
	for _, op := range ops {
		s.Push(op)
	}
	return s
}

func isZeroLength(op Op) bool {
	return op.Length() == 0
}

func canMerge(a, b Op) bool {
	if a.Type != b.Type || a.isEmbed() || b.isEmbed() {
		return false
	}
	if !attrsEqual(a.Attrs, b.Attrs) {
		return false
	}
	return a.Type == InsertOp || a.Type == RetainOp
}

func mergeOps(a, b Op) Op {
	switch a.Type {
	case InsertOp:
		return Op{Type: InsertOp, Text: a.Text + b.Text, Attrs: a.Attrs}
	case RetainOp:
		return Op{Type: RetainOp, Count: a.Count + b.Count, Attrs: a.Attrs}
	default:
		return a
	}
}

// Push is the normalization kernel every fluent builder method delegates
// to: deep-clones op, elides it if zero-length, merges it with its
// predecessor where possible, and reorders an insert landing right after
// a delete so inserts precede deletes.
func (s *Script) Push(op Op) *Script {
	op = op.clone()
	if isZeroLength(op) {
		return s
	}
	if len(s.Ops) == 0 {
		s.Ops = append(s.Ops, op)
		return s
	}

	lastIdx := len(s.Ops) - 1
	last := s.Ops[lastIdx]

	if op.Type == DeleteOp && last.Type == DeleteOp {
		s.Ops[lastIdx] = Op{Type: DeleteOp, Count: last.Count + op.Count}
		return s
	}

	if last.Type == DeleteOp && op.Type == InsertOp {
		if lastIdx == 0 {
			s.Ops = append([]Op{op}, s.Ops...)
			return s
		}
		newPredIdx := lastIdx - 1
		pred := s.Ops[newPredIdx]
		if canMerge(pred, op) {
			s.Ops[newPredIdx] = mergeOps(pred, op)
			return s
		}
		s.Ops = append(s.Ops, Op{})
		copy(s.Ops[newPredIdx+2:], s.Ops[newPredIdx+1:])
		s.Ops[newPredIdx+1] = op
		return s
	}

	if canMerge(last, op) {
		s.Ops[lastIdx] = mergeOps(last, op)
		return s
	}

	s.Ops = append(s.Ops, op)
	return s
}

// Insert appends a plain-text insert. A no-op for an empty string.
func (s *Script) Insert(text string, attrs AttributeMap) *Script {
	if text == "" {
		return s
	}
	return s.Push(Op{Type: InsertOp, Text: text, Attrs: attrs})
}

// InsertEmbed appends a structured-embed insert.
func (s *Script) InsertEmbed(embed EmbedValue, attrs AttributeMap) *Script {
	return s.Push(Op{Type: InsertOp, Embed: embed, Attrs: attrs})
}

// Delete appends a delete. A no-op for n <= 0.
func (s *Script) Delete(n int) *Script {
	if n <= 0 {
		return s
	}
	return s.Push(Op{Type: DeleteOp, Count: n})
}

// Retain appends an integer retain. A no-op for n <= 0.
func (s *Script) Retain(n int, attrs AttributeMap) *Script {
	if n <= 0 {
		return s
	}
	return s.Push(Op{Type: RetainOp, Count: n, Attrs: attrs})
}

// RetainEmbed appends a structured-embed retain.
func (s *Script) RetainEmbed(embed EmbedValue, attrs AttributeMap) *Script {
	return s.Push(Op{Type: RetainOp, Embed: embed, Attrs: attrs})
}

// Chop drops a trailing bare integer retain with no attributes.
func (s *Script) Chop() *Script {
	if n := len(s.Ops); n > 0 {
		last := s.Ops[n-1]
		if last.Type == RetainOp && !last.isEmbed() && len(last.Attrs) == 0 {
			s.Ops = s.Ops[:n-1]
		}
	}
	return s
}

// Length returns the total number of document positions this script
// covers.
func (s *Script) Length() int {
	total := 0
	for _, op := range s.Ops {
		total += op.Length()
	}
	return total
}

// ChangeLength returns insert lengths minus delete counts; retains
// contribute zero.
func (s *Script) ChangeLength() int {
	total := 0
	for _, op := range s.Ops {
		switch op.Type {
		case InsertOp:
			total += op.Length()
		case DeleteOp:
			total -= op.Length()
		}
	}
	return total
}

// Slice returns a new script containing the position range [start, end).
func (s *Script) Slice(start, end int) *Script {
	out := New()
	it := newOpIterator(s.Ops)
	index := 0
	for index < end && it.hasNext() {
		var op Op
		if index < start {
			op = it.next(start - index)
		} else {
			op = it.next(end - index)
			out.Push(op)
		}
		index += op.Length()
	}
	return out
}

// SliceFrom returns Slice(start, Length()).
func (s *Script) SliceFrom(start int) *Script {
	return s.Slice(start, math.MaxInt)
}

// Concat returns this script followed by other: this's ops verbatim,
// then other's first op pushed (so the seam normalizes) and the rest
// appended verbatim.
func (s *Script) Concat(other *Script) *Script {
	out := &Script{Ops: append([]Op(nil), s.Ops...)}
	if len(other.Ops) == 0 {
		return out
	}
	out.Push(other.Ops[0])
	if len(other.Ops) > 1 {
		out.Ops = append(out.Ops, other.Ops[1:]...)
	}
	return out
}

// Equal reports whether s and other are deeply equal, op for op.
func (s *Script) Equal(other *Script) bool {
	if s == nil || other == nil {
		return s == other
	}
	return reflect.DeepEqual(s.Ops, other.Ops)
}

// ForEach calls fn once per Op, in order.
func (s *Script) ForEach(fn func(op Op)) {
	for _, op := range s.Ops {
		fn(op)
	}
}

// Filter returns the Ops for which pred returns true.
func (s *Script) Filter(pred func(op Op) bool) []Op {
	var out []Op
	for _, op := range s.Ops {
		if pred(op) {
			out = append(out, op)
		}
	}
	return out
}

// Map applies fn to every Op and returns the results in order.
func (s *Script) Map(fn func(op Op) interface{}) []interface{} {
	out := make([]interface{}, len(s.Ops))
	for i, op := range s.Ops {
		out[i] = fn(op)
	}
	return out
}

// Reduce folds fn over the Ops, starting from init.
func (s *Script) Reduce(fn func(acc interface{}, op Op) interface{}, init interface{}) interface{} {
	acc := init
	for _, op := range s.Ops {
		acc = fn(acc, op)
	}
	return acc
}

// Partition splits the Ops into those matching pred and those that
// don't, preserving relative order within each group.
func (s *Script) Partition(pred func(op Op) bool) (matched, unmatched []Op) {
	for _, op := range s.Ops {
		if pred(op) {
			matched = append(matched, op)
		} else {
			unmatched = append(unmatched, op)
		}
	}
	return matched, unmatched
}

// Line is one line produced by EachLine/Lines.
type Line struct {
	Script *Script
	Attrs  AttributeMap
	Index  int
}

// EachLine splits a document on newline (defaulting to "\n"), invoking cb
// once per line with that line's content, the attributes of the newline
// insert that ended it, and the line's index. cb returning false stops
// iteration early. A trailing partial line is still emitted with nil
// attributes. EachLine stops silently on a non-insert operation.
func (s *Script) EachLine(cb func(line *Script, attrs AttributeMap, lineIndex int) bool, newline string) {
	if newline == "" {
		newline = "\n"
	}
	it := newOpIterator(s.Ops)
	line := New()
	i := 0
	for it.hasNext() {
		if it.peekType() != InsertOp {
			return
		}
		cur, _ := it.peek()
		idx := -1
		if !cur.isEmbed() {
			idx = strings.Index(cur.Text, newline)
		}
		switch {
		case idx < 0:
			line.Push(it.next(noLimit))
		case idx > 0:
			line.Push(it.next(idx))
		default:
			consumed := it.next(len(newline))
			if cb(line, consumed.Attrs, i) == false {
				return
			}
			i++
			line = New()
		}
	}
	if line.Length() > 0 {
		cb(line, nil, i)
	}
}

// Lines collects EachLine's output into a slice.
func (s *Script) Lines(newline string) []Line {
	var lines []Line
	s.EachLine(func(line *Script, attrs AttributeMap, idx int) bool {
		lines = append(lines, Line{Script: line, Attrs: attrs, Index: idx})
		return true
	}, newline)
	return lines
}
