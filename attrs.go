package delta

import "reflect"

// AttributeMap maps attribute name to an arbitrary value. nil has
// distinguished semantics in Compose: "unset this attribute" unless the
// caller asks to keep nulls. Empty and nil are interchangeable; every
// function below returns nil rather than an empty map.
type AttributeMap map[string]interface{}

func attrValuesEqual(a, b interface{}) bool {
	return reflect.DeepEqual(a, b)
}

func attrsEqual(a, b AttributeMap) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		bv, ok := b[k]
		if !ok || !attrValuesEqual(v, bv) {
			return false
		}
	}
	return true
}

// ComposeAttrs merges a and b as though a were applied, then b. If
// keepNull is false, keys whose final value is nil are dropped.
func ComposeAttrs(a, b AttributeMap, keepNull bool) AttributeMap {
	out := make(AttributeMap, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	if !keepNull {
		for k, v := range out {
			if v == nil {
				delete(out, k)
			}
		}
	}
	return nonEmptyOrNil(out)
}

// InvertAttrs returns the attribute map that undoes attrs, given the base
// attribute map it was applied against.
func InvertAttrs(attrs, base AttributeMap) AttributeMap {
	out := make(AttributeMap, len(attrs)+len(base))
	for k, v := range attrs {
		if bv, ok := base[k]; ok {
			if !attrValuesEqual(v, bv) {
				out[k] = bv
			}
		} else {
			out[k] = nil
		}
	}
	for k, v := range base {
		if _, ok := attrs[k]; !ok {
			out[k] = v
		}
	}
	return nonEmptyOrNil(out)
}

// DiffAttrs returns the attribute map that, composed onto a, produces b.
func DiffAttrs(a, b AttributeMap) AttributeMap {
	out := make(AttributeMap, len(a)+len(b))
	for k, v := range a {
		if bv, ok := b[k]; ok {
			if !attrValuesEqual(v, bv) {
				out[k] = bv
			}
		} else {
			out[k] = nil
		}
	}
	for k, v := range b {
		if _, ok := a[k]; !ok {
			out[k] = v
		}
	}
	return nonEmptyOrNil(out)
}

// TransformAttrs transforms b against a. When priority is true, a wins:
// the result drops b's keys that a also sets.
func TransformAttrs(a, b AttributeMap, priority bool) AttributeMap {
	if !priority {
		return nonEmptyOrNil(b)
	}
	out := make(AttributeMap, len(b))
	for k, v := range b {
		if _, ok := a[k]; !ok {
			out[k] = v
		}
	}
	return nonEmptyOrNil(out)
}

func nonEmptyOrNil(m AttributeMap) AttributeMap {
	if len(m) == 0 {
		return nil
	}
	return m
}
