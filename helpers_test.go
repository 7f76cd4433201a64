package delta_test

import (
	"reflect"
	"runtime/debug"
	"testing"
)

func fatalf(t *testing.T, format string, v ...interface{}) {
	debug.PrintStack()
	t.Fatalf(format, v...)
}

func eq(t *testing.T, got, want interface{}) {
	t.Helper()
	if !reflect.DeepEqual(got, want) {
		fatalf(t, "got %#v, want %#v", got, want)
	}
}

func neq(t *testing.T, got, notWant interface{}) {
	t.Helper()
	if reflect.DeepEqual(got, notWant) {
		fatalf(t, "got %#v, did not want that", got)
	}
}

func ok(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		fatalf(t, "unexpected error: %v", err)
	}
}
