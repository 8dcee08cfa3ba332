// Package assert implements the few assertions the table tests rely on.
// Every helper stops the test on failure.
package assert

import "reflect"

// Tester is satisfied by *testing.T and *testing.B.
type Tester interface {
	Helper()
	Fatal(...interface{})
	Fatalf(string, ...interface{})
}

// Nil stops the test unless value is nil or a typed nil.
func Nil(t Tester, value interface{}) {
	t.Helper()
	if !isNil(value) {
		// %+v prints the stack of errors that carry one.
		t.Fatalf("want nil, got %+v", value)
	}
}

func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		return v.IsNil()
	}
	return false
}

// Equal stops the test unless want and got are deeply equal and of the
// same type.
func Equal(t Tester, want, got interface{}) {
	t.Helper()
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("not equal\nwant %T %v\n got %T %v", want, want, got, got)
	}
}

// Panics stops the test unless fn panics.
func Panics(t Tester, fn func()) {
	t.Helper()
	if !panics(fn) {
		t.Fatal("want panic")
	}
}

func panics(fn func()) (panicked bool) {
	defer func() {
		panicked = recover() != nil
	}()
	fn()
	return false
}

// IsErr stops the test unless got matches want. Registered errors match
// any error wrapping them.
func IsErr(t Tester, want, got error) {
	t.Helper()
	if want == got {
		return
	}
	if m, ok := want.(interface{ Is(error) bool }); ok && m.Is(got) {
		return
	}
	t.Fatalf("want %q, got %+v", want, got)
}
