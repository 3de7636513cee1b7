package rivulet

import (
	"errors"
	"testing"
)

func TestCompositeError_ErrorMessageVariesWithCount(t *testing.T) {
	empty := &CompositeError{}
	if empty.Error() == "" {
		t.Error("Error() on empty CompositeError is empty, want a description")
	}

	boom := errors.New("boom")
	one := &CompositeError{Errors: []ItemError{{Index: 1, Err: boom}}}
	if one.Error() == empty.Error() {
		t.Error("Error() did not vary with a single recorded failure")
	}

	two := &CompositeError{Errors: []ItemError{{Index: 1, Err: boom}, {Index: 2, Err: boom}}}
	if two.Error() == one.Error() {
		t.Error("Error() did not vary between one and two recorded failures")
	}
}

func TestCompositeError_UnwrapExposesInnerErrors(t *testing.T) {
	errA := errors.New("a")
	errB := errors.New("b")
	ce := &CompositeError{Errors: []ItemError{{Index: 0, Err: errA}, {Index: 1, Err: errB}}}

	if !errors.Is(ce, errA) {
		t.Error("errors.Is(ce, errA) = false, want true")
	}
	if !errors.Is(ce, errB) {
		t.Error("errors.Is(ce, errB) = false, want true")
	}
}
