package modelerr

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorMessagesNameTheOffendingID(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{&InvalidReference{Kind: "Route", ID: "r1", Field: "line_id", TargetKind: "Line", TargetID: "l1"},
			`Route "r1": line_id references unknown Line "l1"`},
		{&DuplicateID{Kind: "Network", ID: "n1"}, `duplicate id "n1" in Network collection`},
		{&EmptyResult{}, "transformation produced an empty result: no calendar survives"},
		{&EmptyResult{Reason: "all networks removed"}, "transformation produced an empty result: all networks removed"},
		{&InvariantViolation{Invariant: "I4", Kind: "Calendar", ID: "c1", Detail: "no active dates"},
			`I4 violated by Calendar "c1": no active dates`},
		{&ObjectNotFound{Kind: "Line", ID: "l9"}, `object not found: Line "l9"`},
	}
	for _, c := range cases {
		if got := c.err.Error(); got != c.want {
			t.Errorf("Error() = %q, want %q", got, c.want)
		}
	}
}

func TestIoErrorUnwraps(t *testing.T) {
	inner := fmt.Errorf("disk full")
	wrapped := &IoError{Op: "writing output", Err: inner}

	if !errors.Is(wrapped, inner) {
		t.Fatal("errors.Is should see through IoError.Unwrap to the wrapped error")
	}
}
