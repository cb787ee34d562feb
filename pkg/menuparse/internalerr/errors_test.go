package internalerr

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelsAreDistinct(t *testing.T) {
	all := []error{ErrNotFound, ErrInvalidInput, ErrStoreUnavailable, ErrInvalidConfig}

	for i, sentinel := range all {
		wrapped := fmt.Errorf("menu p1: %w", sentinel)
		for j, other := range all {
			if got := errors.Is(wrapped, other); got != (i == j) {
				t.Errorf("errors.Is(%v, %v) = %v", wrapped, other, got)
			}
		}
	}
}
