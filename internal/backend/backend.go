// Package backend defines the single capability the batching engine borrows
// from the outside world: given an ordered slice of inputs, produce an
// equal-length ordered slice of outputs, or fail the whole batch.
//
// Everything framework-specific (weights, tensors, parameter maps) lives
// behind this capability and is none of this package's concern; see
// original_source/Servable/DlibServable for the shape this generalizes.
package backend

import "fmt"

// Item is one element of a batch, as deserialized by the caller from the
// opaque wire payload. The batching engine never inspects an Item's
// contents; it only counts, slices, and reorders them.
type Item interface{}

// Func runs one batch. len(outputs) must equal len(inputs); any Func that
// violates this is considered to have failed the batch.
type Func func(inputs []Item) ([]Item, error)

// ErrLengthMismatch is returned by Run when a Func's own contract is broken.
type ErrLengthMismatch struct {
	Want int
	Got  int
}

func (e *ErrLengthMismatch) Error() string {
	return fmt.Sprintf("backend: expected %d outputs, got %d", e.Want, e.Got)
}

// Run invokes fn and validates the length contract that the rest of the
// batching engine relies on.
func Run(fn Func, inputs []Item) ([]Item, error) {
	outputs, err := fn(inputs)
	if err != nil {
		return nil, err
	}
	if len(outputs) != len(inputs) {
		return nil, &ErrLengthMismatch{Want: len(inputs), Got: len(outputs)}
	}
	return outputs, nil
}
