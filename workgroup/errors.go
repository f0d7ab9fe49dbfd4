package workgroup

import "github.com/pkg/errors"

// ErrDivergentBarrier is returned when a barrier is first entered by a
// work-item other than work-item 0, which means the work-items in the group
// did not all take the same control-flow path to their barrier calls.
var ErrDivergentBarrier = errors.New("workgroup: barrier entered by a work-item other than 0 first; divergent control flow")

// wrapKernelPanic turns a recovered panic value from kernel code into an error.
func wrapKernelPanic(r interface{}) error {
	return errors.Errorf("workgroup: kernel panicked: %v", r)
}
