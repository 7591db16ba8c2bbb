package sampler

import (
	"errors"
	"fmt"
)

var ErrInvalidSampleCount = errors.New("the number of samples per group must be at least 1")

// InsufficientGroupSizeError is returned when a group holds fewer pairs than
// were requested. Sampling is without replacement, so the request cannot be
// satisfied.
type InsufficientGroupSizeError struct {
	Group     string
	Size      int
	Requested int
}

func (e *InsufficientGroupSizeError) Error() string {
	return fmt.Sprintf("group %q has %d pairs, fewer than the %d requested", e.Group, e.Size, e.Requested)
}
