package session

import (
	"context"
	"errors"
)

// Recorders fans a result out to every recorder in order.
type Recorders []ResultRecorder

// Record implements ResultRecorder. Every recorder is called even when an
// earlier one fails.
//
// Postcondition: Returns all failures joined, or nil.
func (rs Recorders) Record(ctx context.Context, r Result) error {
	var errs []error
	for _, rec := range rs {
		if rec == nil {
			continue
		}
		if err := rec.Record(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
