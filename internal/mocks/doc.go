// Package mocks provides hand-written mock implementations of the service,
// store and auth interfaces for use in tests.
//
// Each mock exposes a function field per method. When a field is nil the
// mock falls back to its default return values, so a test only wires the
// behavior it cares about:
//
//	tasks := &mocks.MockTaskService{
//	    ListTasksFn: func(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
//	        return nil, errors.New("boom")
//	    },
//	}
package mocks
