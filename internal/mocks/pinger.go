package mocks

import "context"

// MockPinger reports database reachability for health check tests.
type MockPinger struct {
	PingContextFn func(ctx context.Context) error

	// Err is returned when PingContextFn is nil
	Err error

	// Calls counts PingContext invocations
	Calls int
}

// PingContext implements the Pinger interface of the HTTP router
func (m *MockPinger) PingContext(ctx context.Context) error {
	m.Calls++
	if m.PingContextFn != nil {
		return m.PingContextFn(ctx)
	}
	return m.Err
}
