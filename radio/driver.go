// Package radio models the radio as a small capability surface, per the
// design notes: transmit, RSSI query, and power control. This lets the
// scheduler, receiver pipeline, and TX-power controller all be tested
// against a mock radio without any hardware bring-up, association, or
// channel-state collection — those remain external collaborators.
package radio

// Driver is the capability surface the scheduler and receiver pipeline
// depend on. Bring-up/association and credential handling sit above
// this interface and are out of scope here.
type Driver interface {
	// Send transmits one already-encoded frame. It may block.
	Send(frame []byte) error

	// QueryRSSI returns the most recently observed link quality in dBm,
	// or an error if no reading is currently available.
	QueryRSSI() (int8, error)

	// SetPower applies a discrete transmit power level.
	SetPower(level Level) error

	// OnReceive registers the callback invoked by the radio stack for
	// every frame it receives. Only one callback is retained; a second
	// call replaces the first.
	OnReceive(cb func(frame []byte))
}
