package scheduler

import "errors"

// ErrInvalidPacket is returned by Enqueue when the data type does not
// match the class's configured type, the element count is less than 1,
// or the computed size exceeds wire.MaxPacketSize.
var ErrInvalidPacket = errors.New("scheduler: invalid packet")
