package scheduler

import "github.com/ystepanoff/pktsched/classconf"

// Stats holds the cumulative, externally-observable counters returned by
// Context.Snapshot; `pktschedctl start` prints them when it stops.
type Stats struct {
	PacketsProcessed   int64
	PacketsTransmitted int64
	DeadlineMisses     int64
	QueueLens          [classconf.NumClasses]int
}
