// Package sequence numbers records in stores whose keys must sort in write
// order, such as the pebble log.
package sequence

import "sync/atomic"

// Sequencer issues the position of the next appended record. A store seeds
// it with the highest position already on disk, so positions keep growing
// across reopen and never repeat; 0 means "nothing stored yet".
type Sequencer struct {
	pos atomic.Uint64
}

// New seeds a sequencer with the last stored position.
func New(stored uint64) *Sequencer {
	s := &Sequencer{}
	s.pos.Store(stored)
	return s
}

// Next claims the position for a new record.
func (s *Sequencer) Next() uint64 {
	return s.pos.Add(1)
}

// Current is the last claimed position, which for an append-only store is
// also the number of records written.
func (s *Sequencer) Current() uint64 {
	return s.pos.Load()
}
