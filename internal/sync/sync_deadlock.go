//go:build feign_deadlock

// Build with -tags feign_deadlock to swap the primitives for their
// lock-order checking counterparts.
package sync

import "github.com/sasha-s/go-deadlock"

type (
	Mutex     = deadlock.Mutex
	RWMutex   = deadlock.RWMutex
	Once      = deadlock.Once
	WaitGroup = deadlock.WaitGroup
	Map       = deadlock.Map
)
