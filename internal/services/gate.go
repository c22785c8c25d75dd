package services

import "sync"

// StoreGate serializes every mutation of the shared record store: snapshot
// merges, lifecycle transitions and location-tree changes all take it around
// their apply phase. Reads run through plain transactions and observe either
// the pre- or post-state of a mutation, never a partial one.
type StoreGate struct {
	mu sync.Mutex
}

func NewStoreGate() *StoreGate {
	return &StoreGate{}
}

func (g *StoreGate) Lock()   { g.mu.Lock() }
func (g *StoreGate) Unlock() { g.mu.Unlock() }
