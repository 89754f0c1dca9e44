package psrs

import "sync"

// barrier is a cyclic counting barrier admitting a fixed number of parties.
// All parties must arrive at wait before any proceeds. The barrier resets
// itself once the last party arrives, so the same instance fences every
// phase transition it is assigned to.
//
// The generation counter distinguishes arrivals of consecutive cycles: a
// party woken by Broadcast only proceeds once the generation has advanced,
// which guards against spurious wakeups and against a fast party re-entering
// the barrier before slow parties have left it.
type barrier struct {
	mu      sync.Mutex
	cond    *sync.Cond
	parties int
	arrived int
	gen     uint64
}

func newBarrier(parties int) *barrier {
	b := &barrier{parties: parties}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// wait blocks until all parties have arrived.
func (b *barrier) wait() {
	b.mu.Lock()
	defer b.mu.Unlock()

	gen := b.gen
	b.arrived++
	if b.arrived == b.parties {
		b.arrived = 0
		b.gen++
		b.cond.Broadcast()
		return
	}
	for gen == b.gen {
		b.cond.Wait()
	}
}
