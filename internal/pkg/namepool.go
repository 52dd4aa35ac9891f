package pkg

import (
	"strconv"
	"sync"
)

// guestNames - the candidate pool for clients that ask for a server-assigned
// name. Once the pool is exhausted, candidates get a numeric suffix, so the
// pool never runs dry. The lobby arbitrates actual uniqueness.
var guestNames = []string{
	"Ada", "Blaise", "Claude", "Dennis", "Edsger",
	"Grace", "Haskell", "John", "Ken", "Linus",
	"Margaret", "Niklaus", "Rob", "Robin", "Tim",
}

// NamePool - a concurrency-safe source of candidate display names.
type NamePool struct {
	mu   sync.Mutex
	next int
}

// NewNamePool - returns a pool starting from the first candidate.
func NewNamePool() *NamePool {
	return &NamePool{}
}

// Next - returns the next candidate name.
func (that *NamePool) Next() string {
	that.mu.Lock()
	defer that.mu.Unlock()

	index := that.next
	that.next++

	name := guestNames[index%len(guestNames)]
	if round := index / len(guestNames); round > 0 {
		name += strconv.Itoa(round)
	}

	return name
}
