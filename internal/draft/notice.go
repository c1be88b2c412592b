package draft

import (
	"sync"
	"time"
)

// DefaultNoticeTTL is how long a notice stays visible unless the server
// supplies its own display hint.
const DefaultNoticeTTL = 2500 * time.Millisecond

// Notice is a transient banner message.
type Notice struct {
	Message string
	IsError bool
}

// Notices holds the single currently visible banner. Each Post supersedes
// the previous notice and schedules its own expiry; a generation counter
// keeps a stale timer from clearing a newer notice.
type Notices struct {
	mu      sync.Mutex
	current *Notice
	gen     uint64
	timer   *time.Timer
}

// NewNotices creates an empty notice holder.
func NewNotices() *Notices {
	return &Notices{}
}

// Post replaces the current notice. A zero ttl uses DefaultNoticeTTL.
func (n *Notices) Post(message string, isError bool, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultNoticeTTL
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.timer != nil {
		n.timer.Stop()
	}
	n.gen++
	n.current = &Notice{Message: message, IsError: isError}

	gen := n.gen
	n.timer = time.AfterFunc(ttl, func() {
		n.expire(gen)
	})
}

// Current returns the visible notice, or nil.
func (n *Notices) Current() *Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Clear removes the notice immediately.
func (n *Notices) Clear() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.gen++
	n.current = nil
}

func (n *Notices) expire(gen uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if gen != n.gen {
		return
	}
	n.current = nil
	n.timer = nil
}
