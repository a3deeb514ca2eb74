// Package events fans out committed ledger state to subscribers.
package events

import (
	"sync"
	"time"
)

// PendingWithdrawalView is the snapshot form of the in-flight withdrawal.
type PendingWithdrawalView struct {
	ID          string    `json:"id"`
	VaultID     string    `json:"vault_id"`
	AmountNDLP  string    `json:"amount_ndlp"`
	CooldownEnd time.Time `json:"cooldown_end"`
	Claimable   bool      `json:"claimable"`
}

// StateSnapshot is a domain event representing full ledger state after a
// committed mutation. Uses string fields for amounts to avoid float precision
// issues when consumed by UI layers.
type StateSnapshot struct {
	Timestamp time.Time              `json:"ts"`
	Balances  map[string]string      `json:"balances"`
	Positions map[string]string      `json:"positions"`
	Pending   *PendingWithdrawalView `json:"pending,omitempty"`
}

// Broadcaster fans out snapshots to all subscribers via buffered channels.
// It keeps the API intentionally small so call sites can stay straightforward.
type Broadcaster struct {
	mu     sync.RWMutex
	subs   map[chan StateSnapshot]struct{}
	buffer int
}

// NewBroadcaster creates a broadcaster with the given per-subscriber buffer.
func NewBroadcaster(buffer int) *Broadcaster {
	if buffer < 1 {
		buffer = 64
	}
	return &Broadcaster{
		subs:   make(map[chan StateSnapshot]struct{}),
		buffer: buffer,
	}
}

// Publish sends the snapshot to all subscribers, dropping if a reader is slow.
func (b *Broadcaster) Publish(s StateSnapshot) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs {
		select {
		case ch <- s:
		default:
			// drop slow consumer
		}
	}
}

// Subscribe returns a channel that receives snapshots until Unsubscribe is called.
func (b *Broadcaster) Subscribe() chan StateSnapshot {
	ch := make(chan StateSnapshot, b.buffer)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes the channel and closes it.
func (b *Broadcaster) Unsubscribe(ch chan StateSnapshot) {
	b.mu.Lock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
	b.mu.Unlock()
}
