// Package ink tracks the ink resource players spend to play cards.
package ink

import (
	"errors"
	"fmt"
	"sync"
)

// ErrInsufficientInk is returned when a payment exceeds the available ink.
var ErrInsufficientInk = errors.New("insufficient ink")

// Pool represents a player's inkwell: every inked card adds one capacity;
// paying exerts that many ink until the next Ready phase.
type Pool struct {
	mu       sync.RWMutex
	capacity int
	spent    int
}

// NewPool creates a new empty ink pool.
func NewPool() *Pool {
	return &Pool{}
}

// Add increases capacity, e.g. when a card is put into the inkwell.
func (p *Pool) Add(amount int) {
	if amount <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.capacity += amount
}

// Capacity returns the total ink in the inkwell.
func (p *Pool) Capacity() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.capacity
}

// Available returns the ready ink.
func (p *Pool) Available() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.capacity - p.spent
}

// CanPay reports whether cost can be paid from ready ink.
func (p *Pool) CanPay(cost int) bool {
	return cost <= p.Available()
}

// Pay exerts cost ink. A non-positive cost is free.
func (p *Pool) Pay(cost int) error {
	if cost <= 0 {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if cost > p.capacity-p.spent {
		return fmt.Errorf("%w: need %d, have %d", ErrInsufficientInk, cost, p.capacity-p.spent)
	}
	p.spent += cost
	return nil
}

// Refresh readies all ink.
func (p *Pool) Refresh() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.spent = 0
}
