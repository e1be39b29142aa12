package definition

import (
	"sync"

	"github.com/c360/wirekit/errors"
)

// Chain is the ordered sequence of interceptors installed on the registry's
// instantiation path. Bootstrap appends interceptors in tier order; adding
// an interceptor that is already installed moves it to the end of the chain,
// which is how internal (merged-metadata) interceptors are re-installed at
// the tail.
type Chain struct {
	mu           sync.RWMutex
	interceptors []Interceptor
}

// Add installs an interceptor at the end of the chain. If the interceptor is
// already installed it is moved to the end instead of duplicated.
func (c *Chain) Add(i Interceptor) {
	if i == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for idx, existing := range c.interceptors {
		if existing == i {
			c.interceptors = append(c.interceptors[:idx], c.interceptors[idx+1:]...)
			break
		}
	}
	c.interceptors = append(c.interceptors, i)
}

// Count returns the number of installed interceptors.
func (c *Chain) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.interceptors)
}

// Interceptors returns a snapshot of the chain in installation order.
func (c *Chain) Interceptors() []Interceptor {
	c.mu.RLock()
	defer c.mu.RUnlock()
	snapshot := make([]Interceptor, len(c.interceptors))
	copy(snapshot, c.interceptors)
	return snapshot
}

// applyMerged notifies every merged-metadata interceptor of a freshly merged
// definition.
func (c *Chain) applyMerged(name string, def *Definition) {
	for _, i := range c.Interceptors() {
		if merged, ok := i.(MergedInterceptor); ok {
			merged.InterceptMergedDefinition(name, def)
		}
	}
}

// applyBeforeInit runs every BeforeInit hook in chain order. An interceptor
// may replace the instance by returning a different value; a nil return
// keeps the current instance.
func (c *Chain) applyBeforeInit(name string, instance any) (any, error) {
	for _, i := range c.Interceptors() {
		next, err := i.BeforeInit(name, instance)
		if err != nil {
			return nil, errors.Wrap(err, "Chain", "applyBeforeInit", "interceptor invocation")
		}
		if next != nil {
			instance = next
		}
	}
	return instance, nil
}

// applyAfterInit runs every AfterInit hook in chain order.
func (c *Chain) applyAfterInit(name string, instance any) (any, error) {
	for _, i := range c.Interceptors() {
		next, err := i.AfterInit(name, instance)
		if err != nil {
			return nil, errors.Wrap(err, "Chain", "applyAfterInit", "interceptor invocation")
		}
		if next != nil {
			instance = next
		}
	}
	return instance, nil
}

// applyBeforeDestruction runs destruction hooks in chain order.
func (c *Chain) applyBeforeDestruction(name string, instance any) {
	for _, i := range c.Interceptors() {
		if destroyer, ok := i.(DestructionInterceptor); ok {
			destroyer.BeforeDestruction(name, instance)
		}
	}
}
