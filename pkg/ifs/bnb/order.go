package bnb

import (
	"math/rand"
	"sync"
)

// EntityOrder picks the next entity to pop from a Queue. candidates is
// the queue's current contents; implementations return an index into it.
type EntityOrder interface {
	Next(candidates []Entity) int
}

// OrderDefault pops entities in their original (FIFO) order.
type OrderDefault struct{}

func (OrderDefault) Next(candidates []Entity) int { return 0 }

// OrderMostConstrained pops the entity whose requests have the fewest
// total candidate values summed across the bundle, on the theory that the
// most tightly constrained entity should be scheduled first while the
// Model has the most freedom left to satisfy it.
type OrderMostConstrained struct{}

func (OrderMostConstrained) Next(candidates []Entity) int {
	best := 0
	bestCount := domainSize(candidates[0])
	for i, e := range candidates[1:] {
		if c := domainSize(e); c < bestCount {
			best = i + 1
			bestCount = c
		}
	}
	return best
}

func domainSize(e Entity) int {
	total := 0
	for _, req := range e.Requests() {
		total += len(req.Values())
	}
	return total
}

// OrderRandom pops a uniformly random entity. Rng must be owned
// per-worker: never share one OrderRandom across concurrent queues.
type OrderRandom struct {
	Rng *rand.Rand
}

func (o OrderRandom) Next(candidates []Entity) int {
	rng := o.Rng
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return rng.Intn(len(candidates))
}

// Queue is the mutable per-entity work queue branch-and-bound workers
// consume from, mutex-protected since multiple workers may pop from it
// concurrently.
type Queue struct {
	mu       sync.Mutex
	entities []Entity
	order    EntityOrder
}

// NewQueue returns a Queue over entities, popped according to order (nil
// defaults to OrderDefault).
func NewQueue(entities []Entity, order EntityOrder) *Queue {
	if order == nil {
		order = OrderDefault{}
	}
	cp := append([]Entity(nil), entities...)
	return &Queue{entities: cp, order: order}
}

// Pop removes and returns the next entity per the Queue's EntityOrder, or
// ok=false if the queue is empty.
func (q *Queue) Pop() (Entity, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.entities) == 0 {
		return nil, false
	}
	i := q.order.Next(q.entities)
	e := q.entities[i]
	q.entities = append(q.entities[:i], q.entities[i+1:]...)
	return e, true
}

// Push adds e back onto the queue, e.g. for a later retry pass.
func (q *Queue) Push(e Entity) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.entities = append(q.entities, e)
}

// Len reports how many entities remain in the queue.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entities)
}
