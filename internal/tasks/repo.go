package tasks

import (
	"context"
	"slices"
	"sync"
)

// UpdateFunc receives the stored task and returns the task to store.
// Returning an error aborts the update and leaves the record unchanged.
type UpdateFunc func(Task) (Task, error)

// Repository stores tasks. Implementations must be safe for concurrent use
// and must run Update as a single atomic read-modify-write.
type Repository interface {
	Insert(ctx context.Context, t Task) error
	Get(ctx context.Context, id string) (Task, error)
	List(ctx context.Context, q ListQuery) ([]Task, error)
	Update(ctx context.Context, id string, fn UpdateFunc) (Task, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context) (map[Status]int, error)
}

type record struct {
	task Task
	seq  uint64
}

var _ Repository = (*InMemoryRepo)(nil)

type InMemoryRepo struct {
	mu    sync.RWMutex
	seq   uint64
	store map[string]record
}

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		store: make(map[string]record),
	}
}

func (r *InMemoryRepo) Insert(_ context.Context, t Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	r.store[t.ID] = record{task: t, seq: r.seq}
	return nil
}

func (r *InMemoryRepo) Get(_ context.Context, id string) (Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.store[id]
	if !ok {
		return Task{}, &NotFoundError{ID: id}
	}
	return rec.task, nil
}

// List orders by created_at descending; equal timestamps keep insertion order.
func (r *InMemoryRepo) List(_ context.Context, q ListQuery) ([]Task, error) {
	r.mu.RLock()
	recs := make([]record, 0, len(r.store))
	for _, rec := range r.store {
		if q.Status != "" && rec.task.Status != q.Status {
			continue
		}
		recs = append(recs, rec)
	}
	r.mu.RUnlock()

	slices.SortFunc(recs, func(a, b record) int {
		if c := b.task.CreatedAt.Compare(a.task.CreatedAt); c != 0 {
			return c
		}
		switch {
		case a.seq < b.seq:
			return -1
		case a.seq > b.seq:
			return 1
		}
		return 0
	})

	out := make([]Task, 0)
	if q.Offset >= len(recs) {
		return out, nil
	}
	end := min(q.Offset+q.Limit, len(recs))
	for _, rec := range recs[q.Offset:end] {
		out = append(out, rec.task)
	}
	return out, nil
}

func (r *InMemoryRepo) Update(_ context.Context, id string, fn UpdateFunc) (Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.store[id]
	if !ok {
		return Task{}, &NotFoundError{ID: id}
	}
	next, err := fn(rec.task)
	if err != nil {
		return Task{}, err
	}
	// id and created_at are owned by the store
	next.ID = rec.task.ID
	next.CreatedAt = rec.task.CreatedAt
	rec.task = next
	r.store[id] = rec
	return next, nil
}

func (r *InMemoryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[id]; !ok {
		return &NotFoundError{ID: id}
	}
	delete(r.store, id)
	return nil
}

func (r *InMemoryRepo) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.store), nil
}

func (r *InMemoryRepo) CountByStatus(_ context.Context) (map[Status]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[Status]int)
	for _, rec := range r.store {
		out[rec.task.Status]++
	}
	return out, nil
}
