package worker

import "sync"

// Task represents a unit of work executed by the pool.
type Task func()

// Pool runs submitted tasks on a fixed set of goroutines.
type Pool interface {
	Submit(Task)
	Stop()
}

// PanicHandler receives the value recovered from a panicking task.
type PanicHandler func(recovered any)

// NewPool creates a pool with n workers. n<=0 defaults to 1.
// onPanic may be nil, in which case panics are swallowed so the worker survives.
func NewPool(n int, onPanic PanicHandler) Pool {
	if n <= 0 {
		n = 1
	}
	p := &pool{jobs: make(chan Task, n), onPanic: onPanic}
	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				p.run(job)
			}
		}()
	}
	return p
}

type pool struct {
	jobs    chan Task
	wg      sync.WaitGroup
	onPanic PanicHandler
}

func (p *pool) run(job Task) {
	if job == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil && p.onPanic != nil {
			p.onPanic(r)
		}
	}()
	job()
}

func (p *pool) Submit(t Task) {
	p.jobs <- t
}

// Stop waits for queued tasks to finish. Submit must not be called afterwards.
func (p *pool) Stop() {
	close(p.jobs)
	p.wg.Wait()
}

// Inline runs every task synchronously on the caller's goroutine.
type Inline struct{}

func (Inline) Submit(t Task) {
	if t != nil {
		t()
	}
}

func (Inline) Stop() {}
