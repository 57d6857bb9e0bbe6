package runtime

import (
	stdruntime "runtime"
	"sync"
)

// WorkerPool runs spawned task bodies on a fixed set of goroutines. The
// queue is unbounded so Submit never blocks the evaluator; a full pool just
// means queued bodies wait for a free worker.
type WorkerPool struct {
	mu     sync.Mutex
	wake   *sync.Cond
	queue  []func()
	closed bool
	size   int
}

// NewWorkerPool starts size workers (minimum one).
func NewWorkerPool(size int) *WorkerPool {
	if size < 1 {
		size = 1
	}
	p := &WorkerPool{size: size}
	p.wake = sync.NewCond(&p.mu)
	for i := 0; i < size; i++ {
		go p.worker()
	}
	return p
}

func (p *WorkerPool) worker() {
	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.closed {
			p.wake.Wait()
		}
		if len(p.queue) == 0 {
			p.mu.Unlock()
			return
		}
		task := p.queue[0]
		p.queue = p.queue[1:]
		p.mu.Unlock()
		task()
	}
}

// Submit enqueues work and returns immediately. After Close it is a no-op.
func (p *WorkerPool) Submit(task func()) {
	p.mu.Lock()
	if !p.closed {
		p.queue = append(p.queue, task)
		p.wake.Signal()
	}
	p.mu.Unlock()
}

// Size reports the worker count.
func (p *WorkerPool) Size() int {
	return p.size
}

// Close drains the queue and lets workers exit once it is empty.
func (p *WorkerPool) Close() {
	p.mu.Lock()
	p.closed = true
	p.wake.Broadcast()
	p.mu.Unlock()
}

var sharedPool = sync.OnceValue(func() *WorkerPool {
	return NewWorkerPool(max(2, stdruntime.GOMAXPROCS(0)))
})

// SharedPool returns the process-wide pool used when an interpreter is not
// configured with its own.
func SharedPool() *WorkerPool {
	return sharedPool()
}
