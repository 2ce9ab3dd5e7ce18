package telegram

import "sync"

// Dispatcher runs tasks in submission order per key, with different keys
// running concurrently. A key's goroutine exits once its queue drains.
type Dispatcher struct {
	mu     sync.Mutex
	queues map[int64][]func()
	wg     sync.WaitGroup
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{queues: make(map[int64][]func())}
}

func (d *Dispatcher) Submit(key int64, task func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	q, running := d.queues[key]
	d.queues[key] = append(q, task)
	if !running {
		d.wg.Add(1)
		go d.drain(key)
	}
}

func (d *Dispatcher) drain(key int64) {
	defer d.wg.Done()
	for {
		d.mu.Lock()
		q := d.queues[key]
		if len(q) == 0 {
			delete(d.queues, key)
			d.mu.Unlock()
			return
		}
		task := q[0]
		d.queues[key] = q[1:]
		d.mu.Unlock()

		task()
	}
}

// Wait blocks until every submitted task has run.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
