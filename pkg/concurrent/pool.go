package concurrent

import (
	"errors"
	"time"
)

var ErrScheduleTimeout = errors.New("schedule error: timed out")

// Pool is a goroutine pool for short tasks such as serving one websocket frame. at most size
// goroutines run at a time and up to queue tasks wait for a free goroutine.
type Pool struct {
	sem  chan struct{}
	work chan func()
}

// NewPool. spawn goroutines are started up front and must not exceed size.
func NewPool(size, queue, spawn int) *Pool {
	if spawn <= 0 && queue > 0 {
		panic("dead queue configuration detected")
	}
	if spawn > size {
		panic("spawn > workers")
	}
	p := &Pool{
		sem:  make(chan struct{}, size),
		work: make(chan func(), queue),
	}
	for i := 0; i < spawn; i++ {
		p.sem <- struct{}{}
		go p.worker(func() {})
	}
	return p
}

func (p *Pool) Schedule(task func()) {
	p.schedule(task, nil)
}

// ScheduleTimeout. returns ErrScheduleTimeout when no goroutine picked the task within timeout.
func (p *Pool) ScheduleTimeout(timeout time.Duration, task func()) error {
	return p.schedule(task, time.After(timeout))
}

func (p *Pool) schedule(task func(), timeout <-chan time.Time) error {
	select {
	case <-timeout:
		return ErrScheduleTimeout
	case p.work <- task:
		return nil
	case p.sem <- struct{}{}:
		go p.worker(task)
		return nil
	}
}

func (p *Pool) worker(task func()) {
	defer func() { <-p.sem }()

	task()

	for task := range p.work {
		task()
	}
}

// Close. no task may be scheduled after Close.
func (p *Pool) Close() {
	close(p.work)
}
