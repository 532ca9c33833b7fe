package worker

import (
	"errors"
	"sync"

	"go.uber.org/zap"
)

// ErrStopped 表示 pool 已關閉，不再接受工作
var ErrStopped = errors.New("worker pool stopped")

// Task represents a unit of work executed by the pool.
type Task func()

// Pool defines a simple worker pool.
type Pool interface {
	Submit(Task) error
	Stop()
}

// NewPool creates a pool with n workers. n<=0 defaults to 1.
// 佇列長度為 n，滿了以後 Submit 會阻塞直到有 worker 空出
func NewPool(n int, log *zap.Logger) Pool {
	if n <= 0 {
		n = 1
	}
	p := &pool{jobs: make(chan Task, n), log: log}
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
	log     *zap.Logger
	mu      sync.RWMutex
	stopped bool
}

// run 執行單一工作，panic 只記錄不影響其他 worker
func (p *pool) run(job Task) {
	if job == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("worker task panicked", zap.Any("panic", r))
		}
	}()
	job()
}

func (p *pool) Submit(t Task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return ErrStopped
	}
	p.jobs <- t
	return nil
}

// Stop 等待已送出的工作全部完成；可重複呼叫
func (p *pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.jobs)
	p.mu.Unlock()
	p.wg.Wait()
}
