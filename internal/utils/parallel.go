package utils

import (
	"sync"
)

// WorkerPool fans tasks out over a fixed number of goroutines. The sweep
// uses it to issue blob deletions concurrently without spawning one
// goroutine per swept file.
type WorkerPool struct {
	taskChan chan func()
	wg       sync.WaitGroup
}

// NewWorkerPool starts maxWorkers workers consuming queued tasks.
func NewWorkerPool(maxWorkers int) *WorkerPool {
	pool := &WorkerPool{
		taskChan: make(chan func(), maxWorkers*2),
	}
	for i := 0; i < maxWorkers; i++ {
		go pool.worker()
	}
	return pool
}

func (p *WorkerPool) worker() {
	for task := range p.taskChan {
		task()
		p.wg.Done()
	}
}

// AddTask queues a task for execution.
func (p *WorkerPool) AddTask(task func()) {
	p.wg.Add(1)
	p.taskChan <- task
}

// Wait blocks until all queued tasks have finished.
func (p *WorkerPool) Wait() {
	p.wg.Wait()
}

// Close stops the workers. No tasks may be added afterwards.
func (p *WorkerPool) Close() {
	close(p.taskChan)
}
