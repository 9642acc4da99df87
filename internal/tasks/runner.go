package tasks

import (
	"log"
	"sync"
)

// Runner executes submitted units of work on background goroutines. Each unit
// runs at most once; panics are recovered and errors are logged rather than
// dropped or allowed to crash the process.
type Runner struct {
	wg sync.WaitGroup
}

func NewRunner() *Runner {
	return &Runner{}
}

// Submit schedules fn and returns immediately.
func (r *Runner) Submit(name string, fn func() error) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("Task %s panicked: %v", name, rec)
			}
		}()
		if err := fn(); err != nil {
			log.Printf("Task %s failed: %v", name, err)
		}
	}()
}

// Wait blocks until all submitted tasks have finished.
func (r *Runner) Wait() {
	r.wg.Wait()
}
