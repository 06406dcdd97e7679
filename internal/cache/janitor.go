package cache

import (
	"sync"
	"time"

	"fjacquet/ledger-analytics/internal/logging"
)

// Cleaner is implemented by caches that can drop expired entries.
type Cleaner interface {
	CleanExpired() int
}

// Janitor periodically removes expired entries from registered caches.
type Janitor struct {
	logger   logging.Logger
	caches   []Cleaner
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	started  bool
}

// NewJanitor creates a Janitor for the given caches.
func NewJanitor(logger logging.Logger, caches ...Cleaner) *Janitor {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Janitor{
		logger: logger,
		caches: caches,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Sweep cleans every registered cache once and returns the number of removed entries.
func (j *Janitor) Sweep() int {
	total := 0
	for _, c := range j.caches {
		total += c.CleanExpired()
	}
	return total
}

// Start begins periodic cleanup. A non-positive interval disables it.
func (j *Janitor) Start(interval time.Duration) {
	if interval <= 0 || j.started {
		return
	}
	j.started = true
	go j.run(interval)
}

func (j *Janitor) run(interval time.Duration) {
	defer close(j.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := j.Sweep(); removed > 0 {
				j.logger.Debug("Removed expired cache entries", logging.F(logging.FieldCount, removed))
			}
		case <-j.stop:
			return
		}
	}
}

// Stop halts the cleanup goroutine and waits for it to exit.
func (j *Janitor) Stop() {
	j.stopOnce.Do(func() {
		close(j.stop)
		if j.started {
			<-j.done
		}
	})
}
