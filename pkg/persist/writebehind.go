package persist

import (
	"context"
	"sync"
	"time"
)

// SaveFunc persists one user's keys.
type SaveFunc func(ctx context.Context, user string, keys []string) error

type pendingWrite struct {
	user string
	keys []string
}

type batch struct {
	writes []pendingWrite
	done   chan error
}

// WriteBehind buffers the latest saved-word snapshot per user and writes it
// from a single committer goroutine. Submit never touches the store and never
// waits for it.
type WriteBehind struct {
	// mu guards pending, order and closed. It is never held while sending to
	// the committer.
	mu          sync.Mutex
	pending     map[string][]string
	order       []string
	flushTicker *time.Ticker
	closed      bool
	wg          sync.WaitGroup

	// sendMu orders taking a batch and handing it over, so batches reach the
	// store in submission order. Lock order is sendMu, then mu.
	sendMu   sync.Mutex
	stop     chan struct{}
	commitCh chan batch
	save     SaveFunc
	OnError  func(error)

	// errMu guards lastErr, the first asynchronous error.
	errMu   sync.Mutex
	lastErr error
}

// NewWriteBehind starts a writer calling save. flushInterval 0 disables the
// periodic flush; snapshots are then written only on Flush and Close.
func NewWriteBehind(save SaveFunc, flushInterval time.Duration) *WriteBehind {
	wb := &WriteBehind{
		pending:  make(map[string][]string),
		stop:     make(chan struct{}),
		commitCh: make(chan batch, 2),
		save:     save,
	}

	wb.wg.Add(1)
	go wb.committer()

	if flushInterval > 0 {
		wb.flushTicker = time.NewTicker(flushInterval)
		wb.wg.Add(1)
		go wb.loop()
	}
	return wb
}

// Submit replaces the pending snapshot for user. Earlier unflushed snapshots
// for the same user are dropped.
func (wb *WriteBehind) Submit(user string, keys []string) error {
	wb.mu.Lock()
	defer wb.mu.Unlock()
	if wb.closed {
		return ErrWriterClosed
	}
	if _, ok := wb.pending[user]; !ok {
		wb.order = append(wb.order, user)
	}
	wb.pending[user] = append([]string(nil), keys...)
	return nil
}

// Flush writes every pending snapshot and waits for the result.
func (wb *WriteBehind) Flush() error {
	wb.sendMu.Lock()
	wb.mu.Lock()
	if wb.closed {
		wb.mu.Unlock()
		wb.sendMu.Unlock()
		return ErrWriterClosed
	}
	b, ok := wb.takeLocked(make(chan error, 1))
	wb.mu.Unlock()
	if ok {
		wb.commitCh <- b
	}
	wb.sendMu.Unlock()

	if !ok {
		return nil
	}
	return <-b.done
}

// takeLocked assumes wb.mu is held. It empties pending into a batch.
func (wb *WriteBehind) takeLocked(done chan error) (batch, bool) {
	if len(wb.pending) == 0 {
		return batch{}, false
	}
	b := batch{writes: make([]pendingWrite, 0, len(wb.order)), done: done}
	for _, u := range wb.order {
		b.writes = append(b.writes, pendingWrite{user: u, keys: wb.pending[u]})
	}
	wb.pending = make(map[string][]string)
	wb.order = nil
	return b, true
}

func (wb *WriteBehind) record(err error) {
	wb.errMu.Lock()
	if wb.lastErr == nil {
		wb.lastErr = err
	}
	wb.errMu.Unlock()
	if wb.OnError != nil {
		wb.OnError(err)
	}
}

func (wb *WriteBehind) committer() {
	defer wb.wg.Done()
	for b := range wb.commitCh {
		var first error
		for _, w := range b.writes {
			// Background context so a closing writer still finishes its batch.
			if err := wb.save(context.Background(), w.user, w.keys); err != nil {
				wb.record(err)
				if first == nil {
					first = err
				}
			}
		}
		if b.done != nil {
			b.done <- first
		}
	}
}

func (wb *WriteBehind) loop() {
	defer wb.wg.Done()
	for {
		select {
		case <-wb.stop:
			return
		case <-wb.flushTicker.C:
			// Blocking here while the store is slow only delays the next tick.
			wb.sendMu.Lock()
			wb.mu.Lock()
			var b batch
			ok := false
			if !wb.closed {
				b, ok = wb.takeLocked(nil)
			}
			wb.mu.Unlock()
			if ok {
				wb.commitCh <- b
			}
			wb.sendMu.Unlock()
		}
	}
}

// Close flushes pending snapshots, stops the goroutines and returns the first
// error seen while writing.
func (wb *WriteBehind) Close() error {
	wb.sendMu.Lock()
	wb.mu.Lock()
	if wb.closed {
		wb.mu.Unlock()
		wb.sendMu.Unlock()
		return ErrWriterClosed
	}
	wb.closed = true
	if wb.flushTicker != nil {
		wb.flushTicker.Stop()
	}
	b, ok := wb.takeLocked(nil)
	wb.mu.Unlock()
	if ok {
		wb.commitCh <- b
	}
	close(wb.stop)
	close(wb.commitCh)
	wb.sendMu.Unlock()

	wb.wg.Wait()

	wb.errMu.Lock()
	defer wb.errMu.Unlock()
	return wb.lastErr
}

var ErrWriterClosed = &WriterError{"write-behind closed"}

type WriterError struct{ msg string }

func (e *WriterError) Error() string { return e.msg }
