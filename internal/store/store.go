// Package store owns the in-memory task collection and keeps it in sync with
// a key/value backend.
//
// Every mutation that changes the collection hands a snapshot of the whole
// collection to a background saver. Mutations never wait for the write; the
// saver writes the most recent snapshot and drops older ones still queued.
// Load and save failures are logged and swallowed: the in-memory collection
// is always authoritative.
package store

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"todo/internal/storage"
	"todo/internal/task"
)

// Store is the task collection owned by a single controller.
type Store struct {
	kv    storage.KV
	key   string
	log   *logrus.Entry
	now   func() time.Time
	newID func() string

	mu      sync.Mutex
	tasks   []task.Task
	loading bool
	closed  bool

	// Saver state, guarded by mu.
	pending *string // latest snapshot not yet handed to the backend
	queued  uint64  // snapshots queued so far
	written uint64  // snapshots the saver has finished with
	idle    *sync.Cond

	wake    chan struct{}
	quit    chan struct{}
	stopped chan struct{}
}

// New creates a store backed by kv and starts its saver.
// The store reports Loading until Initialize returns.
func New(kv storage.KV, opts ...Option) *Store {
	s := &Store{
		kv:      kv,
		key:     DefaultKey,
		log:     logrus.NewEntry(logrus.StandardLogger()),
		now:     time.Now,
		newID:   uuid.NewString,
		loading: true,
		wake:    make(chan struct{}, 1),
		quit:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.idle = sync.NewCond(&s.mu)
	go s.run()
	return s
}

// Initialize replaces the collection with the persisted one.
// A missing key, a read failure or an unparsable snapshot all yield an empty
// collection. Loading is false once Initialize returns.
func (s *Store) Initialize(ctx context.Context) {
	tasks := s.load(ctx)

	s.mu.Lock()
	s.tasks = tasks
	s.loading = false
	s.mu.Unlock()
}

func (s *Store) load(ctx context.Context) []task.Task {
	log := s.log.WithField("key", s.key)

	data, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		log.WithError(err).Warn("load tasks failed; starting empty")
		return nil
	}
	if !ok {
		log.Debug("no saved tasks")
		return nil
	}

	tasks, skipped, err := Decode(data)
	if err != nil {
		log.WithError(err).Warn("saved tasks unreadable; starting empty")
		return nil
	}
	if skipped > 0 {
		log.WithField("skipped", skipped).Warn("dropped invalid saved tasks")
	}
	log.WithField("count", len(tasks)).Debug("loaded tasks")
	return tasks
}

// Loading reports whether the initial load is still outstanding.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Tasks returns a copy of the collection in insertion order.
func (s *Store) Tasks() []task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.tasks)
}

// Get returns the task with the given id.
func (s *Store) Get(id string) (task.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.tasks[i], true
	}
	return task.Task{}, false
}

// Add appends a new pending task. Text is trimmed; empty text is ignored and
// Add reports false.
func (s *Store) Add(text string, due *task.Date) (task.Task, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return task.Task{}, false
	}

	t := task.Task{
		ID:        s.newID(),
		Text:      text,
		CreatedAt: s.now().UTC(),
	}
	if due != nil {
		d := *due
		t.DueDate = &d
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, t)
	s.persistLocked()
	return t, true
}

// Remove deletes the task with the given id. Unknown ids are ignored.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return false
	}
	s.tasks = slices.Delete(s.tasks, i, i+1)
	s.persistLocked()
	return true
}

// Toggle flips the completed flag of the task with the given id.
// Unknown ids are ignored.
func (s *Store) Toggle(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return false
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	s.persistLocked()
	return true
}

// ClearCompleted removes every completed task and returns how many were
// removed. Pending tasks keep their order.
func (s *Store) ClearCompleted() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]task.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if !t.Completed {
			kept = append(kept, t)
		}
	}
	removed := len(s.tasks) - len(kept)
	if removed == 0 {
		return 0
	}
	s.tasks = kept
	s.persistLocked()
	return removed
}

func (s *Store) indexLocked(id string) int {
	return slices.IndexFunc(s.tasks, func(t task.Task) bool { return t.ID == id })
}

// persistLocked queues a snapshot of the current collection for the saver.
func (s *Store) persistLocked() {
	if s.closed {
		s.log.WithField("key", s.key).Warn("store closed; change not saved")
		return
	}
	data, err := Encode(s.tasks)
	if err != nil {
		s.log.WithError(err).Warn("snapshot failed")
		return
	}
	s.pending = &data
	s.queued++
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Store) run() {
	defer close(s.stopped)
	for {
		select {
		case <-s.wake:
			s.drain()
		case <-s.quit:
			s.drain()
			return
		}
	}
}

// drain writes pending snapshots until none is left.
func (s *Store) drain() {
	for {
		s.mu.Lock()
		data, seq := s.pending, s.queued
		s.pending = nil
		s.mu.Unlock()

		if data == nil {
			return
		}

		log := s.log.WithField("key", s.key)
		if err := s.kv.Set(context.Background(), s.key, *data); err != nil {
			log.WithError(err).Warn("save tasks failed")
		} else {
			log.WithField("bytes", len(*data)).Debug("saved tasks")
		}

		s.mu.Lock()
		s.written = seq
		s.idle.Broadcast()
		s.mu.Unlock()
	}
}

// Flush blocks until every queued snapshot has been written or has failed.
func (s *Store) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.written < s.queued {
		s.idle.Wait()
	}
}

// Close flushes pending snapshots and stops the saver.
// Mutations after Close change memory only.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	close(s.quit)
	<-s.stopped
}

// Backend returns the key/value store and key the collection is kept under.
func (s *Store) Backend() (storage.KV, string) {
	return s.kv, s.key
}
