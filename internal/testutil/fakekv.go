// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sync"
)

// FakeKV is an in-memory implementation of storage.KV for testing.
// It records every write and supports error injection and blocking writes.
type FakeKV struct {
	mu      sync.Mutex
	data    map[string]string
	history map[string][]string
	gets    int

	getErr error
	setErr error
	gate   chan struct{}
}

// NewFakeKV creates an empty FakeKV.
func NewFakeKV() *FakeKV {
	return &FakeKV{
		data:    make(map[string]string),
		history: make(map[string][]string),
	}
}

// Put seeds a value without recording it as a write.
func (f *FakeKV) Put(key, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
}

// Value returns the stored value for key.
func (f *FakeKV) Value(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok
}

// Writes returns every value passed to Set for key, including failed ones.
func (f *FakeKV) Writes(key string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.history[key]...)
}

// Gets returns the number of Get calls.
func (f *FakeKV) Gets() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gets
}

// FailGets makes subsequent Get calls return err. nil restores normal reads.
func (f *FakeKV) FailGets(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getErr = err
}

// FailSets makes subsequent Set calls return err. nil restores normal writes.
func (f *FakeKV) FailSets(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setErr = err
}

// HoldSets blocks Set calls until the returned release func is called.
func (f *FakeKV) HoldSets() (release func()) {
	gate := make(chan struct{})
	f.mu.Lock()
	f.gate = gate
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			f.gate = nil
			f.mu.Unlock()
			close(gate)
		})
	}
}

// Get implements storage.KV.
func (f *FakeKV) Get(ctx context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if f.getErr != nil {
		return "", false, f.getErr
	}
	v, ok := f.data[key]
	return v, ok, nil
}

// Set implements storage.KV.
func (f *FakeKV) Set(ctx context.Context, key, value string) error {
	f.mu.Lock()
	gate := f.gate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.history[key] = append(f.history[key], value)
	if f.setErr != nil {
		return f.setErr
	}
	f.data[key] = value
	return nil
}
