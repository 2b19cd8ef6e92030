package service

import (
	"sync"
	"testing"
)

func TestIDLocker_SerializesSameID(t *testing.T) {
	locker := newIDLocker()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locker.Lock(7)
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	if counter != 50 {
		t.Errorf("counter = %d, want 50", counter)
	}
}

func TestIDLocker_IndependentIDs(t *testing.T) {
	locker := newIDLocker()

	unlockA := locker.Lock(1)
	defer unlockA()

	// A held lock on one id must not block another id.
	done := make(chan struct{})
	go func() {
		unlockB := locker.Lock(2)
		unlockB()
		close(done)
	}()
	<-done
}
