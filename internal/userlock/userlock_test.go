package userlock

import (
	"sync"
	"testing"
)

func TestKeyedSerializesPerUser(t *testing.T) {
	k := New()

	var mu sync.Mutex
	counts := map[string]int{}
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		for _, user := range []string{"ana", "bia"} {
			wg.Add(1)
			go func(user string) {
				defer wg.Done()
				unlock := k.Lock(user)
				defer unlock()
				mu.Lock()
				counts[user]++
				mu.Unlock()
			}(user)
		}
	}
	wg.Wait()

	if counts["ana"] != 50 || counts["bia"] != 50 {
		t.Fatalf("counts = %v", counts)
	}
}

func TestKeyedDistinctUsersDoNotBlock(t *testing.T) {
	k := New()

	unlockA := k.Lock("ana")
	done := make(chan struct{})
	go func() {
		unlock := k.Lock("bia")
		unlock()
		close(done)
	}()
	<-done // would deadlock if users shared one mutex
	unlockA()
}
