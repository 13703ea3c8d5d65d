package utils

import (
	"testing"
	"time"

	"github.com/tomruk/feign-go/internal/sync"
)

const DefaultTestWaitTimeout = time.Second * 12

// Parallel runs fn on n goroutines at once. It reports false, failing t, if
// they have not all returned within DefaultTestWaitTimeout.
func Parallel(t testing.TB, n int, fn func(i int)) (ok bool) {
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			fn(i)
		}(i)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		wg.Wait()
	}()

	select {
	case <-done:
		return true
	case <-time.After(DefaultTestWaitTimeout):
		t.Error("timeout exceeded")
		return false
	}
}
