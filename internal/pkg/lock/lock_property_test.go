// Property-based tests for per-user scoring serialization.
package lock

import (
	"sync"
	"sync/atomic"
	"testing"

	"pgregory.net/rapid"
)

// TestConcurrentScoringSafetyProperty checks that concurrent streak
// updates for one user behave as if executed sequentially when run
// under the user's lock.
func TestConcurrentScoringSafetyProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		numOps := rapid.IntRange(2, 20).Draw(t, "numOps")
		userID := rapid.Int64Range(1, 1000000).Draw(t, "userID")

		ul := NewUserLock()

		// Read-modify-write on a streak counter, like answer scoring.
		streak := 0

		var wg sync.WaitGroup
		wg.Add(numOps)
		for i := 0; i < numOps; i++ {
			go func() {
				defer wg.Done()
				ul.Lock(userID)
				defer ul.Unlock(userID)
				streak++
			}()
		}
		wg.Wait()

		if streak != numOps {
			t.Fatalf("streak mismatch with locking: expected %d, got %d", numOps, streak)
		}
	})
}

// TestWithLockSerializationProperty checks that WithLock serializes its
// callbacks for the same user.
func TestWithLockSerializationProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		numOps := rapid.IntRange(5, 30).Draw(t, "numOps")
		userID := rapid.Int64Range(1, 1000000).Draw(t, "userID")

		ul := NewUserLock()
		count := 0

		var wg sync.WaitGroup
		wg.Add(numOps)
		for i := 0; i < numOps; i++ {
			go func() {
				defer wg.Done()
				_ = ul.WithLock(userID, func() error {
					count++
					return nil
				})
			}()
		}
		wg.Wait()

		if count != numOps {
			t.Fatalf("count mismatch with WithLock: expected %d, got %d", numOps, count)
		}
	})
}

// TestIndependentUsersProperty checks that different users' locks do not
// interfere with each other's sequences.
func TestIndependentUsersProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		numUsers := rapid.IntRange(2, 10).Draw(t, "numUsers")
		opsPerUser := rapid.IntRange(5, 20).Draw(t, "opsPerUser")

		ul := NewUserLock()

		counters := make([]int, numUsers)
		var wg sync.WaitGroup
		wg.Add(numUsers * opsPerUser)

		for u := 0; u < numUsers; u++ {
			for j := 0; j < opsPerUser; j++ {
				go func(u int) {
					defer wg.Done()
					ul.Lock(int64(u + 1))
					defer ul.Unlock(int64(u + 1))
					counters[u]++
				}(u)
			}
		}
		wg.Wait()

		for u := 0; u < numUsers; u++ {
			if counters[u] != opsPerUser {
				t.Fatalf("user %d counter mismatch: expected %d, got %d", u+1, opsPerUser, counters[u])
			}
		}
	})
}

// TestTryLockExclusivityProperty checks that simultaneous TryLock calls
// admit at least one caller and leave the lock free afterwards.
func TestTryLockExclusivityProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		userID := rapid.Int64Range(1, 1000000).Draw(t, "userID")
		numAttempts := rapid.IntRange(5, 20).Draw(t, "numAttempts")

		ul := NewUserLock()

		var successCount atomic.Int32
		var wg sync.WaitGroup
		wg.Add(numAttempts)

		startCh := make(chan struct{})
		for i := 0; i < numAttempts; i++ {
			go func() {
				defer wg.Done()
				<-startCh

				if ul.TryLock(userID) {
					successCount.Add(1)
					ul.Unlock(userID)
				}
			}()
		}

		close(startCh)
		wg.Wait()

		if successCount.Load() < 1 {
			t.Fatalf("at least one TryLock should succeed, got %d successes", successCount.Load())
		}

		if !ul.TryLock(userID) {
			t.Fatal("lock should be available after all attempts complete")
		}
		ul.Unlock(userID)
	})
}

// TestLockUnlockSymmetryProperty checks that lock/unlock cycles leave
// the lock acquirable.
func TestLockUnlockSymmetryProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		userID := rapid.Int64Range(1, 1000000).Draw(t, "userID")
		numCycles := rapid.IntRange(1, 50).Draw(t, "numCycles")

		ul := NewUserLock()

		for i := 0; i < numCycles; i++ {
			ul.Lock(userID)
			ul.Unlock(userID)
		}

		if !ul.TryLock(userID) {
			t.Fatal("lock should be available after symmetric lock/unlock cycles")
		}
		ul.Unlock(userID)
	})
}
