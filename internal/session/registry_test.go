package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryGetOrCreate(t *testing.T) {
	r := NewRegistry()

	assert.Nil(t, r.Get(1))

	e := r.GetOrCreate(1)
	require.NotNil(t, e)
	assert.Same(t, e, r.GetOrCreate(1))
	assert.Same(t, e, r.Get(1))

	r.Delete(1)
	assert.Nil(t, r.Get(1))
}

func TestMarkSeenDeduplicates(t *testing.T) {
	e := &Entry{}

	e.MarkSeen(5)
	e.MarkSeen(5)
	e.MarkSeen(7)
	assert.Equal(t, []int64{5, 7}, e.Seen)

	e.ClearSeen()
	assert.Empty(t, e.Seen)
}

func TestTakePendingConsumesOnce(t *testing.T) {
	e := &Entry{Pending: &PendingQuestion{QuestionID: 9, CorrectOption: 2}}

	p := e.TakePending()
	require.NotNil(t, p)
	assert.Equal(t, int64(9), p.QuestionID)

	// A double-tapped answer button finds nothing to score.
	assert.Nil(t, e.TakePending())
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			e := r.GetOrCreate(id % 5)
			_ = e
			r.Get(id % 5)
		}(int64(i))
	}
	wg.Wait()

	for id := int64(0); id < 5; id++ {
		assert.NotNil(t, r.Get(id))
	}
}
