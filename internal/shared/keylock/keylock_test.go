package keylock

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStriped_SerialisesSameKey(t *testing.T) {
	locks := New(8)
	var (
		wg      sync.WaitGroup
		counter int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock("owner-1")
			defer unlock()
			current := counter
			counter = current + 1
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, counter)
}

func TestStriped_BoundedStripes(t *testing.T) {
	locks := New(4)
	for i := 0; i < 1000; i++ {
		idx := locks.index(fmt.Sprintf("user-%d", i))
		assert.GreaterOrEqual(t, idx, 0)
		assert.Less(t, idx, 4)
	}
	assert.Len(t, locks.stripes, 4)
	assert.Len(t, New(0).stripes, DefaultStripes)
}
