package history

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRing_NewestFirst(t *testing.T) {
	r := NewRing[int](5)
	for i := 1; i <= 3; i++ {
		r.Push(i)
	}

	assert.Equal(t, 3, r.Len())
	assert.Equal(t, []int{3, 2, 1}, r.Latest(0, nil))
	assert.Equal(t, []int{3, 2}, r.Latest(2, nil))
}

func TestRing_Overwrite(t *testing.T) {
	r := NewRing[int](3)
	for i := 1; i <= 7; i++ {
		r.Push(i)
	}

	assert.Equal(t, 3, r.Len())
	assert.Equal(t, []int{7, 6, 5}, r.Latest(10, nil))
}

func TestRing_Filter(t *testing.T) {
	r := NewRing[int](10)
	for i := 1; i <= 10; i++ {
		r.Push(i)
	}

	even := func(v int) bool { return v%2 == 0 }
	assert.Equal(t, []int{10, 8, 6}, r.Latest(3, even))
}

func TestRing_Empty(t *testing.T) {
	r := NewRing[string](0)
	assert.Equal(t, DefaultCapacity, r.Cap())
	assert.Empty(t, r.Latest(5, nil))
}

func TestRing_ConcurrentPush(t *testing.T) {
	r := NewRing[int](100)

	var wg sync.WaitGroup
	for g := 0; g < 10; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				r.Push(i)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, r.Len())
}
