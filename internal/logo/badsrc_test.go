package logo

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBadSources(t *testing.T) {
	t.Parallel()

	b := NewBadSources()
	assert.False(t, b.Has("https://a"))

	assert.True(t, b.Mark("https://a"))
	assert.False(t, b.Mark("https://a"), "second mark is not new")
	assert.False(t, b.Mark(""), "empty urls are ignored")

	assert.True(t, b.Has("https://a"))
	assert.Equal(t, 1, b.Len())
}

func TestBadSourcesFirstGood(t *testing.T) {
	t.Parallel()

	b := NewBadSources()
	b.Mark("https://a")
	b.Mark("https://c")

	assert.Equal(t, "https://b", b.FirstGood([]string{"https://a", "https://b", "https://c"}))
	assert.Empty(t, b.FirstGood([]string{"https://a", "https://c"}))
	assert.Empty(t, b.FirstGood(nil))
}

func TestBadSourcesConcurrentMarks(t *testing.T) {
	t.Parallel()

	b := NewBadSources()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b.Mark(fmt.Sprintf("https://host/%d", i%10))
			_ = b.Has("https://host/0")
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, b.Len())
}
