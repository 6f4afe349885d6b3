package locks

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/sanitizer/internal/common"
)

func TestTable_AllOrNothing(t *testing.T) {
	tbl := NewTable()
	require.NoError(t, tbl.TryAcquireAll("j1", []string{"a", "b"}))

	err := tbl.TryAcquireAll("j2", []string{"c", "b"})
	assert.ErrorIs(t, err, common.ErrDeviceBusy)

	_, held := tbl.Owner("c")
	assert.False(t, held, "no partial acquisition")

	assert.False(t, tbl.Release("j2", "a"))
	assert.True(t, tbl.Release("j1", "a"))
	require.NoError(t, tbl.TryAcquireAll("j2", []string{"a", "c"}))

	assert.Equal(t, 1, tbl.ReleaseAll("j1"))
	assert.Equal(t, 2, tbl.Len())
	owner, _ := tbl.Owner("a")
	assert.Equal(t, "j2", owner)
}

func TestTable_ConcurrentExclusivity(t *testing.T) {
	tbl := NewTable()
	var wins atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if tbl.TryAcquireAll(fmt.Sprintf("job-%d", i), []string{"x", fmt.Sprintf("own-%d", i)}) == nil {
				wins.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
	assert.Equal(t, 2, tbl.Len())
}
