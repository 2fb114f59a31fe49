package concurrent

import (
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolSchedule(t *testing.T) {
	p := NewPool(4, 8, 2)
	defer p.Close()

	var wg sync.WaitGroup
	var n int64
	for i := 0; i < 100; i++ {
		wg.Add(1)
		p.Schedule(func() {
			defer wg.Done()
			atomic.AddInt64(&n, 1)
		})
	}
	wg.Wait()
	assert.Equal(t, int64(100), atomic.LoadInt64(&n))
}

func TestPoolScheduleTimeout(t *testing.T) {
	p := NewPool(1, 0, 1)
	defer p.Close()

	block := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, p.ScheduleTimeout(time.Second, func() {
		close(started)
		<-block
	}))
	<-started

	err := p.ScheduleTimeout(10*time.Millisecond, func() {})
	assert.ErrorIs(t, err, ErrScheduleTimeout)
	close(block)
}

func TestWorkerPool(t *testing.T) {
	wp := NewWorkerPool[int, int](3, 10)
	for i := 0; i < 10; i++ {
		wp.AddJob(i)
	}
	wp.Close()
	wp.Start(func(job int) int { return job * job })
	wp.Wait()

	got := make([]int, 0, 10)
	for r := range wp.CollectResults() {
		got = append(got, r)
	}
	sort.Ints(got)
	assert.Equal(t, []int{0, 1, 4, 9, 16, 25, 36, 49, 64, 81}, got)
}

func TestMapKeepsJobOrder(t *testing.T) {
	jobs := make([]int, 50)
	for i := range jobs {
		jobs[i] = i
	}
	got := Map(4, jobs, func(job int) string {
		return string(rune('a' + job%26))
	})
	require.Len(t, got, 50)
	for i, s := range got {
		assert.Equal(t, string(rune('a'+i%26)), s)
	}
}
