package pool

import (
	"sync"
	"testing"
)

func TestPoolBasic(t *testing.T) {
	pool := NewPool(func() *int {
		x := 42
		return &x
	})

	obj1 := pool.Get()
	if *obj1 != 42 {
		t.Errorf("Expected 42, got %d", *obj1)
	}

	// Without a reset hook the object comes back as it was put
	*obj1 = 100
	pool.Put(obj1)

	obj2 := pool.Get()
	if *obj2 != 100 {
		t.Errorf("Expected reused object with value 100, got %d", *obj2)
	}
}

func TestPoolWithReset(t *testing.T) {
	resetCalled := false
	pool := NewPoolWithReset(
		func() *[]int {
			slice := make([]int, 0, 10)
			return &slice
		},
		func(slice *[]int) {
			*slice = (*slice)[:0]
			resetCalled = true
		},
	)

	slice1 := pool.Get()
	*slice1 = append(*slice1, 1, 2, 3)

	pool.Put(slice1)

	slice2 := pool.Get()
	if !resetCalled {
		t.Error("Reset function was not called")
	}
	if len(*slice2) != 0 {
		t.Errorf("Expected empty slice after reset, got length %d", len(*slice2))
	}
}

func TestPoolPutNil(t *testing.T) {
	pool := NewPool(func() *int {
		x := 0
		return &x
	})

	pool.Put(nil) // must not panic

	if obj := pool.Get(); obj == nil {
		t.Error("Expected non-nil object after Put(nil)")
	}
}

func TestPoolConcurrent(t *testing.T) {
	pool := NewPool(func() *[]int {
		slice := make([]int, 0, 100)
		return &slice
	})

	const numGoroutines = 50
	const numOperations = 1000

	var wg sync.WaitGroup

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(goroutineID int) {
			defer wg.Done()

			for j := 0; j < numOperations; j++ {
				obj := pool.Get()
				if obj == nil {
					t.Errorf("Get returned nil")
					return
				}

				*obj = append(*obj, goroutineID*1000+j)

				pool.Put(obj)
			}
		}(i)
	}

	wg.Wait()
}

func TestBufferPoolBasic(t *testing.T) {
	bp := NewBufferPool()

	tests := []int{64, 128, 256, 512, 1024}

	for _, size := range tests {
		buf := bp.Get(size)
		if cap(*buf) < size {
			t.Errorf("Expected capacity >= %d, got %d", size, cap(*buf))
		}

		if len(*buf) != 0 {
			t.Errorf("Expected empty buffer, got length %d", len(*buf))
		}

		*buf = append(*buf, make([]byte, size/2)...)

		bp.Put(buf)
	}
}

func TestBufferPoolReuse(t *testing.T) {
	bp := NewBufferPool()

	buf1 := bp.Get(256)
	*buf1 = append(*buf1, 1, 2, 3, 4, 5)
	originalCap := cap(*buf1)

	bp.Put(buf1)

	// Same bucket, so same capacity and a clean length
	buf2 := bp.Get(256)
	if len(*buf2) != 0 {
		t.Errorf("Expected reset buffer with length 0, got %d", len(*buf2))
	}
	if cap(*buf2) != originalCap {
		t.Errorf("Expected same capacity %d, got %d", originalCap, cap(*buf2))
	}
}

func TestBufferPoolOutOfRange(t *testing.T) {
	bp := NewBufferPool()

	buf1 := bp.Get(10)
	if buf1 == nil {
		t.Error("Expected buffer even for small size")
	}

	// Above the largest bucket the pool still serves, just unpooled
	buf2 := bp.Get(10000)
	if buf2 == nil {
		t.Error("Expected buffer even for large size")
	}
	if cap(*buf2) < 10000 {
		t.Errorf("Expected capacity >= 10000, got %d", cap(*buf2))
	}

	bp.Put(buf1)
	bp.Put(buf2)
	bp.Put(nil)
}

func TestStringSlicePool(t *testing.T) {
	pool := NewStringSlicePool(16)

	slice1 := pool.Get()
	if len(*slice1) != 0 {
		t.Errorf("Expected empty slice, got length %d", len(*slice1))
	}
	if cap(*slice1) < 16 {
		t.Errorf("Expected capacity >= 16, got %d", cap(*slice1))
	}

	*slice1 = append(*slice1, "hello", "world")

	pool.Put(slice1)

	slice2 := pool.Get()
	if len(*slice2) != 0 {
		t.Errorf("Expected reset slice with length 0, got %d", len(*slice2))
	}
}

func TestSharedPools(t *testing.T) {
	buf := GetBuffer(512)
	if cap(*buf) < 512 {
		t.Errorf("Expected buffer capacity >= 512, got %d", cap(*buf))
	}
	PutBuffer(buf)

	strSlice := GetStringSlice()
	if strSlice == nil {
		t.Error("Expected non-nil string slice")
	}
	PutStringSlice(strSlice)
}

// Benchmarks live in benchmark/bench_pool_test.go.
