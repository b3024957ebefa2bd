// Package pool recycles the allocations a parse pass burns through:
// scratch byte buffers for help and token assembly, string slices for
// value runs, and caller-defined parse-state objects.
package pool

import "sync"

// Pool is a typed wrapper around sync.Pool with an optional reset hook
// applied on every Get.
type Pool[T any] struct {
	inner sync.Pool
	reset func(*T)
}

// NewPool returns a pool producing objects from factory.
func NewPool[T any](factory func() *T) *Pool[T] {
	p := &Pool[T]{}
	p.inner.New = func() any { return factory() }
	return p
}

// NewPoolWithReset returns a pool that calls reset on each object handed
// out, so callers always receive a clean instance.
func NewPoolWithReset[T any](factory func() *T, reset func(*T)) *Pool[T] {
	p := NewPool(factory)
	p.reset = reset
	return p
}

// Get hands out a pooled or freshly built object.
func (p *Pool[T]) Get() *T {
	obj := p.inner.Get().(*T)
	if p.reset != nil {
		p.reset(obj)
	}
	return obj
}

// Put returns obj for reuse. Nil is ignored.
func (p *Pool[T]) Put(obj *T) {
	if obj == nil {
		return
	}
	p.inner.Put(obj)
}

// BufferPool pools byte slices in capacity buckets so a small token join
// does not pin a help-page sized buffer.
type BufferPool struct {
	buckets []int
	pools   map[int]*Pool[[]byte]
}

// NewBufferPool returns a BufferPool covering the capacities parsing and
// help rendering actually use.
func NewBufferPool() *BufferPool {
	bp := &BufferPool{buckets: []int{64, 256, 1024, 4096}}
	bp.pools = make(map[int]*Pool[[]byte], len(bp.buckets))
	for _, b := range bp.buckets {
		capacity := b
		bp.pools[capacity] = NewPoolWithReset(
			func() *[]byte {
				buf := make([]byte, 0, capacity)
				return &buf
			},
			func(buf *[]byte) {
				*buf = (*buf)[:0]
			},
		)
	}
	return bp
}

// Get returns a zero-length buffer with at least minCap capacity.
func (bp *BufferPool) Get(minCap int) *[]byte {
	for _, b := range bp.buckets {
		if b >= minCap {
			return bp.pools[b].Get()
		}
	}
	buf := make([]byte, 0, minCap)
	return &buf
}

// Put returns buf to its bucket; oversized buffers are dropped.
func (bp *BufferPool) Put(buf *[]byte) {
	if buf == nil {
		return
	}
	c := cap(*buf)
	for _, b := range bp.buckets {
		if b == c {
			bp.pools[b].Put(buf)
			return
		}
	}
}

// StringSlicePool pools string slices used for token value runs.
type StringSlicePool struct {
	*Pool[[]string]
}

// NewStringSlicePool returns a pool of string slices with the given
// starting capacity.
func NewStringSlicePool(defaultCap int) *StringSlicePool {
	return &StringSlicePool{
		Pool: NewPoolWithReset(
			func() *[]string {
				s := make([]string, 0, defaultCap)
				return &s
			},
			func(s *[]string) {
				*s = (*s)[:0]
			},
		),
	}
}

// Shared instances used by the parser and help builder.
var (
	Buffers      = NewBufferPool()
	StringSlices = NewStringSlicePool(16)
)

//nolint:gochecknoinits // pre-warm so first parses do not pay the build cost
func init() {
	for i := 0; i < 4; i++ {
		Buffers.Put(Buffers.Get(256))
		StringSlices.Put(StringSlices.Get())
	}
}

// GetBuffer hands out a shared scratch buffer.
func GetBuffer(minCap int) *[]byte {
	return Buffers.Get(minCap)
}

// PutBuffer returns a shared scratch buffer.
func PutBuffer(buf *[]byte) {
	Buffers.Put(buf)
}

// GetStringSlice hands out a shared string slice.
func GetStringSlice() *[]string {
	return StringSlices.Get()
}

// PutStringSlice returns a shared string slice.
func PutStringSlice(s *[]string) {
	StringSlices.Put(s)
}
