// Package arena implements a generic chunked bump allocator.
//
// Values handed out by Alloc keep a stable address for the lifetime of the
// Arena: growth appends a new chunk instead of reallocating an existing one,
// so a pointer returned from Alloc never moves underneath its holder. The
// arena never frees individual values; the whole thing is reclaimed by the
// garbage collector once the owning parse session drops its last reference.
package arena

const defaultChunkSize = 128

// Arena is a pool of typed chunk pools, keyed by the element type allocated
// into them. A single Arena backs every node type the parser allocates.
type Arena struct {
	pools map[any]any
}

// New returns an empty Arena.
func New() *Arena {
	return &Arena{pools: make(map[any]any)}
}

// typeKey identifies a pool by its element type without reflection: the
// zero-size value typeKey[T]{} is the map key. Each instantiation of
// typeKey[T] is a distinct type, so the key is distinct per T and costs no
// allocation.
type typeKey[T any] struct{}

func keyFor[T any]() any {
	return typeKey[T]{}
}

type chunkPool[T any] struct {
	chunkSize int
	chunks    [][]T
	count     int
}

func (p *chunkPool[T]) alloc(v T) *T {
	if len(p.chunks) == 0 || len(p.chunks[len(p.chunks)-1]) == cap(p.chunks[len(p.chunks)-1]) {
		p.chunks = append(p.chunks, make([]T, 0, p.chunkSize))
	}
	last := len(p.chunks) - 1
	p.chunks[last] = append(p.chunks[last], v)
	p.count++
	return &p.chunks[last][len(p.chunks[last])-1]
}

func poolFor[T any](a *Arena) *chunkPool[T] {
	key := keyFor[T]()
	if existing, ok := a.pools[key]; ok {
		return existing.(*chunkPool[T])
	}
	p := &chunkPool[T]{chunkSize: defaultChunkSize}
	a.pools[key] = p
	return p
}

// Alloc places v into the arena and returns a stable pointer to it.
func Alloc[T any](a *Arena, v T) *T {
	return poolFor[T](a).alloc(v)
}

// Count reports how many values of type T have been allocated, mostly
// useful for tests and diagnostics.
func Count[T any](a *Arena) int {
	return poolFor[T](a).count
}
