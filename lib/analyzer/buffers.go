package analyzer

// Buffer is heap storage backing a string variable that INPUT reads into.
type Buffer struct {
	Name string
	Size int
}

// BufferRegistry records every allocated buffer in registration order. It is
// consumed when END is compiled.
type BufferRegistry struct {
	sizes map[string]int
	order []string
}

func NewBufferRegistry() *BufferRegistry {
	return &BufferRegistry{sizes: make(map[string]int)}
}

// Register adds a buffer for name, reporting false if one already exists.
func (r *BufferRegistry) Register(name string, size int) bool {
	if _, ok := r.sizes[name]; ok {
		return false
	}
	r.sizes[name] = size
	r.order = append(r.order, name)
	return true
}

func (r *BufferRegistry) Lookup(name string) (int, bool) {
	size, ok := r.sizes[name]
	return size, ok
}

func (r *BufferRegistry) All() []Buffer {
	out := make([]Buffer, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, Buffer{Name: name, Size: r.sizes[name]})
	}
	return out
}

func (r *BufferRegistry) Len() int { return len(r.order) }
