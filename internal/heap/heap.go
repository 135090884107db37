// Package heap is the object store behind ObjectRef identity tokens.
package heap

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"coerce/internal/value"
)

var (
	ErrInvalidHandle = errors.New("invalid handle")
	ErrUseAfterFree  = errors.New("use after free")
	ErrDoubleFree    = errors.New("double free")
	ErrNotArray      = errors.New("not an array")
)

// ErrHandlesExhausted is returned once every 32-bit handle was issued.
var ErrHandlesExhausted = errors.New("object handles exhausted")

// Object is one stored object.
type Object struct {
	Kind    value.ObjectKind
	Alive   bool
	AllocID uint64
	Name    string // functions only; used for display

	Elems []value.Value
}

// Heap stores objects addressed by handles.
// Handles are monotonically increasing and never reused within a heap.
// A Heap is safe for concurrent use.
type Heap struct {
	mu          sync.RWMutex
	next        uint64 // wider than value.Handle so running out is visible
	nextAllocID uint64
	objs        map[value.Handle]*Object
}

// New returns an empty heap.
func New() *Heap {
	return &Heap{
		next:        1,
		nextAllocID: 1,
		objs:        make(map[value.Handle]*Object, 64),
	}
}

func (h *Heap) alloc(kind value.ObjectKind) (value.Handle, *Object, error) {
	if h.objs == nil {
		h.objs = make(map[value.Handle]*Object, 64)
	}
	if h.next == 0 {
		h.next = 1
	}
	if h.next > math.MaxUint32 {
		return 0, nil, ErrHandlesExhausted
	}
	if h.nextAllocID == 0 {
		h.nextAllocID = 1
	}
	handle := value.Handle(h.next)
	h.next++
	obj := &Object{
		Kind:    kind,
		Alive:   true,
		AllocID: h.nextAllocID,
	}
	h.nextAllocID++
	h.objs[handle] = obj
	return handle, obj, nil
}

// Alloc stores a new empty object of the given kind. It fails with
// ErrHandlesExhausted rather than reuse a handle.
func (h *Heap) Alloc(kind value.ObjectKind) (value.Value, error) {
	switch kind {
	case value.ObjArray, value.ObjPlain, value.ObjFunction:
	default:
		return value.Value{}, fmt.Errorf("alloc: unknown object kind %v", kind)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	handle, _, err := h.alloc(kind)
	if err != nil {
		return value.Value{}, err
	}
	return value.Object(value.Ref{Handle: handle, Kind: kind}), nil
}

// NewArray stores a new array holding a copy of elems.
func (h *Heap) NewArray(elems ...value.Value) (value.Value, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	handle, obj, err := h.alloc(value.ObjArray)
	if err != nil {
		return value.Value{}, err
	}
	obj.Elems = append([]value.Value(nil), elems...)
	return value.Object(value.Ref{Handle: handle, Kind: value.ObjArray}), nil
}

// NewFunction stores a new function object displayed as name.
func (h *Heap) NewFunction(name string) (value.Value, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	handle, obj, err := h.alloc(value.ObjFunction)
	if err != nil {
		return value.Value{}, err
	}
	obj.Name = name
	return value.Object(value.Ref{Handle: handle, Kind: value.ObjFunction}), nil
}

// AllocArray, AllocObject and AllocFunction are the panicking forms of
// NewArray, Alloc and NewFunction for callers that allocate a bounded
// number of objects. They panic with ErrHandlesExhausted.
func (h *Heap) AllocArray(elems ...value.Value) value.Value {
	return must(h.NewArray(elems...))
}

func (h *Heap) AllocObject() value.Value {
	return must(h.Alloc(value.ObjPlain))
}

func (h *Heap) AllocFunction(name string) value.Value {
	return must(h.NewFunction(name))
}

func must(v value.Value, err error) value.Value {
	if err != nil {
		panic(err)
	}
	return v
}

// Ref rebuilds the ObjectRef value for a live handle.
func (h *Heap) Ref(handle value.Handle) (value.Value, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	obj, err := h.getLocked(handle)
	if err != nil {
		return value.Value{}, err
	}
	return value.Object(value.Ref{Handle: handle, Kind: obj.Kind}), nil
}

// Get returns a snapshot of the object behind handle.
func (h *Heap) Get(handle value.Handle) (Object, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	obj, err := h.getLocked(handle)
	if err != nil {
		return Object{}, err
	}
	cp := *obj
	cp.Elems = append([]value.Value(nil), obj.Elems...)
	return cp, nil
}

// Elements returns a copy of an array's elements.
func (h *Heap) Elements(handle value.Handle) ([]value.Value, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	obj, err := h.getLocked(handle)
	if err != nil {
		return nil, err
	}
	if obj.Kind != value.ObjArray {
		return nil, fmt.Errorf("%w: handle %d is %v", ErrNotArray, handle, obj.Kind)
	}
	return append([]value.Value(nil), obj.Elems...), nil
}

// SetElements replaces an array's elements. References may point back at
// the array itself, which is how cyclic structures are built.
func (h *Heap) SetElements(handle value.Handle, elems ...value.Value) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	obj, err := h.arrayLocked(handle)
	if err != nil {
		return err
	}
	obj.Elems = append(obj.Elems[:0:0], elems...)
	return nil
}

// Free releases an object. The handle is never reused.
func (h *Heap) Free(handle value.Handle) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if handle == 0 {
		return fmt.Errorf("%w: 0", ErrInvalidHandle)
	}
	obj, ok := h.objs[handle]
	if !ok || obj == nil {
		return fmt.Errorf("%w: %d", ErrInvalidHandle, handle)
	}
	if !obj.Alive {
		return fmt.Errorf("%w: handle %d (alloc=%d)", ErrDoubleFree, handle, obj.AllocID)
	}
	obj.Alive = false
	obj.Elems = nil
	return nil
}

// Len returns the number of live objects.
func (h *Heap) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, obj := range h.objs {
		if obj.Alive {
			n++
		}
	}
	return n
}

func (h *Heap) getLocked(handle value.Handle) (*Object, error) {
	if handle == 0 {
		return nil, fmt.Errorf("%w: 0", ErrInvalidHandle)
	}
	obj, ok := h.objs[handle]
	if !ok || obj == nil {
		return nil, fmt.Errorf("%w: %d", ErrInvalidHandle, handle)
	}
	if !obj.Alive {
		return nil, fmt.Errorf("%w: handle %d (alloc=%d)", ErrUseAfterFree, handle, obj.AllocID)
	}
	return obj, nil
}

func (h *Heap) arrayLocked(handle value.Handle) (*Object, error) {
	obj, err := h.getLocked(handle)
	if err != nil {
		return nil, err
	}
	if obj.Kind != value.ObjArray {
		return nil, fmt.Errorf("%w: handle %d is %v", ErrNotArray, handle, obj.Kind)
	}
	return obj, nil
}
