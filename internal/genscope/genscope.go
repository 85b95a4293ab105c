// Package genscope implements the code generator's runtime-typed name
// scope: an explicit stack of maps from source name to a storage address
// plus its pointee IR type, parallel to (but separate from) the
// compile-time symbol table, so control-flow code and name-resolution
// code can be developed and tested independently.
package genscope

import (
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// Slot records where a name's value lives during code generation: the
// address holding it (an alloca, a forwarded-capture pointer, or a
// spilled parameter) and the type stored there. Decayed marks an address
// that is already a flat pointer to a single element — an array
// parameter or a capture of one — as opposed to a composite aggregate
// (a scalar alloca, or a fixed-size array alloca addressed as [N x T]*).
type Slot struct {
	Addr     value.Value
	ElemType types.Type
	Decayed  bool
}

// Scope is the stack of name->Slot maps active during generation of one
// function body, grounded on the teacher's localScopes idiom but factored
// into its own package.
type Scope struct {
	frames []map[string]Slot
}

// New creates an empty scope stack.
func New() *Scope {
	return &Scope{}
}

// Push opens a new, innermost frame.
func (s *Scope) Push() {
	s.frames = append(s.frames, map[string]Slot{})
}

// Pop discards the innermost frame.
func (s *Scope) Pop() {
	s.frames = s.frames[:len(s.frames)-1]
}

// Define binds name to slot in the innermost frame.
func (s *Scope) Define(name string, slot Slot) {
	s.frames[len(s.frames)-1][name] = slot
}

// Lookup searches from the innermost frame outward.
func (s *Scope) Lookup(name string) (Slot, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if slot, ok := s.frames[i][name]; ok {
			return slot, true
		}
	}
	return Slot{}, false
}
