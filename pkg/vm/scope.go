package vm

// Scope is a variable environment with a parent chain. The chain always
// bottoms out at an instance's global scope; each function call pushes a
// fresh local scope whose parent is the globals, so locals never see the
// caller's locals.
//
// Scopes are never shared across goroutines; all script execution happens
// on the host's tick goroutine, so no locking is needed.
type Scope struct {
	vars   map[string]Value
	parent *Scope
}

// NewScope creates a scope with the given parent. A nil parent makes a
// global scope.
func NewScope(parent *Scope) *Scope {
	return &Scope{vars: make(map[string]Value), parent: parent}
}

// Get resolves a name, walking the parent chain. The boolean is false when
// the name is unbound anywhere in the chain.
func (s *Scope) Get(name string) (Value, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if v, ok := sc.vars[name]; ok {
			return v, true
		}
	}
	return Void, false
}

// Set assigns a name. If the name is already bound somewhere in the chain
// the existing binding is updated in place; otherwise a new binding is
// created in this scope. Arrays are cloned on the way in.
func (s *Scope) Set(name string, v Value) {
	v = v.Clone()
	for sc := s; sc != nil; sc = sc.parent {
		if _, ok := sc.vars[name]; ok {
			sc.vars[name] = v
			return
		}
	}
	s.vars[name] = v
}

// SetLocal binds a name in this scope unconditionally, shadowing any
// binding in a parent. Used for function parameters.
func (s *Scope) SetLocal(name string, v Value) {
	s.vars[name] = v.Clone()
}

// SetGlobal binds a name at the root of the chain, creating or updating
// the global regardless of intermediate shadows.
func (s *Scope) SetGlobal(name string, v Value) {
	sc := s
	for sc.parent != nil {
		sc = sc.parent
	}
	sc.vars[name] = v.Clone()
}

// Parent returns the enclosing scope, nil for a global scope.
func (s *Scope) Parent() *Scope { return s.parent }

// Size returns the number of bindings directly in this scope.
func (s *Scope) Size() int { return len(s.vars) }

// Root returns the bottom of the parent chain.
func (s *Scope) Root() *Scope {
	sc := s
	for sc.parent != nil {
		sc = sc.parent
	}
	return sc
}

// Has reports whether the name is bound anywhere in the chain.
func (s *Scope) Has(name string) bool {
	_, ok := s.Get(name)
	return ok
}

// Names returns the names bound directly in this scope, excluding parents.
func (s *Scope) Names() []string {
	names := make([]string, 0, len(s.vars))
	for name := range s.vars {
		names = append(names, name)
	}
	return names
}
