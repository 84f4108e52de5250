package vm

// DefaultRegistry builds the standard builtin table. Hosts that want a
// different surface register their own table and pass it via
// WithRegistry.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	registerCoreBuiltins(r)
	registerTextBuiltins(r)
	registerMoveBuiltins(r)
	registerAudioBuiltins(r)
	registerBattleBuiltins(r)
	registerStateBuiltins(r)
	registerMathBuiltins(r)
	registerArrayBuiltins(r)
	registerStringBuiltins(r)
	return r
}
