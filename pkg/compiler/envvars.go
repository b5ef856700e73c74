package compiler

// envVarAllocator assigns host-memory indices to extern declarations:
// either the index the source program pinned explicitly, or the next free
// one, in the order externs are declared (§4.4, §6).
type envVarAllocator struct {
	used map[int]bool
	next int
}

func newEnvVarAllocator() *envVarAllocator {
	return &envVarAllocator{used: map[int]bool{}}
}

// allocate returns the host index for one extern declaration. explicit, if
// non-nil, pins the index and fails if another extern already claimed it.
func (a *envVarAllocator) allocate(explicit *int) (int, *CompileError) {
	if explicit != nil {
		if a.used[*explicit] {
			return 0, &CompileError{Kind: KindResolution, Message: "duplicate extern host index"}
		}
		a.used[*explicit] = true
		if *explicit >= a.next {
			a.next = *explicit + 1
		}
		return *explicit, nil
	}
	for a.used[a.next] {
		a.next++
	}
	idx := a.next
	a.used[idx] = true
	a.next++
	return idx, nil
}
