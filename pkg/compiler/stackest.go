package compiler

// estimateStackDepth computes the recommended operand-stack bound (§4.7) by
// walking the instruction stream's control-flow graph and finding the
// greatest depth reachable at any instruction, iterating to a fixed point
// so loops (backward JMP/JZ edges) are accounted for rather than assumed to
// be acyclic. This is deliberately a conservative static walk, not a
// heuristic: depthIn[addr] only ever grows, so the loop always terminates
// (each address's bound is non-decreasing and capped by total push count).
//
// A backward edge (jump target at or before the jump itself) closes a loop;
// §4.7 requires its entry depth to equal its exit depth, since a codegen
// bug that nets a positive depth per iteration would otherwise never
// converge. The walk checks that invariant directly at each backward edge
// rather than relying on a hang to surface it, and reports a violation as
// the "stack bound failed to converge" generation error (§7).
func estimateStackDepth(instrs []Instruction) (int, *CompileError) {
	n := len(instrs)
	if n == 0 {
		return 0, nil
	}
	const unvisited = -1
	depthIn := make([]int, n)
	for i := range depthIn {
		depthIn[i] = unvisited
	}
	depthIn[0] = 0

	queue := []int{0}
	maxDepth := 0

	enqueue := func(addr, depth int) {
		if addr < 0 || addr >= n {
			return
		}
		if depth > depthIn[addr] {
			depthIn[addr] = depth
			queue = append(queue, addr)
		}
	}

	// checkBackwardEdge enforces that a loop's entry depth (the depth
	// already recorded for a target reached by falling into the loop)
	// matches its exit depth (the depth computed when control jumps back
	// to that same target).
	checkBackwardEdge := func(from, to, after int) *CompileError {
		if to < 0 || to >= n || to > from {
			return nil
		}
		if depthIn[to] != unvisited && depthIn[to] != after {
			return newErr(KindGeneration, Span{}, "stack bound failed to converge: loop at instruction %d entered at depth %d but exits at depth %d", to, depthIn[to], after)
		}
		return nil
	}

	for len(queue) > 0 {
		addr := queue[0]
		queue = queue[1:]
		depth := depthIn[addr]
		instr := instrs[addr]
		push, pop := instructionArity(instr)
		after := depth - pop + push
		if after > maxDepth {
			maxDepth = after
		}

		switch instr.Op {
		case OpJMP:
			if err := checkBackwardEdge(addr, instr.Operand, after); err != nil {
				return 0, err
			}
			enqueue(instr.Operand, after)
		case OpJZ:
			if err := checkBackwardEdge(addr, instr.Operand, after); err != nil {
				return 0, err
			}
			enqueue(instr.Operand, after)
			enqueue(addr+1, after)
		case OpCALL:
			// The callee's own operand-stack usage is independent of the
			// caller's: its arguments were already consumed into the new
			// frame, so its body is walked starting from a fresh depth of
			// zero. Both the callee entry and the caller-side depth after
			// the call returns need visiting.
			enqueue(instr.Operand, 0)
			enqueue(addr+1, after)
		case OpRET, OpHLT:
			// no fallthrough successor
		default:
			enqueue(addr+1, after)
		}
	}

	return maxDepth, nil
}
