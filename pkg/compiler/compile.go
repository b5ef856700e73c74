package compiler

// CompileRequest mirrors §6's C-ABI request struct: the source text plus
// the host's declaration of named environment variables and the indices
// they're bound to.
type CompileRequest struct {
	CodeText string
	EnvVars  []EnvVarBinding
}

// EnvVarBinding is one `{identifier, ptr_offset}` entry of the request's
// env_vars list (§6): ptr_offset is the host's own memory index, chosen
// before the compiler ever sees the source.
type EnvVarBinding struct {
	Identifier string
	PtrOffset  int
}

// Options parameterises a single Compile call. Precision selects the
// numeric width string packing and decimal literals use (§4.5).
type Options struct {
	Precision Precision
}

// CompileResponse mirrors §6's C-ABI response struct. CodeText holds the
// `.bct` textual bytecode on success; on failure Compile returns a non-nil
// error instead and CompileResponse is nil, since there's no allocation to
// hand back across a process boundary in the in-process Go shape of this
// call.
type CompileResponse struct {
	CodeText             string
	ValuesList           []float64
	RecommendedStackSize int
	UserSpace            []float64
	EnvVars              []EnvVarDecl
	Precision            Precision
}

// Compile runs the full pipeline — lex, parse, analyse, generate, estimate
// — over req and returns the finished artifact, or the first CompileError
// any stage produced (§7: no recovery, fail fast at the first error).
//
// This is the in-process shape of §6's `compile(request) -> response`; see
// FreeCompileResponse for the other half of that C-ABI pair.
func Compile(req CompileRequest, opts Options) (*CompileResponse, error) {
	tokens, err := Lex(req.CodeText)
	if err != nil {
		return nil, err
	}

	unit, err := Parse(tokens, req.CodeText)
	if err != nil {
		return nil, err
	}

	envBindings := make(map[string]int, len(req.EnvVars))
	for _, ev := range req.EnvVars {
		envBindings[ev.Identifier] = ev.PtrOffset
	}

	an := NewAnalyser(opts.Precision, envBindings)
	if cerr := an.Analyse(unit); cerr != nil {
		return nil, cerr
	}

	prog, cerr := Generate(unit, an.Arena, opts.Precision)
	if cerr != nil {
		return nil, cerr
	}

	return &CompileResponse{
		CodeText:             Encode(prog),
		ValuesList:           prog.Values,
		RecommendedStackSize: prog.RecommendedStackDepth,
		UserSpace:            prog.UserSpace,
		EnvVars:              prog.EnvVars,
		Precision:            prog.Precision,
	}, nil
}

// FreeCompileResponse is the documented no-op counterpart to §6's
// `free_compile_response`: Go's garbage collector reclaims a
// CompileResponse once it's unreachable, so there is nothing for this
// function to release. It exists so callers migrating from the C ABI have
// a call to make at the same point in their code.
func FreeCompileResponse(*CompileResponse) {}
