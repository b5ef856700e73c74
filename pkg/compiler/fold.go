package compiler

// foldConstant evaluates e if it is built entirely from literals (and
// nested array literals of such), returning the flat list of runtime
// values it represents. Array literals are required to be compile-time
// constant (I4: constant arrays are fully materialised at generation
// time) — this is the single place that requirement is enforced and
// exploited, both by the analyser (to reject non-constant array literals)
// and by the generator (to avoid re-deriving the values it already
// validated).
func foldConstant(e Expr) ([]float64, bool) {
	switch x := e.(type) {
	case *IntLiteral:
		return []float64{float64(x.Value)}, true
	case *DecimalLiteral:
		return []float64{x.Value}, true
	case *BoolLiteral:
		if x.Value {
			return []float64{1}, true
		}
		return []float64{0}, true
	case *ArrayLiteral:
		var out []float64
		for _, el := range x.Elements {
			vs, ok := foldConstant(el)
			if !ok {
				return nil, false
			}
			out = append(out, vs...)
		}
		return out, true
	case *Unary:
		vs, ok := foldConstant(x.Operand)
		if !ok || len(vs) != 1 {
			return nil, false
		}
		switch x.Op {
		case MINUS:
			return []float64{-vs[0]}, true
		case NOT:
			if vs[0] == 0 {
				return []float64{1}, true
			}
			return []float64{0}, true
		}
		return nil, false
	default:
		return nil, false
	}
}
