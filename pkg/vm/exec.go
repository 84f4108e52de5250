package vm

import (
	"github.com/hazama/plotscript/pkg/parser"
)

// signal aborts execution of the current statement. Exactly one of the
// three cases is set: a runtime fault, a suspension on a wake condition,
// or a script-function call whose frame was just pushed.
type signal struct {
	err  *RuntimeError
	wake *WakeCondition
	call bool
}

func errSignal(err *RuntimeError) *signal { return &signal{err: err} }

// evalCtx threads replay consumption through one statement execution.
// replayIdx counts the call sites that completed in evaluation order; a
// re-executed statement consumes the frame's replay list through it
// instead of re-running calls that already produced a result.
type evalCtx struct {
	eng   *Engine
	inst  *Instance
	frame *CallFrame

	replayIdx int
}

// execCurrent runs the statement the top frame is positioned at. A nil
// return means the statement completed and the cursor advanced.
func execCurrent(eng *Engine, inst *Instance) *signal {
	frame := inst.topFrame()
	stmt := frame.current()
	frame.line, frame.column = stmt.Pos()
	ctx := &evalCtx{eng: eng, inst: inst, frame: frame}

	switch s := stmt.(type) {
	case *parser.FunctionStatement:
		// definitions are collected at load time; skip at run time
		frame.finishStatement()
		return nil

	case *parser.AssignStatement:
		v, sig := ctx.eval(s.Value)
		if sig != nil {
			return sig
		}
		if sig := ctx.assign(s, v); sig != nil {
			return sig
		}
		frame.finishStatement()
		return nil

	case *parser.ExpressionStatement:
		if _, sig := ctx.eval(s.Expression); sig != nil {
			return sig
		}
		frame.finishStatement()
		return nil

	case *parser.IfStatement:
		return ctx.execIf(s)

	case *parser.WhileStatement:
		cond, sig := ctx.eval(s.Condition)
		if sig != nil {
			return sig
		}
		if cond.Kind() != KindBool {
			return errSignal(newError(ErrTypeMismatch, "while condition must be bool, got %s", cond.Kind()))
		}
		if !cond.Bool() {
			frame.finishStatement()
			return nil
		}
		// stay positioned at the while statement; the body block pops
		// back here so the condition re-evaluates
		frame.replay = frame.replay[:0]
		frame.pushBlock(s.Body.Statements, s)
		return nil

	case *parser.BreakStatement:
		frame.breakLoop()
		return nil

	case *parser.ContinueStatement:
		frame.continueLoop()
		return nil

	case *parser.ReturnStatement:
		ret := Void
		if s.ReturnValue != nil {
			v, sig := ctx.eval(s.ReturnValue)
			if sig != nil {
				return sig
			}
			ret = v
		}
		eng.finishFrame(inst, ret)
		return nil
	}

	return errSignal(newError(ErrHostFailure, "unexecutable statement %T", stmt))
}

// execIf walks an if / else-if chain until a branch is taken or the
// chain is exhausted.
func (ctx *evalCtx) execIf(s *parser.IfStatement) *signal {
	node := s
	for {
		cond, sig := ctx.eval(node.Condition)
		if sig != nil {
			return sig
		}
		if cond.Kind() != KindBool {
			return errSignal(newError(ErrTypeMismatch, "if condition must be bool, got %s", cond.Kind()))
		}
		if cond.Bool() {
			ctx.frame.finishStatement()
			ctx.frame.pushBlock(node.Consequence.Statements, nil)
			return nil
		}
		switch alt := node.Alternative.(type) {
		case nil:
			ctx.frame.finishStatement()
			return nil
		case *parser.BlockStatement:
			ctx.frame.finishStatement()
			ctx.frame.pushBlock(alt.Statements, nil)
			return nil
		case *parser.IfStatement:
			node = alt
		default:
			return errSignal(newError(ErrHostFailure, "unexpected else branch %T", alt))
		}
	}
}

// assign binds an evaluated value to an assignment target.
func (ctx *evalCtx) assign(s *parser.AssignStatement, v Value) *signal {
	switch target := s.Name.(type) {
	case *parser.Identifier:
		if s.Global {
			ctx.frame.scope.SetGlobal(target.Value, v)
		} else {
			ctx.frame.scope.Set(target.Value, v)
		}
		return nil
	case *parser.IndexExpression:
		return ctx.assignIndex(target, v)
	}
	return errSignal(newError(ErrTypeMismatch, "invalid assignment target"))
}

// assignIndex stores through an index chain like a[i][j], rewriting the
// root variable with the element replaced.
func (ctx *evalCtx) assignIndex(target *parser.IndexExpression, v Value) *signal {
	var chain []*parser.IndexExpression
	node := parser.Expression(target)
	for {
		ie, ok := node.(*parser.IndexExpression)
		if !ok {
			break
		}
		chain = append(chain, ie)
		node = ie.Left
	}
	ident, ok := node.(*parser.Identifier)
	if !ok {
		return errSignal(newError(ErrTypeMismatch, "invalid assignment target"))
	}

	// indices evaluate left to right
	indices := make([]int64, len(chain))
	for i := len(chain) - 1; i >= 0; i-- {
		idx, sig := ctx.eval(chain[i].Index)
		if sig != nil {
			return sig
		}
		if idx.Kind() != KindInt {
			return errSignal(newError(ErrTypeMismatch, "array index must be int, got %s", idx.Kind()))
		}
		indices[len(chain)-1-i] = idx.Int()
	}

	root, ok := ctx.frame.scope.Get(ident.Value)
	if !ok {
		return errSignal(newError(ErrUnknownVariable, "undefined variable %q", ident.Value))
	}
	root = root.Clone()
	cur := &root
	for _, n := range indices {
		if cur.Kind() != KindArray {
			return errSignal(newError(ErrTypeMismatch, "cannot index %s", cur.Kind()))
		}
		if n < 0 || n >= int64(cur.Len()) {
			return errSignal(newError(ErrIndexOutOfRange, "index %d out of range for length %d", n, cur.Len()))
		}
		cur = &cur.arr[n]
	}
	*cur = v.Clone()
	ctx.frame.scope.Set(ident.Value, root)
	return nil
}

// eval evaluates an expression. Everything except call sites is pure, so
// re-evaluating after a suspension is observationally identical.
func (ctx *evalCtx) eval(expr parser.Expression) (Value, *signal) {
	switch e := expr.(type) {
	case *parser.IntegerLiteral:
		return IntValue(e.Value), nil
	case *parser.FloatLiteral:
		return FloatValue(e.Value), nil
	case *parser.StringLiteral:
		return StringValue(e.Value), nil
	case *parser.BoolLiteral:
		return BoolValue(e.Value), nil

	case *parser.Identifier:
		v, ok := ctx.frame.scope.Get(e.Value)
		if !ok {
			return Void, errSignal(newError(ErrUnknownVariable, "undefined variable %q", e.Value))
		}
		return v, nil

	case *parser.ArrayLiteral:
		elems := make([]Value, len(e.Elements))
		for i, el := range e.Elements {
			v, sig := ctx.eval(el)
			if sig != nil {
				return Void, sig
			}
			elems[i] = v.Clone()
		}
		return ArrayValue(elems), nil

	case *parser.UnaryExpression:
		return ctx.evalUnary(e)
	case *parser.BinaryExpression:
		return ctx.evalBinary(e)

	case *parser.IndexExpression:
		left, sig := ctx.eval(e.Left)
		if sig != nil {
			return Void, sig
		}
		idx, sig := ctx.eval(e.Index)
		if sig != nil {
			return Void, sig
		}
		if left.Kind() != KindArray {
			return Void, errSignal(newError(ErrTypeMismatch, "cannot index %s", left.Kind()))
		}
		if idx.Kind() != KindInt {
			return Void, errSignal(newError(ErrTypeMismatch, "array index must be int, got %s", idx.Kind()))
		}
		n := idx.Int()
		if n < 0 || n >= int64(left.Len()) {
			return Void, errSignal(newError(ErrIndexOutOfRange, "index %d out of range for length %d", n, left.Len()))
		}
		return left.Array()[n], nil

	case *parser.CallExpression:
		return ctx.evalCall(e)
	}

	return Void, errSignal(newError(ErrHostFailure, "unevaluable expression %T", expr))
}

func (ctx *evalCtx) evalUnary(e *parser.UnaryExpression) (Value, *signal) {
	right, sig := ctx.eval(e.Right)
	if sig != nil {
		return Void, sig
	}
	switch e.Operator {
	case "-":
		switch right.Kind() {
		case KindInt:
			return IntValue(-right.Int()), nil
		case KindFloat:
			return FloatValue(-right.Float()), nil
		}
		return Void, errSignal(newError(ErrTypeMismatch, "operator - requires a number, got %s", right.Kind()))
	case "!":
		if right.Kind() != KindBool {
			return Void, errSignal(newError(ErrTypeMismatch, "operator ! requires bool, got %s", right.Kind()))
		}
		return BoolValue(!right.Bool()), nil
	}
	return Void, errSignal(newError(ErrTypeMismatch, "unknown operator %s", e.Operator))
}

func (ctx *evalCtx) evalBinary(e *parser.BinaryExpression) (Value, *signal) {
	// logical operators short-circuit; the skipped branch is the same on
	// every re-evaluation because the left value is deterministic
	if e.Operator == "&&" || e.Operator == "||" {
		left, sig := ctx.eval(e.Left)
		if sig != nil {
			return Void, sig
		}
		if left.Kind() != KindBool {
			return Void, errSignal(newError(ErrTypeMismatch, "operator %s requires bool operands, got %s", e.Operator, left.Kind()))
		}
		if e.Operator == "&&" && !left.Bool() {
			return BoolValue(false), nil
		}
		if e.Operator == "||" && left.Bool() {
			return BoolValue(true), nil
		}
		right, sig := ctx.eval(e.Right)
		if sig != nil {
			return Void, sig
		}
		if right.Kind() != KindBool {
			return Void, errSignal(newError(ErrTypeMismatch, "operator %s requires bool operands, got %s", e.Operator, right.Kind()))
		}
		return right, nil
	}

	left, sig := ctx.eval(e.Left)
	if sig != nil {
		return Void, sig
	}
	right, sig := ctx.eval(e.Right)
	if sig != nil {
		return Void, sig
	}
	v, err := binaryOp(e.Operator, left, right)
	if err != nil {
		return Void, errSignal(err)
	}
	return v, nil
}

// binaryOp applies a non-logical binary operator. Mixed Integer/Float
// arithmetic promotes to Float; string concatenation stringifies the
// non-string operand.
func binaryOp(op string, l, r Value) (Value, *RuntimeError) {
	switch op {
	case "==":
		return BoolValue(l.Equal(r)), nil
	case "!=":
		return BoolValue(!l.Equal(r)), nil
	}

	if op == "+" && (l.Kind() == KindString || r.Kind() == KindString) {
		return StringValue(l.String() + r.String()), nil
	}

	if l.Kind() == KindString && r.Kind() == KindString {
		a, b := l.Str(), r.Str()
		switch op {
		case "<":
			return BoolValue(a < b), nil
		case "<=":
			return BoolValue(a <= b), nil
		case ">":
			return BoolValue(a > b), nil
		case ">=":
			return BoolValue(a >= b), nil
		}
		return Void, newError(ErrTypeMismatch, "operator %s not defined for strings", op)
	}

	if l.Kind() == KindInt && r.Kind() == KindInt {
		a, b := l.Int(), r.Int()
		switch op {
		case "+":
			return IntValue(a + b), nil
		case "-":
			return IntValue(a - b), nil
		case "*":
			return IntValue(a * b), nil
		case "/":
			if b == 0 {
				return Void, newError(ErrDivideByZero, "integer division by zero")
			}
			return IntValue(a / b), nil
		case "%":
			if b == 0 {
				return Void, newError(ErrDivideByZero, "integer modulo by zero")
			}
			return IntValue(a % b), nil
		case "<":
			return BoolValue(a < b), nil
		case "<=":
			return BoolValue(a <= b), nil
		case ">":
			return BoolValue(a > b), nil
		case ">=":
			return BoolValue(a >= b), nil
		}
		return Void, newError(ErrTypeMismatch, "unknown operator %s", op)
	}

	lf, lok := l.AsFloat()
	rf, rok := r.AsFloat()
	if lok && rok {
		switch op {
		case "+":
			return FloatValue(lf + rf), nil
		case "-":
			return FloatValue(lf - rf), nil
		case "*":
			return FloatValue(lf * rf), nil
		case "/":
			if rf == 0 {
				return Void, newError(ErrDivideByZero, "division by zero")
			}
			return FloatValue(lf / rf), nil
		case "%":
			return Void, newError(ErrTypeMismatch, "operator %% requires integer operands")
		case "<":
			return BoolValue(lf < rf), nil
		case "<=":
			return BoolValue(lf <= rf), nil
		case ">":
			return BoolValue(lf > rf), nil
		case ">=":
			return BoolValue(lf >= rf), nil
		}
		return Void, newError(ErrTypeMismatch, "unknown operator %s", op)
	}

	return Void, newError(ErrTypeMismatch, "operator %s not defined for %s and %s", op, l.Kind(), r.Kind())
}

// evalCall dispatches a call site. Arguments are evaluated first; the
// replay check happens where the call would complete, so replay entries
// are consumed in the same order they were appended, which is the order
// calls finish in.
func (ctx *evalCtx) evalCall(e *parser.CallExpression) (Value, *signal) {
	args := make([]Value, len(e.Arguments))
	for i, a := range e.Arguments {
		v, sig := ctx.eval(a)
		if sig != nil {
			return Void, sig
		}
		args[i] = v.Clone()
	}

	// a call that already ran within this statement replays its result
	if ctx.replayIdx < len(ctx.frame.replay) {
		v := ctx.frame.replay[ctx.replayIdx]
		ctx.replayIdx++
		return v, nil
	}

	// script functions shadow builtins
	if fn, ok := ctx.inst.script.Function(e.Function); ok {
		if len(args) != len(fn.Parameters) {
			return Void, errSignal(newError(ErrArityMismatch, "%s expects %d arguments, got %d", e.Function, len(fn.Parameters), len(args)))
		}
		if ctx.inst.Depth() >= ctx.eng.maxDepth {
			return Void, errSignal(newError(ErrStackOverflow, "call depth exceeds limit %d", ctx.eng.maxDepth))
		}
		scope := NewScope(ctx.inst.globals)
		for i, p := range fn.Parameters {
			scope.SetLocal(p, args[i])
		}
		ctx.inst.frames = append(ctx.inst.frames, newCallFrame(e.Function, scope, fn.Body.Statements))
		return Void, &signal{call: true}
	}

	b, ok := ctx.eng.registry.Lookup(e.Function)
	if !ok {
		return Void, errSignal(newError(ErrUnknownFunction, "unknown function %q", e.Function))
	}
	if err := b.checkArgs(args); err != nil {
		return Void, errSignal(err)
	}

	out := b.Invoke(&Invocation{Engine: ctx.eng, Instance: ctx.inst, Args: args})
	switch out.kind {
	case OutcomeComplete:
		ctx.frame.pushResult(out.result.Clone())
		ctx.replayIdx++
		return out.result, nil
	case OutcomeSuspend:
		if !b.CanSuspend {
			return Void, errSignal(newError(ErrHostFailure, "%s suspended without declaring the capability", b.Name))
		}
		w := out.wake
		return Void, &signal{wake: &w}
	default:
		return Void, errSignal(out.err)
	}
}
