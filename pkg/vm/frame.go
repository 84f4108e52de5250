package vm

import "github.com/hazama/plotscript/pkg/parser"

// blockEntry is one level of the block stack inside a call frame: a
// statement list and the index of the statement to execute next. A loop
// body entry keeps a pointer to its while statement so break and continue
// know where to unwind to.
type blockEntry struct {
	stmts []parser.Statement
	idx   int
	loop  *parser.WhileStatement
}

// CallFrame is one activation of a script function (or of a script's
// top-level statement list). The engine never uses the Go call stack to
// hold script state; the block stack plus the replay list are the
// complete resume cursor, so a frame can be parked between host ticks.
//
// The replay list holds the results of calls already completed within
// the statement currently being executed. When the statement is
// re-evaluated after a suspension or a script-function return, call
// sites consume the list in evaluation order instead of re-running, and
// the newly arrived result binds exactly at the call that yielded.
type CallFrame struct {
	fn     string
	scope  *Scope
	blocks []blockEntry
	replay []Value

	// Source position of the current statement, for fault reports.
	line   int
	column int
}

func newCallFrame(fn string, scope *Scope, body []parser.Statement) *CallFrame {
	return &CallFrame{
		fn:     fn,
		scope:  scope,
		blocks: []blockEntry{{stmts: body}},
	}
}

// Function returns the name of the script function this frame runs.
func (f *CallFrame) Function() string { return f.fn }

// top returns the innermost block entry.
func (f *CallFrame) top() *blockEntry {
	return &f.blocks[len(f.blocks)-1]
}

// current returns the statement the frame is positioned at, or nil when
// the innermost block is exhausted.
func (f *CallFrame) current() parser.Statement {
	b := f.top()
	if b.idx >= len(b.stmts) {
		return nil
	}
	return b.stmts[b.idx]
}

// pushBlock descends into a nested statement list.
func (f *CallFrame) pushBlock(stmts []parser.Statement, loop *parser.WhileStatement) {
	f.blocks = append(f.blocks, blockEntry{stmts: stmts, loop: loop})
}

// popBlock ascends out of the innermost block.
func (f *CallFrame) popBlock() {
	f.blocks = f.blocks[:len(f.blocks)-1]
}

// finishStatement clears the replay list and advances past the current
// statement. Called only after the statement ran to completion.
func (f *CallFrame) finishStatement() {
	f.replay = f.replay[:0]
	f.top().idx++
}

// breakLoop unwinds to the innermost loop and advances past it.
// The parser guarantees an enclosing loop exists.
func (f *CallFrame) breakLoop() {
	for f.top().loop == nil {
		f.popBlock()
	}
	f.popBlock()
	f.replay = f.replay[:0]
	f.top().idx++
}

// continueLoop unwinds to the innermost loop, leaving the frame
// positioned at the while statement so its condition re-evaluates.
func (f *CallFrame) continueLoop() {
	for f.top().loop == nil {
		f.popBlock()
	}
	f.popBlock()
	f.replay = f.replay[:0]
}

// pushResult appends a completed call result to the replay list.
func (f *CallFrame) pushResult(v Value) {
	f.replay = append(f.replay, v)
}
