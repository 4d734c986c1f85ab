package decompiler

import (
	"fmt"

	"github.com/GreatGodOfFire/JavaDecompiler/internal/bytecode"
)

// pending is one entry of the pending operand stack: either an instruction
// not yet turned into an expression, or a value that dup or swap already
// materialized.
type pending struct {
	insn  bytecode.Instruction
	value *Value
}

type pendingStack struct {
	entries []pending
}

func (s *pendingStack) push(insn bytecode.Instruction) {
	s.entries = append(s.entries, pending{insn: insn})
}

func (s *pendingStack) pushValue(v Value) {
	s.entries = append(s.entries, pending{value: &v})
}

func (s *pendingStack) pop() (pending, error) {
	n := len(s.entries)
	if n == 0 {
		return pending{}, ErrStackUnderflow
	}
	top := s.entries[n-1]
	s.entries = s.entries[:n-1]
	return top, nil
}

func (s *pendingStack) len() int { return len(s.entries) }

// describe renders the remaining entries bottom to top.
func (s *pendingStack) describe(pool bytecode.Describer) []string {
	lines := make([]string, 0, len(s.entries)+1)
	lines = append(lines, fmt.Sprintf("// pending operand stack not empty (%d entries)", len(s.entries)))
	for _, e := range s.entries {
		if e.value != nil {
			lines = append(lines, "//   value: "+e.value.Expr)
			continue
		}
		lines = append(lines, "// "+bytecode.Format(e.insn, pool))
	}
	return lines
}
