package codegen

import (
	"fmt"
	"strings"

	"ember/internal/diag"
	"ember/internal/source"
	"ember/internal/types"
)

// slot is a variable as the generator sees it.
type slot struct {
	name   string
	offset int
	width  int
	elem   int
	signed bool
	addr   types.AddrMode
}

func (s slot) mem() string {
	return fmt.Sprintf("%s [rbp-%d]", sizeKeyword(s.width), s.offset)
}

// loopLabels is pushed for every while loop being lowered.
type loopLabels struct {
	end   string
	depth int // rsp depth when the loop was entered
}

// Context is the mutable state of one generation run. It is owned by a
// single Generate call and threaded through every lowering function.
type Context struct {
	out      strings.Builder
	labels   int
	regs     regPool
	loops    []loopLabels
	ifEnds   []string
	rspDepth int
	vars     []slot
	stkPos   int
}

// label returns the next counter value; every construct takes one.
func (c *Context) label() int {
	c.labels++
	return c.labels
}

func labelName(n int, construct string) string {
	return fmt.Sprintf(".%X_%s", n, construct)
}

func (c *Context) emit(format string, args ...any) {
	c.out.WriteString("    ")
	fmt.Fprintf(&c.out, format, args...)
	c.out.WriteByte('\n')
}

func (c *Context) place(label string) {
	c.out.WriteString(label)
	c.out.WriteString(":\n")
}

func (c *Context) lookup(name string) (slot, bool) {
	for i := len(c.vars) - 1; i >= 0; i-- {
		if c.vars[i].name == name {
			return c.vars[i], true
		}
	}
	return slot{}, false
}

// push reserves the next frame bytes for s; offset must agree with the
// checker's layout.
func (c *Context) push(s slot, at source.Span) *diag.Error {
	if _, ok := c.lookup(s.name); ok {
		return diag.Errorf(diag.GenRedeclared, at, "variable '%s' is already active", s.name)
	}
	c.stkPos += s.width
	if c.stkPos != s.offset {
		return diag.Errorf(diag.GenFrameMismatch, at,
			"variable '%s' expected at rbp-%d, frame is at rbp-%d", s.name, s.offset, c.stkPos)
	}
	c.vars = append(c.vars, s)
	return nil
}

func (c *Context) pop(n int, at source.Span) *diag.Error {
	if n > len(c.vars) {
		return diag.Errorf(diag.GenScopeMismatch, at, "scope pops %d variables, only %d active", n, len(c.vars))
	}
	for _, s := range c.vars[len(c.vars)-n:] {
		c.stkPos -= s.width
	}
	c.vars = c.vars[:len(c.vars)-n]
	return nil
}
