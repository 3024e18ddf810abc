package codegen

import (
	"ember/internal/diag"
	"ember/internal/source"
)

// reg is a slot of the scratch pool, 0 is rax.
type reg int

const (
	regRAX reg = 0
	regRCX reg = 1
)

// name by width: 1, 2, 4, 8 bytes
var regNames = [...][4]string{
	{"al", "ax", "eax", "rax"},
	{"cl", "cx", "ecx", "rcx"},
	{"sil", "si", "esi", "rsi"},
	{"dil", "di", "edi", "rdi"},
	{"r8b", "r8w", "r8d", "r8"},
	{"r9b", "r9w", "r9d", "r9"},
	{"r10b", "r10w", "r10d", "r10"},
	{"r11b", "r11w", "r11d", "r11"},
}

const poolSize = len(regNames)

func (r reg) String() string { return regNames[r][3] }

// sized returns the sub-register holding the low width bytes.
func (r reg) sized(width int) string {
	switch width {
	case 1:
		return regNames[r][0]
	case 2:
		return regNames[r][1]
	case 4:
		return regNames[r][2]
	}
	return regNames[r][3]
}

func (r reg) low() string { return regNames[r][0] }

// regPool hands out scratch registers strictly as a stack.
type regPool struct {
	next int
}

func (p *regPool) allocate(at source.Span) (reg, *diag.Error) {
	if p.next >= poolSize {
		return 0, diag.Errorf(diag.GenRegistersExhausted, at,
			"expression needs more than %d scratch registers", poolSize)
	}
	r := reg(p.next)
	p.next++
	return r, nil
}

// peek reads the n-th allocated slot without claiming it.
func (p *regPool) peek(n int, at source.Span) (reg, *diag.Error) {
	if n < 0 || n >= p.next {
		return 0, diag.Errorf(diag.GenRegisterRange, at, "register slot %d is not allocated", n)
	}
	return reg(n), nil
}

// operands reads the two topmost slots: the left and right operand of the
// binary expression lowered last.
func (p *regPool) operands(at source.Span) (reg, reg, *diag.Error) {
	l, err := p.peek(p.next-2, at)
	if err != nil {
		return 0, 0, err
	}
	r, err := p.peek(p.next-1, at)
	if err != nil {
		return 0, 0, err
	}
	return l, r, nil
}

func (p *regPool) release(at source.Span) *diag.Error {
	if p.next == 0 {
		return diag.Errorf(diag.GenRegisterRange, at, "release on an empty register pool")
	}
	p.next--
	return nil
}

// live reports whether r currently holds a value.
func (p *regPool) live(r reg) bool { return int(r) < p.next }

// sizeKeyword is the NASM operand-size prefix for a memory operand.
func sizeKeyword(width int) string {
	switch width {
	case 1:
		return "byte"
	case 2:
		return "word"
	case 4:
		return "dword"
	}
	return "qword"
}
