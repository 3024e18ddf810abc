package codegen

import (
	"testing"

	"ember/internal/diag"
	"ember/internal/source"
)

func TestRegPoolIsAStack(t *testing.T) {
	var p regPool
	var at source.Span
	for i := 0; i < poolSize; i++ {
		r, err := p.allocate(at)
		if err != nil {
			t.Fatalf("allocate %d: %v", i, err)
		}
		if int(r) != i {
			t.Fatalf("expected slot %d, got %d", i, r)
		}
	}
	if _, err := p.allocate(at); err == nil || err.Code() != diag.GenRegistersExhausted {
		t.Fatalf("expected exhaustion, got %v", err)
	}
	if r, err := p.peek(2, at); err != nil || r.String() != "rsi" {
		t.Fatalf("peek(2) = %v, %v", r, err)
	}
	for i := 0; i < poolSize; i++ {
		if err := p.release(at); err != nil {
			t.Fatalf("release %d: %v", i, err)
		}
	}
	if err := p.release(at); err == nil || err.Code() != diag.GenRegisterRange {
		t.Fatalf("expected range error on empty release, got %v", err)
	}
	if _, err := p.peek(0, at); err == nil {
		t.Fatalf("peek on empty pool must fail")
	}
}

func TestSubRegisters(t *testing.T) {
	cases := []struct {
		r     reg
		width int
		want  string
	}{
		{regRAX, 1, "al"},
		{regRAX, 4, "eax"},
		{reg(2), 1, "sil"},
		{reg(3), 2, "di"},
		{reg(4), 4, "r8d"},
		{reg(7), 1, "r11b"},
		{reg(6), 8, "r10"},
	}
	for _, tc := range cases {
		if got := tc.r.sized(tc.width); got != tc.want {
			t.Errorf("%s.sized(%d) = %s, want %s", tc.r, tc.width, got, tc.want)
		}
	}
}

func TestShiftKeepsRCX(t *testing.T) {
	ctx := &Context{}
	lowerShift(ctx, "shl", reg(2), reg(3))
	want := "    xchg rcx, rdi\n    shl rsi, cl\n    xchg rcx, rdi\n"
	if got := ctx.out.String(); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestLabelsAreHex(t *testing.T) {
	ctx := &Context{labels: 9}
	if got := labelName(ctx.label(), "WHILE_END"); got != ".A_WHILE_END" {
		t.Fatalf("unexpected label %s", got)
	}
}

func TestOperandsReadTopSlots(t *testing.T) {
	var p regPool
	var at source.Span
	if _, err := p.allocate(at); err != nil {
		t.Fatal(err)
	}
	if _, _, err := p.operands(at); err == nil || err.Code() != diag.GenRegisterRange {
		t.Fatalf("one live slot: %v", err)
	}
	for range 2 {
		if _, err := p.allocate(at); err != nil {
			t.Fatal(err)
		}
	}
	l, r, err := p.operands(at)
	if err != nil || l != reg(1) || r != reg(2) {
		t.Fatalf("operands = %v, %v, %v", l, r, err)
	}
	if p.next != 3 {
		t.Errorf("operands claimed slots: next = %d", p.next)
	}
}
