package mathcheck

import (
	"reflect"
	"testing"
)

func TestValidate(t *testing.T) {
	c := New()

	tests := []struct {
		name  string
		latex string
		ok    bool
	}{
		{"simple expression", `x^2 + y^2 = r^2`, true},
		{"braced expression", `\frac{a}{b}`, true},
		{"dollar delimiters stripped", `$e^{i\pi} + 1 = 0$`, true},
		{"display delimiters stripped", `$$\int_0^1 x\,dx$$`, true},
		{"bracket delimiters stripped", `\[a = b\]`, true},
		{"left right pair", `\left( \frac{1}{2} \right)`, true},
		{"escaped braces ignored", `\{a, b\}`, true},
		{"empty", ``, false},
		{"only delimiters", `$$`, false},
		{"unbalanced open brace", `\frac{a}{b`, false},
		{"unbalanced close brace", `a}b`, false},
		{"right without left", `\right)`, false},
		{"left without right", `\left( x`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, msg := c.Validate(tt.latex)
			if ok != tt.ok {
				t.Fatalf("Validate(%q) = %v (%s), want %v", tt.latex, ok, msg, tt.ok)
			}
		})
	}
}

func TestFilterValid(t *testing.T) {
	c := New()

	in := []string{
		`x^2`,
		`\frac{a}{b`, // unbalanced, dropped
		`$y = mx + c$`,
		``, // empty, dropped
	}
	want := []string{`x^2`, `$y = mx + c$`}

	got := c.FilterValid(in)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("want %v, got %v", want, got)
	}
}

func TestFilterValid_AllValidKeepsOrder(t *testing.T) {
	c := New()
	in := []string{`a`, `b`, `c`}
	got := c.FilterValid(in)
	if !reflect.DeepEqual(got, in) {
		t.Fatalf("want %v, got %v", in, got)
	}
}
