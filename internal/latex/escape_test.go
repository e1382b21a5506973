package latex

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscape(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "BERT", want: "BERT"},
		{name: "specials", input: "Δ accuracy 5% & #1", want: `$\Delta$ accuracy 5\% \& \#1`},
		{name: "backslash is escaped once", input: `a\b`, want: `a\textbackslash{}b`},
		{name: "braces and underscore", input: "x_1 {y}", want: `x\_1 \{y\}`},
		{name: "underscore kept in math cell", input: "α_1θ", want: `$\alpha$_1$\theta$`},
		{name: "newline", input: "line1\nline2", want: "line1 line2"},
		{name: "tilde and caret", input: "2^10 ~ 1k", want: `2\textasciicircum{}10 \textasciitilde{} 1k`},
		{name: "math italic epsilon", input: "𝜖=0.1, μ≠τ", want: `$\epsilon$=0.1, $\mu$$\neq$$\tau$`},
		{name: "combining circumflex", input: "e\u0302", want: `e\textasciicircum{}`},
		{name: "not specified", input: "[Not specified]", want: "[Not specified]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Escape(tt.input))
		})
	}
}

func TestClean(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: "[Not specified]"},
		{name: "not specified", input: "[Not specified]", want: "[Not specified]"},
		{name: "specials", input: "Δ of 5% & 10#\n\nnew_line", want: `\ensuremath{\Delta} of 5\% \& 10\# new\_line`},
		{name: "already escaped", input: `already \& escaped \_`, want: `already \& escaped \_`},
		{name: "diacritics dropped", input: "cafe\u0301", want: "cafe"},
		{name: "whitespace collapsed", input: "  spaced   out\r\n ", want: "spaced out"},
		{name: "tilde and caret", input: "x~y^z", want: `x\textasciitilde{}y\textasciicircum{}z`},
		{name: "greek", input: "α=0.5, μ", want: `\ensuremath{\alpha}=0.5, \ensuremath{\mu}`},
		{name: "exactly the limit", input: strings.Repeat("a", 150), want: strings.Repeat("a", 150)},
		{name: "over the limit", input: strings.Repeat("a", 151), want: strings.Repeat("a", 147) + "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.input))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 50, 47))
	assert.Equal(t, "ααα...", Truncate("αααα", 3, 3))
	assert.Equal(t, "αααα", Truncate("αααα", 4, 1))
}

func TestHeader(t *testing.T) {
	tests := map[string]string{
		"LLM":                 "Llm",
		"context aware":       "Context Aware",
		"main_strengths":      "Main Strengths",
		"t5-base model":       "T5-Base Model",
		"pipline method used": "Pipline Method Used",
		"":                    "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Header(in), in)
	}
}
