package braces

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []Diagnostic
	}{
		{
			name: "balanced",
			src:  "let a = 1;\nfunction foo() {\n  let b = a;\n}\nfoo();\nbar();\n",
			want: []Diagnostic{},
		},
		{
			name: "extra closing brace",
			src:  "function f() {\n}\n}",
			want: []Diagnostic{{Line: 3, Status: ExtraClosingBrace}},
		},
		{
			name: "unterminated function",
			src:  "function f() {\nvar x = 1;",
			want: []Diagnostic{{Line: 2, Status: MissingClosingBracket}},
		},
		{
			name: "unterminated reported at last line including blanks",
			src:  "function f() {\nvar x = 1;\n\n\n",
			want: []Diagnostic{{Line: 4, Status: MissingClosingBracket}},
		},
		{
			name: "header without opening brace",
			src:  "function f()\nreturn 1;\n}",
			want: []Diagnostic{{Line: 1, Status: MissingOpeningBrace}},
		},
		{
			name: "opening brace on next non-blank line",
			src:  "function f()\n\n{\n}",
			want: []Diagnostic{},
		},
		{
			name: "class member left open",
			src: `class A {
  area() {
    return 1;
  perimeter() {
    return 2;
  }
}`,
			want: []Diagnostic{{Line: 2, Status: MissingClosingBracket}},
		},
		{
			name: "function inside unclosed class",
			src:  "class A {\nfunction f() {\n}",
			want: []Diagnostic{{Line: 1, Status: MissingClosingBracket}},
		},
		{
			name: "member header with brace on next line",
			src:  "class A {\n  run()\n  {\n  }\n}",
			want: []Diagnostic{},
		},
		{
			name: "class with members",
			src: `class Shape {
  constructor(w) {
    this.w = w;
  }
  get width() {
    return this.w;
  }
  area() {
    return this.w;
  }
}`,
			want: []Diagnostic{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New().Analyze(strings.NewReader(tt.src))
			require.NoError(t, err)
			for i := range got {
				got[i].Fingerprint = ""
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAnalyzeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.js")
	require.NoError(t, os.WriteFile(path, []byte("}\n"), 0o644))

	got, err := New().AnalyzeFile(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, ExtraClosingBrace, got[0].Status)
	assert.NotEmpty(t, got[0].Fingerprint)

	_, err = New().AnalyzeFile(filepath.Join(t.TempDir(), "none.js"))
	assert.Error(t, err)
}

func TestStatusDescription(t *testing.T) {
	assert.Equal(t, "Extra '}' bracket", ExtraClosingBrace.Description())
	assert.Equal(t, "missing_opening_brace", MissingOpeningBrace.String())
}
