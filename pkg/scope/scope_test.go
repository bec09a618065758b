package scope

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/graph/topo"
)

func build(t *testing.T, src string) *Node {
	t.Helper()
	root, err := Build(strings.NewReader(src))
	require.NoError(t, err)
	require.NoError(t, Verify(root))
	return root
}

func TestBuildSimpleFunction(t *testing.T) {
	root := build(t, `let a = 1;
function foo() {
  let b = a;
}
foo();
bar();
`)

	assert.Equal(t, KindOpen, root.Kind)
	assert.True(t, root.IsRoot())
	assert.Equal(t, []int{1, 5, 6}, root.LineNumbers())
	require.Len(t, root.Symbols, 1)
	assert.Equal(t, "a", root.Symbols[0].Name)
	assert.Equal(t, 1, root.Symbols[0].Line)

	require.Len(t, root.Children, 1)
	foo := root.Children[0]
	assert.Equal(t, KindFunction, foo.Kind)
	assert.Equal(t, SubtypeSimple, foo.Subtype)
	assert.Equal(t, "foo", foo.Name)
	assert.Equal(t, []int{2, 3, 4}, foo.LineNumbers())
	assert.Same(t, root, foo.Parent())
	require.Len(t, foo.Symbols, 1)
	assert.Equal(t, "b", foo.Symbols[0].Name)
}

func TestBuildAssignedFunction(t *testing.T) {
	root := build(t, `var handler = function(e) {
  return e;
};
`)
	require.Len(t, root.Children, 1)
	fn := root.Children[0]
	assert.Equal(t, "handler", fn.Name)
	assert.Equal(t, SubtypeVariableDefined, fn.Subtype)
	// The header is classified as a function, so no symbol is declared.
	assert.Empty(t, root.Symbols)
}

func TestBuildClass(t *testing.T) {
	root := build(t, `class Shape {
  constructor(w) {
    this.w = w;
  }
  area() {
    return this.w;
  }
}
let s = new Shape(2);
`)
	require.Len(t, root.Children, 1)
	class := root.Children[0]
	assert.Equal(t, KindClass, class.Kind)
	assert.Equal(t, "Shape", class.Name)
	// The constructor is not a member header, so its lines stay with the class.
	assert.Equal(t, []int{1, 2, 3, 4, 8}, class.LineNumbers())

	require.Len(t, class.Children, 1)
	area := class.Children[0]
	assert.Equal(t, "area", area.Name)
	assert.Equal(t, SubtypeNone, area.Subtype)
	assert.Equal(t, []int{5, 6, 7}, area.LineNumbers())

	require.Len(t, root.Symbols, 1)
	s := root.Symbols[0]
	assert.Equal(t, SymbolObject, s.Kind)
	assert.Equal(t, "Shape", s.Constructor)
	assert.Equal(t, 9, s.Line)
}

func TestBuildNestedBlocksAbsorbed(t *testing.T) {
	root := build(t, `function f(x) {
  if (x) {
    x++;
  }
  return x;
}
let y = 2;
`)
	require.Len(t, root.Children, 1)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, root.Children[0].LineNumbers())
	assert.Equal(t, []int{7}, root.LineNumbers())
}

func TestBuildDoubleCloseOnOneLine(t *testing.T) {
	root := build(t, `function outer() {
  function inner() {
    let z = 1;
  }}
let after = 0;
`)
	outer := root.Children[0]
	inner := outer.Children[0]
	assert.Equal(t, []int{1}, outer.LineNumbers())
	assert.Equal(t, []int{2, 3, 4}, inner.LineNumbers())
	assert.Equal(t, []int{5}, root.LineNumbers())
}

func TestBuildHeaderWithoutBrace(t *testing.T) {
	root := build(t, `function f()
{
  let a = 1;
}
let b = 2;
`)
	f := root.Children[0]
	assert.Equal(t, []int{1, 2, 3, 4}, f.LineNumbers())
	assert.Equal(t, []int{5}, root.LineNumbers())
}

func TestBuildUnnamedFunctionStillCreated(t *testing.T) {
	root := build(t, `obj.cb = function() {
};
`)
	require.Len(t, root.Children, 1)
	assert.Equal(t, "", root.Children[0].Name)
	assert.Nil(t, ResolveFunction(root, "", 5))
}

func TestBuildClassMemberMisclassification(t *testing.T) {
	// A method call without a semicolon in a class body opens a member.
	root := build(t, `class A {
  run() {
  }
  helper(x)
}
`)
	class := root.Children[0]
	require.Len(t, class.Children, 2)
	assert.Equal(t, "helper", class.Children[1].Name)
}

func TestBuilderFold(t *testing.T) {
	b := NewBuilder()
	b.Step("function f() {")
	assert.Equal(t, KindFunction, b.Current().Kind)
	b.Step("}")
	assert.Same(t, b.Root(), b.Current())
	assert.Equal(t, 2, b.Line())
}

func TestBuildFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.js")
	require.NoError(t, os.WriteFile(path, []byte("let a = 1;\n"), 0o644))

	root, err := BuildFile(path)
	require.NoError(t, err)
	assert.Len(t, root.Symbols, 1)

	_, err = BuildFile(filepath.Join(t.TempDir(), "missing.js"))
	assert.Error(t, err)
}

func TestStepAndLocate(t *testing.T) {
	root := build(t, `function a() {
  function b() {
    let x = 1;
  }}
let y = 2;
function c() {
}
`)
	a := root.Children[0]
	b := a.Children[0]
	c := root.Children[1]

	assert.Same(t, a, Step(root, 1))
	assert.Same(t, b, Step(a, 2))
	assert.Same(t, b, Step(b, 3))
	// Single-level correction lands on a, which does not own line 5.
	assert.Same(t, a, Step(b, 5))
	assert.Same(t, root, Locate(b, 5))
	assert.Same(t, c, Locate(root, 6))
	assert.Same(t, root, Step(root, 99))
	// Deep lines are found even from an unrelated hint.
	assert.Same(t, b, Locate(c, 3))
}

func TestResolve(t *testing.T) {
	root := build(t, `let a = 1;
function f() {
  let b = 2;
  let c = b;
}
`)
	f := root.Children[0]

	assert.NotNil(t, Resolve(f, "b", 4, true))
	// Same scope: declaration must precede use.
	assert.Nil(t, Resolve(f, "b", 3, true))
	assert.Nil(t, Resolve(f, "b", 2, true))
	assert.NotNil(t, Resolve(f, "b", 3, false))
	// Ancestors are searched without an order check.
	assert.NotNil(t, Resolve(f, "a", 1, true))
	assert.Nil(t, Resolve(root, "b", 10, true))
	assert.Nil(t, Resolve(f, "", 4, true))
}

func TestResolveFunctionHoisting(t *testing.T) {
	root := build(t, `early();
late();
function early() {
}
let late = function() {
};
late();
`)
	assert.NotNil(t, ResolveFunction(root, "early", 1))
	assert.Nil(t, ResolveFunction(root, "late", 2))
	assert.NotNil(t, ResolveFunction(root, "late", 7))
	assert.Nil(t, ResolveFunction(root, "missing", 7))
}

func TestResolveFunctionFromNestedScope(t *testing.T) {
	root := build(t, `function outer() {
  helper();
}
var helper = function() {
};
`)
	outer := root.Children[0]
	// The order check only applies to functions declared in the innermost scope.
	assert.NotNil(t, ResolveFunction(outer, "helper", 2))
}

func TestResolveClassAndMember(t *testing.T) {
	root := build(t, `class Shape {
  area() {
  }
}
function f() {
  let s = new Shape();
}
`)
	f := root.Children[1]
	class := ResolveClass(f, "Shape")
	require.NotNil(t, class)
	assert.NotNil(t, Member(class, "area"))
	assert.Nil(t, Member(class, "perimeter"))
	assert.Nil(t, ResolveClass(f, "Circle"))
}

func TestSkippable(t *testing.T) {
	root := build(t, `class A {
  m() {
    go();
  }
}
`)
	class := root.Children[0]
	m := class.Children[0]
	assert.True(t, Skippable(class, 1))
	assert.True(t, Skippable(class, 5))
	assert.True(t, Skippable(m, 2))
	assert.False(t, Skippable(m, 3))
	assert.False(t, Skippable(root, 6))
}

func TestWalkPreOrder(t *testing.T) {
	root := build(t, `function a() {
  function b() {
  }
}
function c() {
}
`)
	var names []string
	Walk(root, func(n *Node) bool {
		names = append(names, n.Name)
		return true
	})
	assert.Equal(t, []string{"", "a", "b", "c"}, names)
	assert.Equal(t, 4, Count(root))
}

func TestVerifyRejectsBrokenTrees(t *testing.T) {
	root := newNode(KindOpen, SubtypeSimple, "")
	child := newNode(KindFunction, SubtypeSimple, "f")
	root.addChild(child)
	root.Lines.Add(1)
	child.Lines.Add(1)
	assert.ErrorIs(t, Verify(root), ErrMalformedTree)

	orphan := newNode(KindOpen, SubtypeSimple, "")
	stray := newNode(KindFunction, SubtypeSimple, "g")
	orphan.Children = append(orphan.Children, stray)
	assert.ErrorIs(t, Verify(orphan), ErrMalformedTree)

	assert.ErrorIs(t, Verify(nil), ErrMalformedTree)
}

func TestVerifyGraphShape(t *testing.T) {
	t.Run("cycle", func(t *testing.T) {
		root := newNode(KindOpen, SubtypeSimple, "")
		a := newNode(KindFunction, SubtypeSimple, "a")
		b := newNode(KindFunction, SubtypeSimple, "b")
		root.addChild(a)
		a.addChild(b)
		b.Children = append(b.Children, a)

		err := Verify(root)
		assert.ErrorIs(t, err, ErrMalformedTree)
		var cyclic topo.Unorderable
		require.ErrorAs(t, err, &cyclic)
		require.Len(t, cyclic, 1)
		assert.Len(t, cyclic[0], 2)
	})

	t.Run("self loop", func(t *testing.T) {
		root := newNode(KindOpen, SubtypeSimple, "")
		s := newNode(KindFunction, SubtypeSimple, "s")
		root.addChild(s)
		s.Children = append(s.Children, s)

		var cyclic topo.Unorderable
		assert.ErrorAs(t, Verify(root), &cyclic)
	})

	t.Run("shared child", func(t *testing.T) {
		root := newNode(KindOpen, SubtypeSimple, "")
		x := newNode(KindFunction, SubtypeSimple, "x")
		y := newNode(KindFunction, SubtypeSimple, "y")
		z := newNode(KindFunction, SubtypeSimple, "z")
		root.addChild(x)
		root.addChild(y)
		x.addChild(z)
		y.Children = append(y.Children, z)

		err := Verify(root)
		assert.ErrorIs(t, err, ErrMalformedTree)
		assert.Contains(t, err.Error(), `node "z" has 2 parents`)
	})

	t.Run("parent outside the tree", func(t *testing.T) {
		root := newNode(KindOpen, SubtypeSimple, "")
		f := newNode(KindFunction, SubtypeSimple, "f")
		root.addChild(f)
		f.parent = newNode(KindOpen, SubtypeSimple, "other")

		err := Verify(root)
		assert.ErrorIs(t, err, ErrMalformedTree)
		assert.Contains(t, err.Error(), "2 roots")
	})
}

func TestKindStrings(t *testing.T) {
	assert.Equal(t, "class", KindClass.String())
	assert.Equal(t, "variable_defined", SubtypeVariableDefined.String())
	assert.Equal(t, "object", SymbolObject.String())
}

func TestOutline(t *testing.T) {
	root := build(t, `let a = 1;
function foo() {
  let b = a;
}
foo();
`)
	o := NewOutline(root)
	assert.Equal(t, "open", o.Kind)
	assert.Empty(t, o.Subtype)
	assert.Equal(t, "1,5", o.Lines)
	require.Len(t, o.Symbols, 1)
	assert.Equal(t, OutlineSymbol{Name: "a", Line: 1, Kind: "simple"}, o.Symbols[0])

	require.Len(t, o.Children, 1)
	foo := o.Children[0]
	assert.Equal(t, "function foo (simple) [2-4]", foo.Label())
	assert.Empty(t, foo.Children)
}

func TestRanges(t *testing.T) {
	tests := []struct {
		lines []int
		want  string
	}{
		{nil, ""},
		{[]int{4}, "4"},
		{[]int{1, 2, 3}, "1-3"},
		{[]int{1, 2, 3, 7, 9, 10}, "1-3,7,9-10"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Ranges(tt.lines))
	}
}
