// Package classify holds the line-level predicates used to recognize
// declarations in JavaScript source without tokenizing it.
//
// Every function here is a pure function of a single line of text. The
// predicates approximate grammar rules and are knowingly wrong for some
// inputs; callers depend on that exact behavior, so they must not be
// "improved" into a parser.
package classify

import (
	"regexp"
	"strings"
)

// Ident is the identifier pattern shared by all extractors.
const Ident = `[A-Za-z_$][0-9A-Za-z_$]*`

// placeholder replaces commas nested in parentheses before a declaration
// line is split into fragments.
const placeholder = "|"

var (
	identRe       = regexp.MustCompile(Ident)
	leadingIdent  = regexp.MustCompile(`^\s*(` + Ident + `)`)
	callRe        = regexp.MustCompile(Ident + `\(`)
	setterRe      = regexp.MustCompile(`set\s+` + Ident + `\(`)
	getterRe      = regexp.MustCompile(`get\s+` + Ident + `\(`)
	functionName  = regexp.MustCompile(`function (` + Ident + `)`)
	varName       = regexp.MustCompile(`var (` + Ident + `)`)
	letName       = regexp.MustCompile(`let (` + Ident + `)`)
	declName      = regexp.MustCompile(`(?:var|let)\s+(` + Ident + `)`)
	className     = regexp.MustCompile(`class (` + Ident + `)`)
	constructorRe = regexp.MustCompile(`new\s+(` + Ident + `)`)
)

// IsVariableDeclaration reports whether the line starts a var or let
// declaration.
func IsVariableDeclaration(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	return strings.HasPrefix(trimmed, "var ") || strings.HasPrefix(trimmed, "let ")
}

// IsFunctionDeclaration reports whether the line opens a function outside a
// class body, either as a statement or as an assignment.
func IsFunctionDeclaration(line string) bool {
	if IsAssignedFunction(line) {
		return true
	}
	return strings.HasPrefix(strings.TrimLeft(line, " \t"), "function")
}

// IsAssignedFunction reports whether the line binds a function expression
// with "=" (x = function(...)).
func IsAssignedFunction(line string) bool {
	return strings.Contains(strings.ReplaceAll(line, " ", ""), "=function(")
}

// IsClassDeclaration reports whether the line opens a class.
func IsClassDeclaration(line string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " \t"), "class ")
}

// IsClassMember reports whether a line inside a class body declares a
// member function. Setters, getters and the constructor are excluded, as is
// any line containing a semicolon.
//
// Any other line shaped like "name(" without a semicolon also matches, such
// as a multi-line if header. That misclassification is intentional.
func IsClassMember(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	if strings.HasPrefix(trimmed, "set ") ||
		strings.HasPrefix(trimmed, "get ") ||
		strings.HasPrefix(trimmed, "constructor(") ||
		strings.Contains(line, ";") {
		return false
	}
	return callRe.MatchString(line)
}

// IsSetter reports whether the line contains a setter header.
func IsSetter(line string) bool {
	return setterRe.MatchString(line)
}

// IsGetter reports whether the line contains a getter header.
func IsGetter(line string) bool {
	return getterRe.MatchString(line)
}

// IsConstructor reports whether the trimmed line starts a constructor.
func IsConstructor(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "constructor(")
}

// FunctionName extracts the name of a function declared on the line. For the
// assignment form the name is the identifier after var or let; anything else
// (obj.x = function, const f = function) yields "".
func FunctionName(line string) string {
	if IsAssignedFunction(line) {
		re := letName
		if strings.HasPrefix(strings.TrimLeft(line, " \t"), "var ") {
			re = varName
		}
		return firstGroup(re, line)
	}
	if strings.HasPrefix(strings.TrimLeft(line, " \t"), "function") {
		return firstGroup(functionName, line)
	}
	return ""
}

// ClassName extracts the identifier after "class ".
func ClassName(line string) string {
	return firstGroup(className, line)
}

// MemberName returns the first identifier on the trimmed line.
func MemberName(line string) string {
	return identRe.FindString(strings.TrimSpace(line))
}

// Declaration is one variable introduced by a var or let line.
type Declaration struct {
	Name string
	// Constructor names the class instantiated by a "new X" initializer.
	// Empty for plain values.
	Constructor string
}

// IsObject reports whether the declaration was initialized with "new".
func (d Declaration) IsObject() bool {
	return d.Constructor != ""
}

// Declarations extracts every variable declared on a var or let line.
// Commas inside parentheses do not separate declarations. Fragments whose
// name cannot be extracted are dropped.
func Declarations(line string) []Declaration {
	line = strings.TrimSpace(MaskParenCommas(line))

	var decls []Declaration
	for i, fragment := range strings.Split(line, ",") {
		var name string
		if i == 0 || IsVariableDeclaration(fragment) {
			name = firstGroup(declName, fragment)
		} else {
			name = firstGroup(leadingIdent, fragment)
		}
		if name == "" {
			continue
		}

		decl := Declaration{Name: name}
		if _, rhs, ok := strings.Cut(fragment, "="); ok {
			rhs = strings.TrimSpace(rhs)
			if strings.HasPrefix(rhs, "new ") {
				decl.Constructor = firstGroup(constructorRe, rhs)
			}
		}
		decls = append(decls, decl)
	}
	return decls
}

// MaskParenCommas replaces commas nested inside parentheses with a
// placeholder so the line can be split on top-level commas.
func MaskParenCommas(line string) string {
	if !strings.Contains(line, "(") || !strings.Contains(line, ",") {
		return line
	}

	var b strings.Builder
	b.Grow(len(line))
	depth := 0
	for _, c := range line {
		switch {
		case c == '(':
			depth++
		case c == ')':
			depth--
		case c == ',' && depth > 0:
			b.WriteString(placeholder)
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

func firstGroup(re *regexp.Regexp, s string) string {
	if m := re.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return ""
}
