// Package builtins lists names assumed to be provided by the JavaScript host
// runtime. The analyzers never report them as unused or undeclared.
package builtins

import "sort"

// DefaultObjects are global objects whose members are never resolved against
// the scope tree.
var DefaultObjects = []string{
	"console", "window", "document", "navigator", "location", "history",
	"localStorage", "sessionStorage", "Math", "JSON", "Object", "Array",
	"String", "Number", "Boolean", "Date", "RegExp", "Promise", "Symbol",
	"Reflect", "Intl", "Error", "Map", "Set", "WeakMap", "WeakSet",
	"process", "global", "globalThis", "module", "exports", "Buffer",
	"this",
}

// DefaultFunctions are global functions that are callable without a
// declaration.
var DefaultFunctions = []string{
	"parseInt", "parseFloat", "isNaN", "isFinite",
	"encodeURI", "decodeURI", "encodeURIComponent", "decodeURIComponent",
	"escape", "unescape", "eval",
	"setTimeout", "setInterval", "setImmediate",
	"clearTimeout", "clearInterval", "clearImmediate",
	"alert", "confirm", "prompt", "fetch", "require",
	"String", "Number", "Boolean", "Array", "Object", "Symbol", "Date",
	"RegExp", "Error", "Promise",
}

// DefaultMethods are methods every object inherits.
var DefaultMethods = []string{
	"hasOwnProperty", "isPrototypeOf", "propertyIsEnumerable",
	"toString", "toLocaleString", "valueOf",
}

// Keywords are reserved words. Some look like calls when followed by "(".
var Keywords = []string{
	"if", "for", "while", "switch", "catch", "function", "return", "typeof",
	"instanceof", "void", "delete", "in", "of", "do", "else", "with", "new",
	"super", "await", "async", "yield", "throw", "case",
	"var", "let", "const",
}

// Set is the name table consulted by the analyzers.
type Set struct {
	objects   map[string]struct{}
	functions map[string]struct{}
	methods   map[string]struct{}
	keywords  map[string]struct{}
}

// Option configures a Set.
type Option func(*Set)

// WithObjects adds global object names.
func WithObjects(names ...string) Option {
	return func(s *Set) {
		addAll(s.objects, names)
	}
}

// WithFunctions adds global function names.
func WithFunctions(names ...string) Option {
	return func(s *Set) {
		addAll(s.functions, names)
	}
}

// WithMethods adds inherited method names.
func WithMethods(names ...string) Option {
	return func(s *Set) {
		addAll(s.methods, names)
	}
}

// New returns the default tables extended by opts.
func New(opts ...Option) *Set {
	s := &Set{
		objects:   make(map[string]struct{}),
		functions: make(map[string]struct{}),
		methods:   make(map[string]struct{}),
		keywords:  make(map[string]struct{}),
	}
	addAll(s.objects, DefaultObjects)
	addAll(s.functions, DefaultFunctions)
	addAll(s.methods, DefaultMethods)
	addAll(s.keywords, Keywords)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IsObject reports whether name is a host-provided global object.
func (s *Set) IsObject(name string) bool {
	_, ok := s.objects[name]
	return ok
}

// IsFunction reports whether name is a host-provided global function.
func (s *Set) IsFunction(name string) bool {
	_, ok := s.functions[name]
	return ok
}

// IsMethod reports whether name is a method inherited by every object.
func (s *Set) IsMethod(name string) bool {
	_, ok := s.methods[name]
	return ok
}

// IsKeyword reports whether name is a reserved word.
func (s *Set) IsKeyword(name string) bool {
	_, ok := s.keywords[name]
	return ok
}

// Names returns the sorted objects, functions and methods of s.
func (s *Set) Names() (objects, functions, methods []string) {
	return sorted(s.objects), sorted(s.functions), sorted(s.methods)
}

func sorted(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for name := range m {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func addAll(m map[string]struct{}, names []string) {
	for _, name := range names {
		if name != "" {
			m[name] = struct{}{}
		}
	}
}
