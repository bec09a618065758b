package mcpserver

// Tool descriptions with interpretation guidance for LLMs.

func describeAnalyzeFile() string {
	return `Checks one JavaScript file for unbalanced curly brackets, unused variables, functions called but never declared (or out of scope), and single line if/else statements without braces.

USE WHEN:
- Reviewing a JavaScript file before committing it
- Hunting for a missing or extra curly bracket
- Cleaning up variables that are declared but never read
- Finding calls to functions that do not exist in the file or are not visible from the call site

INTERPRETING RESULTS:
- braces: each entry is a line with "Missing '}' bracket", "Missing '{' bracket", or "Extra '}' bracket"
- When braces is non-empty, gated is true and the unused/undeclared checks were skipped; fix the brackets first and run again
- unused: variables declared with var/let/const that no later line in a visible scope reads
- undeclared: calls with no matching function, class, or method declaration in scope; standard library names such as console.log or Math.max are ignored
- control: if/else headers whose body is not wrapped in braces
- The analysis is line-based and heuristic, so treat findings as review hints rather than compiler errors

METRICS RETURNED:
- path, gated
- braces: line, status
- unused: name, line, fingerprint
- undeclared: name, line, fingerprint
- control: line, keyword (IF or ELSE)`
}

func describeScopeTree() string {
	return `Builds the lexical scope tree of one JavaScript file: the file-level scope, every function and class block, and the variables declared in each.

USE WHEN:
- Understanding why a variable was reported unused or a call was reported undeclared
- Getting an outline of the functions and classes in a file
- Checking which lines belong to which function

INTERPRETING RESULTS:
- kind is open (file level), function, or class
- subtype simple marks a named function declaration; variable_defined marks a function assigned to a variable, which is not hoisted
- lines lists the lines for which the node is the innermost scope, as ranges such as 2-4,9
- symbols are the variables declared in that scope; constructor is set for variables initialized with new
- A name is visible from a line when it is declared in the innermost scope or any enclosing one

METRICS RETURNED:
- path, nodes (total node count)
- root: kind, subtype, name, lines, symbols, children (recursive)`
}
