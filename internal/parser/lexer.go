package parser

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Lexer maps the raw string into tokens for the AST definitions. Basic
// whitespace elision is enough for this grammar.
var Lexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Keyword", Pattern: `(?i)\b(?:roll|dice|summary|ping|help)\b`},
	{Name: "Ident", Pattern: `[a-zA-Z_]\w*`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
})

// Build creates the parser based on the struct tags in ast.go.
func Build() *participle.Parser[Command] {
	return participle.MustBuild[Command](
		participle.Lexer(Lexer),
		participle.Elide("Whitespace"),
	)
}
