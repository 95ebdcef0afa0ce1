// Package highlight tokenizes C/C++ source a line at a time with an ordered
// table of regular expressions and a one-bit carry for block comments.
package highlight

import (
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"
)

// Category is the lexical class assigned to a span of a line.
type Category int

const (
	Plain Category = iota
	Keyword
	Type
	Preprocessor
	Number
	String
	Char
	Function
	LineComment
	BlockComment
)

func (c Category) String() string {
	switch c {
	case Plain:
		return "plain"
	case Keyword:
		return "keyword"
	case Type:
		return "type"
	case Preprocessor:
		return "preprocessor"
	case Number:
		return "number"
	case String:
		return "string"
	case Char:
		return "char"
	case Function:
		return "function"
	case LineComment:
		return "line-comment"
	case BlockComment:
		return "block-comment"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// IsComment reports whether c is one of the comment classes.
func (c Category) IsComment() bool {
	return c == LineComment || c == BlockComment
}

// Rule is one row of the highlighting table. Rules are applied in table
// order; where two rules match overlapping text the later one wins.
type Rule struct {
	Category Category
	Pattern  string
}

var cppKeywords = []string{
	"auto", "break", "case", "catch", "class", "const", "constexpr", "continue",
	"default", "delete", "do", "else", "enum", "explicit", "export", "extern",
	"false", "for", "friend", "goto", "if", "inline", "mutable", "namespace",
	"new", "noexcept", "nullptr", "operator", "private", "protected", "public", "register",
	"reinterpret_cast", "return", "sizeof", "static", "static_assert", "static_cast", "struct", "switch",
	"template", "this", "throw", "true", "try", "typedef", "typeid", "typename",
	"union", "using", "virtual", "volatile", "while", "override", "final", "alignof",
	"alignas", "asm", "decltype", "thread_local",
}

var cppTypes = []string{
	"bool", "char", "char16_t", "char32_t", "double", "float", "int", "long",
	"short", "signed", "unsigned", "void", "wchar_t", "int8_t", "int16_t", "int32_t",
	"int64_t", "uint8_t", "uint16_t", "uint32_t", "uint64_t", "size_t", "ptrdiff_t", "intptr_t",
	"uintptr_t", "string", "vector", "map", "set", "list", "queue", "stack",
	"array", "unordered_map", "unordered_set", "shared_ptr", "unique_ptr", "weak_ptr",
	"FILE",
}

func wordsPattern(words []string) string {
	return `\b(?:` + strings.Join(words, "|") + `)\b`
}

// CppRules returns the C/C++ rule table in application order.
func CppRules() []Rule {
	return []Rule{
		{Keyword, wordsPattern(cppKeywords)},
		{Type, wordsPattern(cppTypes)},
		{Preprocessor, `^\s*#.*`},
		// The atomic integer part keeps long digit runs linear.
		{Number, `\b(?>[0-9]+)(?:\.[0-9]*)?(?:[eE][+-]?[0-9]+)?[fFlLuU]*\b`},
		{Number, `\b0[xX][0-9a-fA-F]+[uUlL]*\b`},
		{Number, `\b0[bB][01]+\b`},
		// Any identifier followed by '(' is a call or declaration, keywords
		// included; later string and comment rules repaint false positives.
		{Function, `\b[A-Za-z_][A-Za-z0-9_]*(?=\s*\()`},
		{String, `"(?:[^"\\]|\\.)*"`},
		{Char, `'(?:[^'\\]|\\.)*'`},
		{LineComment, `//.*`},
	}
}

type compiledRule struct {
	category Category
	re       *regexp2.Regexp
}

func compileRules(rules []Rule) ([]compiledRule, error) {
	out := make([]compiledRule, 0, len(rules))
	for i, r := range rules {
		re, err := regexp2.Compile(r.Pattern, regexp2.None)
		if err != nil {
			return nil, fmt.Errorf("rule %d (%s): %w", i, r.Category, err)
		}
		out = append(out, compiledRule{category: r.Category, re: re})
	}
	return out, nil
}
