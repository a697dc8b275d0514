// Package render turns a contract template plus a RenderContext into the
// fully resolved document text: scalar placeholder substitution, the
// structured quote and commercial-terms blocks, and whitespace cleanup.
package render

import (
	"regexp"
	"sort"
)

// VariableSyntax identifies which grammar matched a placeholder.
type VariableSyntax string

const (
	SyntaxAt      VariableSyntax = "@"
	SyntaxBrace   VariableSyntax = "{}"
	SyntaxBracket VariableSyntax = "[]"
)

// ParsedVariable is one placeholder occurrence in raw template text.
type ParsedVariable struct {
	FullMatch string
	Key       string
	Start     int
	End       int
	Syntax    VariableSyntax
}

var (
	atVarRE      = regexp.MustCompile(`@(\w+)`)
	braceVarRE   = regexp.MustCompile(`\{(\w+)\}`)
	bracketVarRE = regexp.MustCompile(`\[([A-Z][A-Z0-9_]*)\]`)
)

// ParseVariables scans text with the three grammars independently and
// merges the results ordered by start offset. Overlapping matches from
// different grammars are intentionally not deduplicated; callers that
// substitute must skip spans already consumed.
func ParseVariables(text string) []ParsedVariable {
	var vars []ParsedVariable
	collect := func(re *regexp.Regexp, syntax VariableSyntax) {
		for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
			vars = append(vars, ParsedVariable{
				FullMatch: text[m[0]:m[1]],
				Key:       text[m[2]:m[3]],
				Start:     m[0],
				End:       m[1],
				Syntax:    syntax,
			})
		}
	}
	collect(atVarRE, SyntaxAt)
	collect(braceVarRE, SyntaxBrace)
	collect(bracketVarRE, SyntaxBracket)

	sort.SliceStable(vars, func(i, j int) bool {
		if vars[i].Start != vars[j].Start {
			return vars[i].Start < vars[j].Start
		}
		return vars[i].End < vars[j].End
	})
	return vars
}
