// Package lexer splits raw document text into an ordered token sequence.
//
// Three token grammars are recognized in fixed precedence: code blocks
// first, then headers, then target headings. Precedence matters because a
// code block body may contain lines that would otherwise parse as headers
// or targets; once a span is consumed by an earlier grammar it is never
// reinterpreted. Text that matches no grammar survives as RawText spans so
// the document serializes back to its original form.
package lexer

import (
	"regexp"

	"github.com/awkspace/runfile/pkg/domain"
)

var (
	codeBlockPattern = regexp.MustCompile("(?ms)^```(.+?)[ \t]?\n(.+?)\n```$")
	headerPattern    = regexp.MustCompile(`(?ms)^#[ \t]+(.+?)$(?:\n+>[ \t]+([^#\n].+?))?$(?:\n+([^#\n].+?))?$`)
	targetPattern    = regexp.MustCompile(`(?ms)^##[ \t]+(.+?)(?:\n+([^#\n].+?))?$`)
	linkPattern      = regexp.MustCompile(`\[(.+?)\]\((.+?)\)`)
)

type grammar struct {
	pattern *regexp.Regexp
	build   func(groups []string) (domain.Token, error)
}

// grammars in precedence order.
var grammars = []grammar{
	{codeBlockPattern, buildCodeBlock},
	{headerPattern, buildHeader},
	{targetPattern, buildTarget},
}

// Tokenize scans the text with each grammar in precedence order. Every
// still-untyped span is searched left to right for the first match, which
// splits the span into prefix text, token and suffix text in place; the
// suffix is rescanned with the same grammar until no matches remain.
func Tokenize(text string) ([]domain.Token, error) {
	tokens := []domain.Token{domain.RawText(text)}
	for _, g := range grammars {
		i := 0
		for i < len(tokens) {
			raw, ok := tokens[i].(domain.RawText)
			if !ok {
				i++
				continue
			}
			chunk := string(raw)
			loc := g.pattern.FindStringSubmatchIndex(chunk)
			if loc == nil {
				i++
				continue
			}
			groups := make([]string, 0, len(loc)/2)
			for gi := 0; gi < len(loc); gi += 2 {
				if loc[gi] < 0 {
					groups = append(groups, "")
				} else {
					groups = append(groups, chunk[loc[gi]:loc[gi+1]])
				}
			}
			token, err := g.build(groups)
			if err != nil {
				return nil, err
			}

			spliced := make([]domain.Token, 0, len(tokens)+2)
			spliced = append(spliced, tokens[:i]...)
			if loc[0] > 0 {
				spliced = append(spliced, domain.RawText(chunk[:loc[0]]))
			}
			spliced = append(spliced, token)
			next := len(spliced)
			if loc[1] < len(chunk) {
				spliced = append(spliced, domain.RawText(chunk[loc[1]:]))
			}
			spliced = append(spliced, tokens[i+1:]...)
			tokens = spliced
			i = next
		}
	}
	return tokens, nil
}

func buildCodeBlock(groups []string) (domain.Token, error) {
	return &domain.CodeBlock{Language: groups[1], Body: groups[2]}, nil
}

func buildHeader(groups []string) (domain.Token, error) {
	header := &domain.Header{Title: groups[1], Description: groups[3]}
	if groups[2] != "" {
		for _, link := range linkPattern.FindAllStringSubmatch(groups[2], -1) {
			header.Lineage = append(header.Lineage, domain.Include{
				Alias:  link[1],
				Source: link[2],
			})
		}
	}
	return header, nil
}

func buildTarget(groups []string) (domain.Token, error) {
	return domain.NewTarget(groups[1], groups[2])
}
