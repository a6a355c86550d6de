package scalc

import (
	"github.com/dekarrin/ictioglot/grammar"
	"github.com/dekarrin/ictioglot/parse"
)

// Parser parses scalc source text into CalcUnit ASTs. The compiled table is
// built once and reused across every Parse call, per parse.ParseTable's
// "safe to share across parse sessions" contract.
type Parser struct {
	g     *grammar.Grammar
	table parse.ParseTable
}

// NewParser builds the scalc grammar and its SLR(1) table.
func NewParser() (*Parser, error) {
	g, err := NewGrammar()
	if err != nil {
		return nil, err
	}
	table, _, err := parse.GenerateSLRTable(*g)
	if err != nil {
		return nil, err
	}
	return &Parser{g: g, table: table}, nil
}

// Parse lexes and parses src (using filename for diagnostics), returning the
// top-level CalcUnit.
func (p *Parser) Parse(src, filename string) (*CalcUnit, error) {
	lexer, err := NewLexer(filename)
	if err != nil {
		return nil, err
	}
	toks, err := LexAll(lexer, src)
	if err != nil {
		return nil, err
	}

	driver := parse.New(p.table, *p.g, parse.NewParserContext(nil))
	for _, tok := range toks {
		if err := driver.Feed(tok); err != nil {
			return nil, err
		}
	}
	result, err := driver.End()
	if err != nil {
		return nil, err
	}
	return result.(*CalcUnit), nil
}
