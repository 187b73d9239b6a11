package sparql

import (
	"fmt"
	"strings"

	"github.com/kgflow/kgflow/kg"
)

// Features recognized but not implemented. Meeting one of these raises
// a QueryError instead of silently matching nothing.
var unsupportedKeywords = map[string]bool{
	"OPTIONAL": true, "UNION": true, "GRAPH": true, "SERVICE": true,
	"MINUS": true, "BIND": true, "VALUES": true, "EXISTS": true,
	"CONSTRUCT": true, "DESCRIBE": true, "INSERT": true, "DELETE": true,
	"BASE": true, "HAVING": true, "GROUP": true,
}

// Parse parses a SPARQL ASK or SELECT query. Malformed or unsupported
// input yields a *kg.QueryError carrying the query text.
func Parse(query string) (*Query, error) {
	tokens, err := NewLexer(query).Lex()
	if err != nil {
		return nil, &kg.QueryError{Query: query, Msg: err.Error()}
	}
	p := &parser{tokens: tokens, text: query}
	q, err := p.parseQuery()
	if err != nil {
		return nil, &kg.QueryError{Query: query, Msg: err.Error()}
	}
	return q, nil
}

type parser struct {
	tokens []Token
	pos    int
	text   string
	query  *Query
}

func (p *parser) peek() Token { return p.tokens[p.pos] }
func (p *parser) next() Token { t := p.tokens[p.pos]; p.pos++; return t }
func (p *parser) atEOF() bool { return p.peek().Type == TokenEOF }

// atom reports whether the current token is the given bare word,
// case-insensitively.
func (p *parser) atom(word string) bool {
	t := p.peek()
	return t.Type == TokenAtom && strings.EqualFold(t.Value, word)
}

func (p *parser) expect(tt TokenType, what string) (Token, error) {
	t := p.next()
	if t.Type != tt {
		return Token{}, fmt.Errorf("expected %s at %d:%d, got %s", what, t.Line, t.Col, t)
	}
	return t, nil
}

func (p *parser) parseQuery() (*Query, error) {
	q := &Query{Text: p.text, Limit: -1}
	p.query = q

	if err := p.parsePrologue(); err != nil {
		return nil, err
	}

	switch {
	case p.atom("ASK"):
		p.next()
		q.Form = FormAsk
		if p.atom("WHERE") {
			p.next()
		}
		if err := p.parseGroup(); err != nil {
			return nil, err
		}
	case p.atom("SELECT"):
		p.next()
		q.Form = FormSelect
		if err := p.parseProjection(); err != nil {
			return nil, err
		}
		if p.atom("WHERE") {
			p.next()
		}
		if err := p.parseGroup(); err != nil {
			return nil, err
		}
		if err := p.parseModifiers(); err != nil {
			return nil, err
		}
	default:
		t := p.peek()
		if t.Type == TokenAtom && unsupportedKeywords[strings.ToUpper(t.Value)] {
			return nil, fmt.Errorf("unsupported query form %s", strings.ToUpper(t.Value))
		}
		return nil, fmt.Errorf("expected ASK or SELECT, got %s", t)
	}

	if !p.atEOF() {
		return nil, fmt.Errorf("unexpected trailing input: %s", p.peek())
	}
	if len(q.Where) == 0 {
		return nil, fmt.Errorf("query has an empty graph pattern")
	}
	return q, nil
}

func (p *parser) parsePrologue() error {
	for p.atom("PREFIX") {
		p.next()
		t := p.next()
		var prefix string
		switch t.Type {
		case TokenPName:
			if !strings.HasSuffix(t.Value, ":") {
				return fmt.Errorf("malformed prefix declaration at %d:%d", t.Line, t.Col)
			}
			prefix = strings.TrimSuffix(t.Value, ":")
		default:
			return fmt.Errorf("expected prefix name at %d:%d, got %s", t.Line, t.Col, t)
		}
		iri, err := p.expect(TokenIRIRef, "namespace IRI")
		if err != nil {
			return err
		}
		p.query.Prefixes = append(p.query.Prefixes, kg.Namespace{Prefix: prefix, IRI: iri.Value})
	}
	return nil
}

func (p *parser) parseProjection() error {
	if p.atom("DISTINCT") {
		p.next()
		p.query.Distinct = true
	} else if p.atom("REDUCED") {
		// REDUCED permits duplicate elimination but does not require it.
		p.next()
	}

	if p.peek().Type == TokenStar {
		p.next()
		p.query.Star = true
		return nil
	}
	for p.peek().Type == TokenVar {
		p.query.Vars = append(p.query.Vars, p.next().Value)
	}
	if len(p.query.Vars) == 0 {
		return fmt.Errorf("SELECT requires at least one variable or *")
	}
	return nil
}

func (p *parser) parseGroup() error {
	if _, err := p.expect(TokenLeftBrace, "'{'"); err != nil {
		return err
	}
	for {
		t := p.peek()
		switch {
		case t.Type == TokenRightBrace:
			p.next()
			return nil
		case t.Type == TokenEOF:
			return fmt.Errorf("unterminated graph pattern")
		case p.atom("FILTER"):
			p.next()
			expr, err := p.parseFilter()
			if err != nil {
				return err
			}
			p.query.Filters = append(p.query.Filters, expr)
			// Optional dot after a filter.
			if p.peek().Type == TokenDot {
				p.next()
			}
		case t.Type == TokenAtom && unsupportedKeywords[strings.ToUpper(t.Value)]:
			return fmt.Errorf("unsupported feature: %s", strings.ToUpper(t.Value))
		default:
			if err := p.parseTriplesBlock(); err != nil {
				return err
			}
		}
	}
}

// parseTriplesBlock parses one subject with its predicate-object list,
// honoring the ';' and ',' abbreviations, through the closing '.' when
// present.
func (p *parser) parseTriplesBlock() error {
	subj, err := p.parsePatternTerm(false)
	if err != nil {
		return err
	}
	for {
		pred, err := p.parsePatternTerm(true)
		if err != nil {
			return err
		}
		for {
			obj, err := p.parsePatternTerm(false)
			if err != nil {
				return err
			}
			p.query.Where = append(p.query.Where, Pattern{S: subj, P: pred, O: obj})
			if p.peek().Type == TokenComma {
				p.next()
				continue
			}
			break
		}
		if p.peek().Type == TokenSemicolon {
			p.next()
			// A dangling semicolon before '.' or '}' is permitted.
			if p.peek().Type == TokenDot || p.peek().Type == TokenRightBrace {
				break
			}
			continue
		}
		break
	}
	if p.peek().Type == TokenDot {
		p.next()
	}
	return nil
}

// parsePatternTerm parses one triple pattern position. In predicate
// position only IRIs, prefixed names, variables and 'a' are valid.
func (p *parser) parsePatternTerm(predicate bool) (PatternTerm, error) {
	t := p.next()
	switch t.Type {
	case TokenVar:
		return PatternTerm{Var: t.Value}, nil
	case TokenIRIRef:
		return PatternTerm{Term: kg.IRI{Value: t.Value}}, nil
	case TokenPName:
		iri, err := p.expandPName(t)
		if err != nil {
			return PatternTerm{}, err
		}
		return PatternTerm{Term: kg.IRI{Value: iri}}, nil
	case TokenBlank:
		if predicate {
			return PatternTerm{}, fmt.Errorf("blank node in predicate position at %d:%d", t.Line, t.Col)
		}
		// Blank nodes in patterns behave as non-projectable variables.
		return PatternTerm{Var: blankVarPrefix + t.Value}, nil
	case TokenString:
		if predicate {
			return PatternTerm{}, fmt.Errorf("literal in predicate position at %d:%d", t.Line, t.Col)
		}
		return p.parseLiteralTail(t.Value)
	case TokenNumber:
		if predicate {
			return PatternTerm{}, fmt.Errorf("literal in predicate position at %d:%d", t.Line, t.Col)
		}
		return PatternTerm{Term: numberLiteral(t.Value)}, nil
	case TokenAtom:
		switch {
		case t.Value == "a":
			// 'a' is a keyword only in predicate position.
			if !predicate {
				return PatternTerm{}, fmt.Errorf("unexpected 'a' at %d:%d", t.Line, t.Col)
			}
			return PatternTerm{Term: kg.IRI{Value: kg.RDFType}}, nil
		case t.Value == "true" || t.Value == "false":
			if predicate {
				return PatternTerm{}, fmt.Errorf("literal in predicate position at %d:%d", t.Line, t.Col)
			}
			return PatternTerm{Term: kg.Literal{Lexical: t.Value, Datatype: kg.XSDBoolean}}, nil
		case unsupportedKeywords[strings.ToUpper(t.Value)]:
			return PatternTerm{}, fmt.Errorf("unsupported feature: %s", strings.ToUpper(t.Value))
		default:
			return PatternTerm{}, fmt.Errorf("unexpected %s at %d:%d", t, t.Line, t.Col)
		}
	default:
		return PatternTerm{}, fmt.Errorf("unexpected %s at %d:%d", t, t.Line, t.Col)
	}
}

// parseLiteralTail consumes an optional language tag or datatype after
// a string token.
func (p *parser) parseLiteralTail(lexical string) (PatternTerm, error) {
	switch p.peek().Type {
	case TokenLangTag:
		tag := p.next()
		return PatternTerm{Term: kg.Literal{Lexical: lexical, Lang: tag.Value}}, nil
	case TokenDatatypeMarker:
		p.next()
		t := p.next()
		switch t.Type {
		case TokenIRIRef:
			return PatternTerm{Term: kg.Literal{Lexical: lexical, Datatype: t.Value}}, nil
		case TokenPName:
			iri, err := p.expandPName(t)
			if err != nil {
				return PatternTerm{}, err
			}
			return PatternTerm{Term: kg.Literal{Lexical: lexical, Datatype: iri}}, nil
		default:
			return PatternTerm{}, fmt.Errorf("expected datatype IRI at %d:%d, got %s", t.Line, t.Col, t)
		}
	default:
		return PatternTerm{Term: kg.Literal{Lexical: lexical}}, nil
	}
}

func (p *parser) expandPName(t Token) (string, error) {
	colon := strings.Index(t.Value, ":")
	if colon < 0 {
		return "", fmt.Errorf("malformed prefixed name %s at %d:%d", t, t.Line, t.Col)
	}
	prefix, local := t.Value[:colon], t.Value[colon+1:]
	for _, ns := range p.query.Prefixes {
		if ns.Prefix == prefix {
			return ns.IRI + local, nil
		}
	}
	return "", fmt.Errorf("unbound prefix %q at %d:%d", prefix, t.Line, t.Col)
}

func numberLiteral(lexical string) kg.Literal {
	if strings.ContainsAny(lexical, ".eE") {
		return kg.Literal{Lexical: lexical, Datatype: kg.XSDDecimal}
	}
	return kg.Literal{Lexical: lexical, Datatype: kg.XSDInteger}
}

func (p *parser) parseModifiers() error {
	for {
		switch {
		case p.atom("ORDER"):
			p.next()
			if !p.atom("BY") {
				return fmt.Errorf("expected BY after ORDER at %d:%d", p.peek().Line, p.peek().Col)
			}
			p.next()
			if err := p.parseOrderKeys(); err != nil {
				return err
			}
		case p.atom("LIMIT"):
			p.next()
			n, err := p.parseNonNegativeInt("LIMIT")
			if err != nil {
				return err
			}
			p.query.Limit = n
		case p.atom("OFFSET"):
			p.next()
			n, err := p.parseNonNegativeInt("OFFSET")
			if err != nil {
				return err
			}
			p.query.Offset = n
		case p.peek().Type == TokenAtom && unsupportedKeywords[strings.ToUpper(p.peek().Value)]:
			return fmt.Errorf("unsupported feature: %s", strings.ToUpper(p.peek().Value))
		default:
			return nil
		}
	}
}

func (p *parser) parseOrderKeys() error {
	seen := false
	for {
		switch {
		case p.peek().Type == TokenVar:
			p.query.OrderBy = append(p.query.OrderBy, OrderKey{Var: p.next().Value})
			seen = true
		case p.atom("ASC") || p.atom("DESC"):
			desc := strings.EqualFold(p.peek().Value, "DESC")
			p.next()
			if _, err := p.expect(TokenLeftParen, "'('"); err != nil {
				return err
			}
			v, err := p.expect(TokenVar, "variable")
			if err != nil {
				return err
			}
			if _, err := p.expect(TokenRightParen, "')'"); err != nil {
				return err
			}
			p.query.OrderBy = append(p.query.OrderBy, OrderKey{Var: v.Value, Desc: desc})
			seen = true
		default:
			if !seen {
				return fmt.Errorf("ORDER BY requires at least one sort key")
			}
			return nil
		}
	}
}

func (p *parser) parseNonNegativeInt(clause string) (int, error) {
	t, err := p.expect(TokenNumber, "integer")
	if err != nil {
		return 0, err
	}
	n := 0
	for _, ch := range t.Value {
		if ch < '0' || ch > '9' {
			return 0, fmt.Errorf("%s requires a non-negative integer, got %s", clause, t.Value)
		}
		n = n*10 + int(ch-'0')
	}
	return n, nil
}

// parseFilter parses FILTER ( expr ).
func (p *parser) parseFilter() (Expr, error) {
	if _, err := p.expect(TokenLeftParen, "'(' after FILTER"); err != nil {
		return nil, err
	}
	expr, err := p.parseOrExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenRightParen, "')'"); err != nil {
		return nil, err
	}
	return expr, nil
}

func (p *parser) parseOrExpr() (Expr, error) {
	left, err := p.parseAndExpr()
	if err != nil {
		return nil, err
	}
	for p.peek().Type == TokenOp && p.peek().Value == "||" {
		p.next()
		right, err := p.parseAndExpr()
		if err != nil {
			return nil, err
		}
		left = orExpr{left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseAndExpr() (Expr, error) {
	left, err := p.parseUnaryExpr()
	if err != nil {
		return nil, err
	}
	for p.peek().Type == TokenOp && p.peek().Value == "&&" {
		p.next()
		right, err := p.parseUnaryExpr()
		if err != nil {
			return nil, err
		}
		left = andExpr{left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseUnaryExpr() (Expr, error) {
	if p.peek().Type == TokenOp && p.peek().Value == "!" {
		p.next()
		inner, err := p.parseUnaryExpr()
		if err != nil {
			return nil, err
		}
		return notExpr{inner: inner}, nil
	}
	if p.peek().Type == TokenLeftParen {
		p.next()
		expr, err := p.parseOrExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRightParen, "')'"); err != nil {
			return nil, err
		}
		return expr, nil
	}
	return p.parseComparison()
}

func (p *parser) parseComparison() (Expr, error) {
	lhs, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	op := p.next()
	if op.Type != TokenOp {
		return nil, fmt.Errorf("expected comparison operator at %d:%d, got %s", op.Line, op.Col, op)
	}
	switch op.Value {
	case "=", "!=", "<", ">", "<=", ">=":
	default:
		return nil, fmt.Errorf("unsupported operator %q at %d:%d", op.Value, op.Line, op.Col)
	}
	rhs, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	return cmpExpr{op: op.Value, lhs: lhs, rhs: rhs}, nil
}

func (p *parser) parseOperand() (PatternTerm, error) {
	return p.parsePatternTerm(false)
}
