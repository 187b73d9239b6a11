package sparql

import "fmt"

// TokenType identifies a lexical token in a SPARQL query.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenAtom             // bare word: SELECT, WHERE, a, true, ...
	TokenVar              // ?name or $name (value without the sigil)
	TokenIRIRef           // <...> (value without the brackets)
	TokenPName            // prefixed name pfx:local (value as written)
	TokenBlank            // _:label (value without the _: sigil)
	TokenString           // quoted string (value unescaped)
	TokenNumber           // integer or decimal lexical form
	TokenLangTag          // @tag following a string
	TokenDatatypeMarker   // ^^
	TokenLeftBrace
	TokenRightBrace
	TokenLeftParen
	TokenRightParen
	TokenDot
	TokenSemicolon
	TokenComma
	TokenStar
	TokenOp // comparison or logical operator: = != < > <= >= && || !
)

// Token is a lexical token with its source position.
type Token struct {
	Type  TokenType
	Value string
	Line  int
	Col   int
}

// String returns a readable token description for error messages.
func (t Token) String() string {
	switch t.Type {
	case TokenEOF:
		return "end of query"
	case TokenVar:
		return "?" + t.Value
	case TokenIRIRef:
		return "<" + t.Value + ">"
	case TokenBlank:
		return "_:" + t.Value
	case TokenString:
		return fmt.Sprintf("%q", t.Value)
	case TokenLangTag:
		return "@" + t.Value
	case TokenDatatypeMarker:
		return "^^"
	default:
		return t.Value
	}
}
