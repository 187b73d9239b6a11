package sparql

import (
	"fmt"
	"strings"
	"unicode"
)

// Lexer tokenizes SPARQL input.
type Lexer struct {
	input  string
	pos    int
	line   int
	col    int
	tokens []Token
}

// NewLexer creates a lexer for the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input, line: 1, col: 1}
}

// Lex tokenizes the entire input.
func (l *Lexer) Lex() ([]Token, error) {
	for l.pos < len(l.input) {
		l.skipWhitespaceAndComments()
		if l.pos >= len(l.input) {
			break
		}

		startLine := l.line
		startCol := l.col
		ch := l.peek()

		switch {
		case ch == '"' || ch == '\'':
			str, err := l.readString(ch)
			if err != nil {
				return nil, err
			}
			l.emit(TokenString, str, startLine, startCol)
		case ch == '?' || ch == '$':
			l.advance()
			name := l.readName()
			if name == "" {
				return nil, fmt.Errorf("empty variable name at %d:%d", startLine, startCol)
			}
			l.emit(TokenVar, name, startLine, startCol)
		case ch == '<' && l.looksLikeIRIRef():
			iri, err := l.readIRIRef()
			if err != nil {
				return nil, err
			}
			l.emit(TokenIRIRef, iri, startLine, startCol)
		case ch == '{':
			l.advance()
			l.emit(TokenLeftBrace, "{", startLine, startCol)
		case ch == '}':
			l.advance()
			l.emit(TokenRightBrace, "}", startLine, startCol)
		case ch == '(':
			l.advance()
			l.emit(TokenLeftParen, "(", startLine, startCol)
		case ch == ')':
			l.advance()
			l.emit(TokenRightParen, ")", startLine, startCol)
		case ch == ';':
			l.advance()
			l.emit(TokenSemicolon, ";", startLine, startCol)
		case ch == ',':
			l.advance()
			l.emit(TokenComma, ",", startLine, startCol)
		case ch == '*':
			l.advance()
			l.emit(TokenStar, "*", startLine, startCol)
		case ch == '@':
			l.advance()
			tag := l.readName()
			if tag == "" {
				return nil, fmt.Errorf("empty language tag at %d:%d", startLine, startCol)
			}
			l.emit(TokenLangTag, tag, startLine, startCol)
		case ch == '^':
			if l.peekAt(1) != '^' {
				return nil, fmt.Errorf("unexpected '^' at %d:%d", startLine, startCol)
			}
			l.advance()
			l.advance()
			l.emit(TokenDatatypeMarker, "^^", startLine, startCol)
		case ch == '_' && l.peekAt(1) == ':':
			l.advance()
			l.advance()
			label := l.readName()
			if label == "" {
				return nil, fmt.Errorf("empty blank node label at %d:%d", startLine, startCol)
			}
			l.emit(TokenBlank, label, startLine, startCol)
		case isOpStart(ch):
			op := l.readOperator()
			l.emit(TokenOp, op, startLine, startCol)
		case ch == '.' && !isDigit(l.peekAt(1)):
			l.advance()
			l.emit(TokenDot, ".", startLine, startCol)
		case isDigit(ch) || (ch == '-' && isDigit(l.peekAt(1))) || (ch == '+' && isDigit(l.peekAt(1))) || (ch == '.' && isDigit(l.peekAt(1))):
			l.emit(TokenNumber, l.readNumber(), startLine, startCol)
		default:
			atom := l.readAtom()
			if atom == "" {
				return nil, fmt.Errorf("unexpected character %q at %d:%d", ch, startLine, startCol)
			}
			// PNames carry a colon; plain atoms do not.
			if strings.Contains(atom, ":") {
				l.emit(TokenPName, atom, startLine, startCol)
			} else {
				l.emit(TokenAtom, atom, startLine, startCol)
			}
		}
	}

	l.emit(TokenEOF, "", l.line, l.col)
	return l.tokens, nil
}

func (l *Lexer) emit(tt TokenType, value string, line, col int) {
	l.tokens = append(l.tokens, Token{Type: tt, Value: value, Line: line, Col: col})
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekAt(offset int) byte {
	if l.pos+offset >= len(l.input) {
		return 0
	}
	return l.input[l.pos+offset]
}

func (l *Lexer) advance() {
	if l.pos < len(l.input) {
		if l.input[l.pos] == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}
		l.pos++
	}
}

func (l *Lexer) skipWhitespaceAndComments() {
	for l.pos < len(l.input) {
		ch := l.peek()
		if unicode.IsSpace(rune(ch)) {
			l.advance()
			continue
		}
		if ch == '#' {
			for l.pos < len(l.input) && l.peek() != '\n' {
				l.advance()
			}
			continue
		}
		break
	}
}

// looksLikeIRIRef disambiguates an IRIREF from the less-than operator:
// a '<' starts an IRI when a '>' follows before any whitespace.
func (l *Lexer) looksLikeIRIRef() bool {
	for i := l.pos + 1; i < len(l.input); i++ {
		ch := l.input[i]
		if ch == '>' {
			return true
		}
		if unicode.IsSpace(rune(ch)) {
			return false
		}
	}
	return false
}

func (l *Lexer) readIRIRef() (string, error) {
	start := l.line
	l.advance() // consume '<'
	var sb strings.Builder
	for {
		if l.pos >= len(l.input) {
			return "", fmt.Errorf("unterminated IRI starting at line %d", start)
		}
		ch := l.peek()
		if ch == '>' {
			l.advance()
			return sb.String(), nil
		}
		sb.WriteByte(ch)
		l.advance()
	}
}

func (l *Lexer) readString(quote byte) (string, error) {
	start := l.line
	l.advance() // consume opening quote
	var sb strings.Builder
	for {
		if l.pos >= len(l.input) {
			return "", fmt.Errorf("unterminated string starting at line %d", start)
		}
		ch := l.peek()
		switch ch {
		case quote:
			l.advance()
			return sb.String(), nil
		case '\\':
			l.advance()
			if l.pos >= len(l.input) {
				return "", fmt.Errorf("unterminated escape at line %d", l.line)
			}
			esc := l.peek()
			l.advance()
			switch esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '\\', '"', '\'':
				sb.WriteByte(esc)
			default:
				return "", fmt.Errorf("unknown escape '\\%c' at line %d", esc, l.line)
			}
		default:
			sb.WriteByte(ch)
			l.advance()
		}
	}
}

func (l *Lexer) readName() string {
	start := l.pos
	for l.pos < len(l.input) {
		ch := l.peek()
		if isNameChar(ch) {
			l.advance()
		} else {
			break
		}
	}
	return l.input[start:l.pos]
}

func (l *Lexer) readNumber() string {
	start := l.pos
	if l.peek() == '-' || l.peek() == '+' {
		l.advance()
	}
	seenDot := false
	for l.pos < len(l.input) {
		ch := l.peek()
		if isDigit(ch) {
			l.advance()
		} else if ch == '.' && !seenDot && isDigit(l.peekAt(1)) {
			seenDot = true
			l.advance()
		} else {
			break
		}
	}
	return l.input[start:l.pos]
}

func (l *Lexer) readOperator() string {
	ch := l.peek()
	next := l.peekAt(1)
	switch {
	case ch == '!' && next == '=':
		l.advance()
		l.advance()
		return "!="
	case ch == '<' && next == '=':
		l.advance()
		l.advance()
		return "<="
	case ch == '>' && next == '=':
		l.advance()
		l.advance()
		return ">="
	case ch == '&' && next == '&':
		l.advance()
		l.advance()
		return "&&"
	case ch == '|' && next == '|':
		l.advance()
		l.advance()
		return "||"
	default:
		l.advance()
		return string(ch)
	}
}

// readAtom reads a bare word or prefixed name.
func (l *Lexer) readAtom() string {
	start := l.pos
	for l.pos < len(l.input) {
		ch := l.peek()
		if isNameChar(ch) || ch == ':' {
			l.advance()
		} else {
			break
		}
	}
	return l.input[start:l.pos]
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

func isNameChar(ch byte) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || isDigit(ch) || ch == '_' || ch == '-'
}

func isOpStart(ch byte) bool {
	switch ch {
	case '=', '!', '<', '>', '&', '|':
		return true
	default:
		return false
	}
}
