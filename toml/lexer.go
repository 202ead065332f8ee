package toml

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Lexer state machine
type Lexer struct {
	input []byte
	pos   int // current position in input (points to current char)
	start int // start position of this token
	line  int
	col   int
	width int // width of last rune read
}

func NewLexer(input []byte) *Lexer {
	return &Lexer{
		input: input,
		line:  1,
		col:   0,
	}
}

// NextToken returns the next token in the stream
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	if l.pos >= len(l.input) {
		return l.newToken(TokenEOF, "")
	}

	ch := l.peek()

	// Newlines are statement terminators in TOML
	if ch == '\n' {
		l.advance()
		return l.newToken(TokenNewline, "\n")
	}

	if ch == '#' {
		return l.readComment()
	}

	switch ch {
	case '=':
		l.advance()
		return l.newToken(TokenEqual, "=")
	case '.':
		l.advance()
		return l.newToken(TokenDot, ".")
	case ',':
		l.advance()
		return l.newToken(TokenComma, ",")
	case '[':
		l.advance()
		return l.newToken(TokenLBracket, "[")
	case ']':
		l.advance()
		return l.newToken(TokenRBracket, "]")
	case '{':
		l.advance()
		return l.newToken(TokenLBrace, "{")
	case '}':
		l.advance()
		return l.newToken(TokenRBrace, "}")
	case '"':
		return l.readString()
	}

	// Bare keys and numbers share an alphabet; readBareOrNumber
	// classifies after reading to the boundary
	if isDigit(ch) || ch == '+' || ch == '-' || isAlpha(ch) || ch == '_' {
		return l.readBareOrNumber()
	}

	l.advance()
	return l.newToken(TokenError, fmt.Sprintf("unexpected character: %c", ch))
}

func (l *Lexer) newToken(typ TokenType, literal string) Token {
	return Token{Type: typ, Literal: literal, Line: l.line, Col: l.col - len(literal)}
}

func (l *Lexer) advance() rune {
	if l.pos >= len(l.input) {
		l.width = 0
		return 0
	}
	r, w := utf8.DecodeRune(l.input[l.pos:])
	l.width = w
	l.pos += w
	if r == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	return r
}

func (l *Lexer) peek() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRune(l.input[l.pos:])
	return r
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		ch := l.peek()
		if ch == ' ' || ch == '\t' || ch == '\r' {
			l.advance()
		} else {
			break
		}
	}
}

func (l *Lexer) readComment() Token {
	l.advance() // consume '#'
	start := l.pos
	for l.pos < len(l.input) {
		if l.peek() == '\n' {
			break
		}
		l.advance()
	}
	// Emitted as a token; the parser is the one that skips them
	return l.newToken(TokenComment, string(l.input[start:l.pos]))
}

func (l *Lexer) readString() Token {
	l.advance() // consume opening quote
	start := l.pos
	escaped := false
	for l.pos < len(l.input) {
		ch := l.peek()
		if ch == '\n' {
			return l.newToken(TokenError, "unterminated string (newlines not allowed in basic strings)")
		}
		if ch == '"' && !escaped {
			lit := string(l.input[start:l.pos])
			l.advance() // consume closing quote
			return l.newToken(TokenString, l.unescape(lit))
		}
		if ch == '\\' && !escaped {
			escaped = true
		} else {
			escaped = false
		}
		l.advance()
	}
	return l.newToken(TokenError, "unterminated string")
}

// unescape reverses the basic escapes the encoder emits
func (l *Lexer) unescape(s string) string {
	if !strings.Contains(s, "\\") {
		return s
	}
	r := strings.NewReplacer(
		`\"`, `"`,
		`\\`, `\`,
		`\n`, "\n",
		`\t`, "\t",
		`\r`, "\r",
		`\b`, "\b",
		`\f`, "\f",
	)
	return r.Replace(s)
}

// readBareOrNumber reads to a token boundary and classifies: booleans,
// prefixed integers, plain numbers, bare keys
func (l *Lexer) readBareOrNumber() Token {
	start := l.pos
	firstCh := l.peek()
	isNumber := isDigit(firstCh) || firstCh == '+' || firstCh == '-'

	for l.pos < len(l.input) {
		ch := l.peek()
		// Bare keys: A-Za-z0-9_-
		if isAlpha(ch) || isDigit(ch) || ch == '_' || ch == '-' || ch == '+' {
			l.advance()
		} else if ch == '.' && isNumber {
			// '.' continues a token only in numeric context
			l.advance()
		} else {
			break
		}
	}
	lit := string(l.input[start:l.pos])

	if lit == "true" || lit == "false" {
		return l.newToken(TokenBool, lit)
	}

	// Prefixed integers: 0x, 0o, 0b with optional leading sign
	checkLit := lit
	if len(checkLit) > 0 && (checkLit[0] == '+' || checkLit[0] == '-') {
		checkLit = checkLit[1:]
	}
	if len(checkLit) > 2 && checkLit[0] == '0' {
		switch checkLit[1] {
		case 'x', 'X', 'o', 'O', 'b', 'B':
			return l.newToken(TokenInteger, lit)
		}
	}

	// Any letter outside scientific notation makes it a bare key; the
	// parser validates the numeric shape when it converts
	hasLetter := false
	for _, r := range lit {
		if isAlpha(r) && r != 'e' && r != 'E' {
			hasLetter = true
			break
		}
	}

	if !hasLetter {
		if strings.Contains(lit, ".") || strings.Contains(lit, "e") || strings.Contains(lit, "E") {
			return l.newToken(TokenFloat, lit)
		}
		return l.newToken(TokenInteger, lit)
	}

	return l.newToken(TokenIdent, lit)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
