package parser

import (
	"bytes"
	"fmt"
)

type TokenType int

func (t TokenType) String() string {
	return revertKeyWords[t]
}

const (
	WORD TokenType = iota
	IDENT
	INTVALUE
	FLOATVALUE
	STRINGVALUE
	TRUE
	FALSE
	PLUS
	MINUS
	MUL
	DIVIDE
	MOD
	EQUAL
	NOTEQUAL
	GREAT
	GREATEQUAL
	LESS
	LESSEQUAL
	AND
	OR
	LEFTBRACKET
	RIGHTBRACKET
	COMMA
	SEMICOLON
)

type LexicalError string

func (err LexicalError) Error() string {
	return string(err)
}

const (
	StringUnExpectedEndErr = LexicalError("unexpected string end")
	IdentFormatErr         = LexicalError("wrong ident")
	WordFormatErr          = LexicalError("wrong word format")
	UnknownTokenErr        = LexicalError("unknown token")
)

type Token struct {
	Tp       TokenType
	StartPos int
	EndPos   int
}

type Lexer struct {
	Tokens []Token
	Data   []byte
	pos    int
}

func NewLexer() *Lexer {
	return &Lexer{}
}

var keyWords = map[string]TokenType{}
var singleCharKeyWordMap = map[byte]TokenType{}
var revertKeyWords = map[TokenType]string{}

func init() {
	keyWords["AND"] = AND
	keyWords["OR"] = OR
	keyWords["TRUE"] = TRUE
	keyWords["FALSE"] = FALSE

	singleCharKeyWordMap['+'] = PLUS
	singleCharKeyWordMap['-'] = MINUS
	singleCharKeyWordMap['*'] = MUL
	singleCharKeyWordMap['/'] = DIVIDE
	singleCharKeyWordMap['%'] = MOD
	singleCharKeyWordMap['('] = LEFTBRACKET
	singleCharKeyWordMap[')'] = RIGHTBRACKET
	singleCharKeyWordMap[','] = COMMA
	singleCharKeyWordMap[';'] = SEMICOLON

	for k, v := range keyWords {
		revertKeyWords[v] = k
	}
	revertKeyWords[WORD] = "WORD"
	revertKeyWords[IDENT] = "IDENT"
	revertKeyWords[INTVALUE] = "INTVALUE"
	revertKeyWords[FLOATVALUE] = "FLOATVALUE"
	revertKeyWords[STRINGVALUE] = "STRINGVALUE"
	revertKeyWords[PLUS] = "PLUS"
	revertKeyWords[MINUS] = "MINUS"
	revertKeyWords[MUL] = "MUL"
	revertKeyWords[DIVIDE] = "DIVIDE"
	revertKeyWords[MOD] = "MOD"
	revertKeyWords[EQUAL] = "EQUAL"
	revertKeyWords[NOTEQUAL] = "NOTEQUAL"
	revertKeyWords[GREAT] = "GREAT"
	revertKeyWords[GREATEQUAL] = "GREATEQUAL"
	revertKeyWords[LESS] = "LESS"
	revertKeyWords[LESSEQUAL] = "LESSEQUAL"
	revertKeyWords[LEFTBRACKET] = "LEFTBRACKET"
	revertKeyWords[RIGHTBRACKET] = "RIGHTBRACKET"
	revertKeyWords[COMMA] = "COMMA"
	revertKeyWords[SEMICOLON] = "SEMICOLON"
}

func (l *Lexer) Reset() {
	l.Data = nil
	l.Tokens = l.Tokens[:0]
	l.pos = 0
}

func (l *Lexer) Lex(data []byte) error {
	l.Reset()
	l.Data = bytes.TrimSpace(data)
	return l.read()
}

func (l *Lexer) read() (err error) {
	for l.pos < len(l.Data) {
		switch l.Data[l.pos] {
		case '=', '!', '>', '<', '+', '-', '*', '/', '%', '(', ')', ',', ';':
			err = l.readChars()
		case '`':
			err = l.readIdent()
		case '\t', ' ', '\n':
			l.readContinuousSpace()
		case '"', '\'':
			err = l.readString()
		case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9', '.':
			err = l.readNumberValue()
		default:
			err = l.readWord()
		}
		if err != nil {
			return
		}
	}
	return err
}

func (l *Lexer) readChars() error {
	b := l.Data[l.pos]
	switch b {
	case '!':
		// Next should be =
		l.pos++
		if l.pos >= len(l.Data) || l.Data[l.pos] != '=' {
			return UnknownTokenErr
		}
		l.pos++
		l.Tokens = append(l.Tokens, Token{Tp: NOTEQUAL, StartPos: l.pos - 2, EndPos: l.pos})
	case '>':
		l.pos++
		if l.pos < len(l.Data) && l.Data[l.pos] == '=' {
			l.pos++
			l.Tokens = append(l.Tokens, Token{Tp: GREATEQUAL, StartPos: l.pos - 2, EndPos: l.pos})
		} else {
			l.Tokens = append(l.Tokens, Token{Tp: GREAT, StartPos: l.pos - 1, EndPos: l.pos})
		}
	case '<':
		l.pos++
		if l.pos < len(l.Data) && l.Data[l.pos] == '=' {
			l.pos++
			l.Tokens = append(l.Tokens, Token{Tp: LESSEQUAL, StartPos: l.pos - 2, EndPos: l.pos})
		} else {
			l.Tokens = append(l.Tokens, Token{Tp: LESS, StartPos: l.pos - 1, EndPos: l.pos})
		}
	case '=':
		l.pos++
		// Both = and == check equality.
		if l.pos < len(l.Data) && l.Data[l.pos] == '=' {
			l.pos++
			l.Tokens = append(l.Tokens, Token{Tp: EQUAL, StartPos: l.pos - 2, EndPos: l.pos})
		} else {
			l.Tokens = append(l.Tokens, Token{Tp: EQUAL, StartPos: l.pos - 1, EndPos: l.pos})
		}
	default:
		l.pos++
		tp, ok := singleCharKeyWordMap[b]
		if !ok {
			return UnknownTokenErr
		}
		l.Tokens = append(l.Tokens, Token{Tp: tp, StartPos: l.pos - 1, EndPos: l.pos})
	}
	return nil
}

func (l *Lexer) readContinuousSpace() {
	for ; l.pos < len(l.Data); l.pos++ {
		c := l.Data[l.pos]
		if c != ' ' && c != '\t' && c != '\n' {
			break
		}
	}
}

func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func (l *Lexer) readWord() error {
	// A word starts with a letter and then can contain 0-9, a-z, A-Z, _
	startPos := l.pos
	for ; l.pos < len(l.Data); l.pos++ {
		c := l.Data[l.pos]
		if l.pos == startPos {
			if !isLetter(c) {
				return WordFormatErr
			}
			continue
		}
		if c == '_' || isDigit(c) || isLetter(c) {
			continue
		}
		break
	}
	keyWord, ok := keyWords[string(bytes.ToUpper(l.Data[startPos:l.pos]))]
	if !ok {
		// A column or function name.
		l.Tokens = append(l.Tokens, Token{Tp: WORD, StartPos: startPos, EndPos: l.pos})
	} else {
		l.Tokens = append(l.Tokens, Token{Tp: keyWord, StartPos: startPos, EndPos: l.pos})
	}
	return nil
}

func (l *Lexer) readString() error {
	// Read until the matching quote.
	quote := l.Data[l.pos]
	l.pos++
	startPos := l.pos
	for ; l.pos < len(l.Data); l.pos++ {
		if l.Data[l.pos] == quote {
			l.Tokens = append(l.Tokens, Token{Tp: STRINGVALUE, StartPos: startPos, EndPos: l.pos})
			l.pos++
			return nil
		}
	}
	return StringUnExpectedEndErr
}

func (l *Lexer) readNumberValue() error {
	isFloat := false
	startPos := l.pos
	for ; l.pos < len(l.Data); l.pos++ {
		c := l.Data[l.pos]
		if c == '.' {
			isFloat = true
			continue
		}
		if !isDigit(c) {
			break
		}
	}
	if isFloat {
		l.Tokens = append(l.Tokens, Token{Tp: FLOATVALUE, StartPos: startPos, EndPos: l.pos})
	} else {
		l.Tokens = append(l.Tokens, Token{Tp: INTVALUE, StartPos: startPos, EndPos: l.pos})
	}
	return nil
}

// Read until we find the closing backquote of an ident.
func (l *Lexer) readIdent() error {
	l.pos++
	startPos := l.pos
	for ; l.pos < len(l.Data); l.pos++ {
		c := l.Data[l.pos]
		if c == '`' {
			break
		}
		if l.pos == startPos && !isLetter(c) {
			return IdentFormatErr
		}
		if c != '_' && !isDigit(c) && !isLetter(c) {
			return IdentFormatErr
		}
	}
	if l.pos >= len(l.Data) {
		return IdentFormatErr
	}
	l.Tokens = append(l.Tokens, Token{Tp: IDENT, StartPos: startPos, EndPos: l.pos})
	l.pos++
	return nil
}

func (l *Lexer) Value(t Token) []byte {
	return l.Data[t.StartPos:t.EndPos]
}

func (l *Lexer) String() string {
	var buf bytes.Buffer
	for i, token := range l.Tokens {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(fmt.Sprintf("{%s, StartPos: %d, EndPos: %d}", revertKeyWords[token.Tp], token.StartPos, token.EndPos))
	}
	return buf.String()
}
