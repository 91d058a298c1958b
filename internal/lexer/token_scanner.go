package lexer

// TokenScanner hands tokens to the parser one at a time.
type TokenScanner interface {
	Read() (Token, error)
}

// LexerTokenScanner pulls tokens lazily from a Lexer; nothing is
// tokenized ahead of the reader.
type LexerTokenScanner struct {
	lexer *Lexer
}

func NewLexerTokenScanner(lexer *Lexer) TokenScanner {
	return &LexerTokenScanner{
		lexer: lexer,
	}
}

func (s *LexerTokenScanner) Read() (Token, error) {
	return s.lexer.Next()
}

// SliceTokenScanner replays an already tokenized stream. Reading past the
// end yields EOF.
type SliceTokenScanner struct {
	tokens []Token

	pos int
}

func NewSliceTokenScanner(tokens []Token) TokenScanner {
	return &SliceTokenScanner{
		tokens: tokens,
	}
}

func (s *SliceTokenScanner) Read() (Token, error) {
	if s.pos >= len(s.tokens) {
		return Token{Kind: EOF}, nil
	}

	token := s.tokens[s.pos]
	s.pos++

	return token, nil
}
