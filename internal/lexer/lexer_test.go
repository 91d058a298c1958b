package lexer

import (
	"reflect"
	"strings"
	"testing"

	"github.com/nilq/icecream/internal/compiler_errors"
)

func tokenize(t *testing.T, src string) []Token {
	t.Helper()
	tokens, err := NewLexer([]byte(src)).Tokenize()
	if err != nil {
		t.Fatalf("Tokenize(%q) error: %v", src, err)
	}
	return tokens
}

func kinds(tokens []Token) []TokenKind {
	out := make([]TokenKind, 0, len(tokens))
	for _, token := range tokens {
		out = append(out, token.Kind)
	}
	return out
}

func wantKinds(t *testing.T, src string, want ...TokenKind) []Token {
	t.Helper()
	tokens := tokenize(t, src)
	want = append(want, EOF)
	if got := kinds(tokens); !reflect.DeepEqual(got, want) {
		t.Fatalf("Tokenize(%q)\nwant: %v\ngot:  %v", src, want, got)
	}
	return tokens
}

func TestSingleLexemes(t *testing.T) {
	cases := map[string]TokenKind{
		"func":   FUNC,
		"lambda": LAMBDA,
		"if":     IF,
		"unless": UNLESS,
		"else":   ELSE,
		"return": RETURN,
		"end":    END,
		"true":   TRUE,
		"false":  FALSE,
		"var":    VAR,

		"=":  ASSIGN,
		"==": EQ,
		"~":  TILDE,
		"~=": NEQ,
		"&":  BAND,
		"&&": LAND,
		"+":  PLUS,
		"-":  MINUS,
		"->": ARROW,
		"*":  ASTERISK,
		"/":  SLASH,
		"<":  LT,
		">":  GT,
		",":  COMMA,
		".":  DOT,
		":":  COLON,
		"(":  LPAREN,
		")":  RPAREN,
		"{":  LBRACE,
		"}":  RBRACE,
		"[":  LBRACKET,
		"]":  RBRACKET,

		"foo": IDENT,
		"42":  INT,
		"4.2": FLOAT,
		`"x"`: TEXT,
	}

	for src, kind := range cases {
		t.Run(src, func(t *testing.T) {
			wantKinds(t, src, kind)
		})
	}
}

func TestKeywordsAreCaseSensitive(t *testing.T) {
	tokens := wantKinds(t, "Func END If", IDENT, IDENT, IDENT)
	if tokens[1].Value != "END" {
		t.Fatalf("Value = %q, want %q", tokens[1].Value, "END")
	}
}

func TestTwoCharacterOperatorsKeepLookahead(t *testing.T) {
	cases := []struct {
		src  string
		want []TokenKind
	}{
		{"==", []TokenKind{EQ}},
		{"=x", []TokenKind{ASSIGN, IDENT}},
		{"= =", []TokenKind{ASSIGN, ASSIGN}},
		{"===", []TokenKind{EQ, ASSIGN}},
		{"->", []TokenKind{ARROW}},
		{"-1", []TokenKind{MINUS, INT}},
		{"- >", []TokenKind{MINUS, GT}},
		{"~=", []TokenKind{NEQ}},
		{"~a", []TokenKind{TILDE, IDENT}},
		{"&&", []TokenKind{LAND}},
		{"&b", []TokenKind{BAND, IDENT}},
		{"&&&", []TokenKind{LAND, BAND}},
	}

	for _, tc := range cases {
		t.Run(tc.src, func(t *testing.T) {
			wantKinds(t, tc.src, tc.want...)
		})
	}
}

func TestNumbers(t *testing.T) {
	tokens := wantKinds(t, "133.7", FLOAT)
	if tokens[0].Float != 133.7 {
		t.Fatalf("Float = %v, want 133.7", tokens[0].Float)
	}

	tokens = wantKinds(t, "133", INT)
	if tokens[0].Int != 133 {
		t.Fatalf("Int = %v, want 133", tokens[0].Int)
	}

	tokens = wantKinds(t, "133.", INT, DOT)
	if tokens[0].Int != 133 {
		t.Fatalf("Int = %v, want 133", tokens[0].Int)
	}

	tokens = wantKinds(t, "7.foo", INT, DOT, IDENT)
	if tokens[2].Value != "foo" {
		t.Fatalf("Value = %q, want foo", tokens[2].Value)
	}

	tokens = wantKinds(t, "99999999999999999999", FLOAT)
	if tokens[0].Float != 1e20 {
		t.Fatalf("Float = %v, want 1e20", tokens[0].Float)
	}
}

func TestMalformedNumber(t *testing.T) {
	for _, src := range []string{"x = 1.2.3", "x = " + strings.Repeat("9", 400)} {
		_, err := NewLexer([]byte(src)).Tokenize()
		if !compiler_errors.IsKind(err, compiler_errors.MalformedNumber) {
			t.Fatalf("%.12s...: want MalformedNumber, got %v", src, err)
		}
	}
}

func TestIdentifiers(t *testing.T) {
	tokens := wantKinds(t, "empty? save! _tmp x1 größe", IDENT, IDENT, IDENT, IDENT, IDENT)
	want := []string{"empty?", "save!", "_tmp", "x1", "größe"}
	for i, value := range want {
		if tokens[i].Value != value {
			t.Errorf("token %d Value = %q, want %q", i, tokens[i].Value, value)
		}
	}

	wantKinds(t, "?x", ILLEGAL, IDENT)
}

func TestIllegalCharacterDoesNotStopScan(t *testing.T) {
	tokens := wantKinds(t, "a $ b @", IDENT, ILLEGAL, IDENT, ILLEGAL)
	if tokens[1].Value != "$" || tokens[3].Value != "@" {
		t.Fatalf("illegal values = %q, %q", tokens[1].Value, tokens[3].Value)
	}
}

func TestTextLiterals(t *testing.T) {
	tokens := wantKinds(t, `"hello, \"world\"\n" "a\\b"`, TEXT, TEXT)
	if tokens[0].Value != "hello, \"world\"\n" {
		t.Fatalf("Value = %q", tokens[0].Value)
	}
	if tokens[1].Value != `a\b` {
		t.Fatalf("Value = %q", tokens[1].Value)
	}

	for _, src := range []string{`"open`, "\"line\nbreak\"", `"trailing\`} {
		_, err := NewLexer([]byte(src)).Tokenize()
		if !compiler_errors.IsKind(err, compiler_errors.UnterminatedText) {
			t.Errorf("Tokenize(%q): want UnterminatedText, got %v", src, err)
		}
	}
}

func TestPositions(t *testing.T) {
	tokens := tokenize(t, "func foo\n  return x == 1\nend")

	want := []TokenMetadata{
		{Line: 1, Column: 1, Offset: 0, Length: 4},
		{Line: 1, Column: 6, Offset: 5, Length: 3},
		{Line: 2, Column: 3, Offset: 11, Length: 6},
		{Line: 2, Column: 10, Offset: 18, Length: 1},
		{Line: 2, Column: 12, Offset: 20, Length: 2},
		{Line: 2, Column: 15, Offset: 23, Length: 1},
		{Line: 3, Column: 1, Offset: 25, Length: 3},
		{Line: 3, Column: 4, Offset: 28, Length: 0},
	}

	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(want))
	}
	for i := range want {
		if tokens[i].Metadata != want[i] {
			t.Errorf("token %d (%s) metadata = %+v, want %+v", i, tokens[i].String(), tokens[i].Metadata, want[i])
		}
	}
}

func TestNextAfterEOFAndReset(t *testing.T) {
	l := NewLexer([]byte("a"))

	first, err := l.Next()
	if err != nil || first.Kind != IDENT {
		t.Fatalf("Next() = %v, %v", first.String(), err)
	}

	for i := 0; i < 3; i++ {
		token, err := l.Next()
		if err != nil || token.Kind != EOF {
			t.Fatalf("Next() after end = %v, %v", token.String(), err)
		}
	}

	l.Reset()
	again, err := l.Next()
	if err != nil || again != first {
		t.Fatalf("after Reset Next() = %v, %v, want %v", again.String(), err, first.String())
	}
}

func TestPrecedenceTable(t *testing.T) {
	cases := []struct {
		kind TokenKind
		want int
	}{
		{ASSIGN, 10},
		{LAND, 12},
		{LT, 15},
		{GT, 15},
		{EQ, 15},
		{NEQ, 15},
		{PLUS, 20},
		{MINUS, 20},
		{ASTERISK, 40},
		{SLASH, 40},
		{DOT, 100},
		{BAND, -1},
		{ARROW, -1},
		{IDENT, -1},
		{RPAREN, -1},
	}

	for _, tc := range cases {
		if got := tc.kind.Precedence(); got != tc.want {
			t.Errorf("%s.Precedence() = %d, want %d", tc.kind, got, tc.want)
		}
	}
}

func TestTokenString(t *testing.T) {
	tokens := tokenize(t, `foo 12 "hi" ( $`)
	want := []string{"IDENT(foo)", "INT(12)", `TEXT("hi")`, "LPAREN()", "ILLEGAL($)", "EOF()"}
	for i := range want {
		if got := tokens[i].String(); got != want[i] {
			t.Errorf("token %d String() = %q, want %q", i, got, want[i])
		}
	}
}

func TestSliceTokenScanner(t *testing.T) {
	tokens := tokenize(t, "a b")
	scanner := NewSliceTokenScanner(tokens[:2])

	for _, want := range []TokenKind{IDENT, IDENT, EOF, EOF} {
		token, err := scanner.Read()
		if err != nil {
			t.Fatalf("Read() error: %v", err)
		}
		if token.Kind != want {
			t.Fatalf("Read() = %s, want %s", token.Kind, want)
		}
	}
}
