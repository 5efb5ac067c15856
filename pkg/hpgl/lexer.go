package hpgl

import (
	"io"
	"strings"
	"unicode"

	"github.com/alecthomas/participle/v2/lexer"
	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Opcode identifies one of the supported plotter instructions.
type Opcode int

const (
	Unknown Opcode = iota
	PenUp
	PenDown
	PlotAbsolute
	PlotRelative
	Initialize
)

var mnemonics = map[string]Opcode{
	"PU": PenUp,
	"PD": PenDown,
	"PA": PlotAbsolute,
	"PR": PlotRelative,
	"IN": Initialize,
}

func (op Opcode) String() string {
	for m, o := range mnemonics {
		if o == op {
			return m
		}
	}
	return "??"
}

// Token is one instruction: a two letter mnemonic and its raw parameters.
// Unrecognized mnemonics are kept with Op set to Unknown.
type Token struct {
	Op       Opcode
	Mnemonic string
	Params   string
}

// Lexer splits a whitespace-free command stream. An isolated capital letter
// is a Stray and orphans every parameter run up to the next opcode.
var Lexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Opcode", Pattern: `[A-Z]{2}`},
	{Name: "Stray", Pattern: `[A-Z]`},
	{Name: "Params", Pattern: `[^A-Z]+`},
})

var (
	opcodeToken = Lexer.Symbols()["Opcode"]
	paramsToken = Lexer.Symbols()["Params"]
)

// Decode reads the whole stream as UTF-8, replacing invalid bytes with
// U+FFFD instead of failing.
func Decode(r io.Reader) (string, error) {
	data, err := io.ReadAll(transform.NewReader(r, xunicode.UTF8.NewDecoder()))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// stripWhitespace removes every space and line ending character.
func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// Tokenize turns raw command text into tokens. It never fails: text without
// any opcode yields no tokens.
func Tokenize(src string) []Token {
	lex, err := Lexer.LexString("", stripWhitespace(src))
	if err != nil {
		return nil
	}

	var tokens []Token
	// open is true while the last token is an opcode still accepting parameters.
	open := false
	for {
		tok, err := lex.Next()
		if err != nil || tok.EOF() {
			return tokens
		}
		switch tok.Type {
		case opcodeToken:
			tokens = append(tokens, Token{Op: mnemonics[tok.Value], Mnemonic: tok.Value})
			open = true
		case paramsToken:
			if open {
				tokens[len(tokens)-1].Params = strings.ReplaceAll(tok.Value, ";", "")
			}
			open = false
		default:
			open = false
		}
	}
}
