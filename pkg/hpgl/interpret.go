package hpgl

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"pltpages/pkg/geometry"
)

var (
	// ErrNoCommands means the source held no opcode at all.
	ErrNoCommands = errors.New("no drawable commands")
	// ErrEmptyDrawing means the commands produced no line segment.
	ErrEmptyDrawing = errors.New("no drawing data")
)

// ParseParams splits a parameter string on commas and parses each non-empty
// piece as a float.
//
// Pieces that fail to parse are dropped without error, and so are NaN and
// infinities. Callers rely on this: a bad number never rejects a file.
func ParseParams(params string) []float64 {
	var values []float64
	for _, part := range strings.Split(params, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		values = append(values, v)
	}
	return values
}

// state is the interpreter accumulator threaded through the token fold.
type state struct {
	pos      geometry.Point
	penDown  bool
	segments []geometry.LineSegment
}

func (s state) lineTo(p geometry.Point) state {
	s.segments = append(s.segments, geometry.LineSegment{A: s.pos, B: p})
	s.pos = p
	return s
}

func (s state) step(tok Token) state {
	switch tok.Op {
	case Initialize:
		s.pos = geometry.Point{}
		s.penDown = false

	case PenUp:
		s.penDown = false
		if params := ParseParams(tok.Params); len(params) >= 2 {
			s.pos = geometry.Point{X: params[0], Y: params[1]}
		}

	case PenDown:
		s.penDown = true
		params := ParseParams(tok.Params)
		for i := 0; i+1 < len(params); i += 2 {
			s = s.lineTo(geometry.Point{X: params[i], Y: params[i+1]})
		}

	case PlotAbsolute, PlotRelative:
		params := ParseParams(tok.Params)
		for i := 0; i+1 < len(params); i += 2 {
			p := geometry.Point{X: params[i], Y: params[i+1]}
			if tok.Op == PlotRelative {
				p = s.pos.Add(p)
			}
			if s.penDown {
				s = s.lineTo(p)
			} else {
				s.pos = p
			}
		}
	}
	return s
}

// Interpret runs the tokens from a fresh state (origin, pen up) and returns
// the drawn segments in device units, in draw order.
func Interpret(tokens []Token) ([]geometry.LineSegment, error) {
	s := state{}
	for _, tok := range tokens {
		s = s.step(tok)
	}
	if len(s.segments) == 0 {
		return nil, ErrEmptyDrawing
	}
	return s.segments, nil
}

// Parse tokenizes and interprets src.
func Parse(src string) ([]geometry.LineSegment, error) {
	tokens := Tokenize(src)
	if len(tokens) == 0 {
		return nil, ErrNoCommands
	}
	return Interpret(tokens)
}
