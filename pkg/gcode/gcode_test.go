package gcode

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestDashes(t *testing.T) {
	tests := []struct {
		name    string
		line    [4]float64
		pattern []float64
		want    [][4]float64
	}{
		{
			name:    "even pattern",
			line:    [4]float64{0, 0, 10, 0},
			pattern: []float64{2, 2},
			want:    [][4]float64{{0, 0, 2, 0}, {4, 0, 6, 0}, {8, 0, 10, 0}},
		},
		{
			name:    "clipped last dash",
			line:    [4]float64{0, 0, 0, 5},
			pattern: []float64{3, 1},
			want:    [][4]float64{{0, 0, 0, 3}, {0, 4, 0, 5}},
		},
		{
			name:    "no pattern",
			line:    [4]float64{1, 1, 2, 2},
			pattern: nil,
			want:    [][4]float64{{1, 1, 2, 2}},
		},
	}
	for _, test := range tests {
		l := test.line
		got := Dashes(l[0], l[1], l[2], l[3], test.pattern)
		if diff := cmp.Diff(test.want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
			t.Errorf("%s: incorrect dashes: %s", test.name, diff)
		}
	}
}

func TestProgram(t *testing.T) {
	var buf bytes.Buffer
	s := New(&buf, DefaultOptions)
	s.BeginPage(210, 297)
	s.DrawLine(0, 0, 10, 0)
	s.DrawLine(10, 0, 10, 10)
	s.DrawText(5, 5, "Page (1)", 7, false)
	s.EndPage()
	s.BeginPage(210, 297)
	s.DrawLine(5, 5, 6, 6)
	s.EndPage()
	if err := s.Finish(); err != nil {
		t.Fatalf("Finish failed: %s", err)
	}
	out := buf.String()

	if got := strings.Count(out, "M0"); got != 1 {
		t.Errorf("expected one pause between pages, got %d", got)
	}
	// Connected lines share one travel move per page.
	if got := strings.Count(out, "G0 X"); got != 3 {
		t.Errorf("expected 3 travel moves including home, got %d\n%s", got, out)
	}
	if !strings.Contains(out, "(text at X5.00 Y5.00: Page [1])") {
		t.Errorf("missing text comment\n%s", out)
	}
	if !strings.HasPrefix(out, "G21") || !strings.Contains(out, "M5") {
		t.Errorf("missing header or footer\n%s", out)
	}
	if buf.Len() == 0 {
		t.Fatal("nothing written")
	}
}

func TestNothingWrittenBeforeFinish(t *testing.T) {
	var buf bytes.Buffer
	s := New(&buf, DefaultOptions)
	s.BeginPage(10, 10)
	s.DrawLine(0, 0, 1, 1)
	s.EndPage()
	if buf.Len() != 0 {
		t.Errorf("sink wrote %d bytes before Finish", buf.Len())
	}
}
