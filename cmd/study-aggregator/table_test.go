package main

import (
	"strings"
	"testing"
)

func TestRenderTableWrapsWideColumns(t *testing.T) {
	long := strings.TrimSpace(strings.Repeat("06-15-2023 CT CHEST (3 series) ", 4))
	out := renderTable([]tableColumn{
		{header: "Name"},
		{header: "Studies", maxWidth: 40},
	}, [][]string{{"DOE JOHN", long}})

	if strings.Contains(out, long) {
		t.Fatalf("capped column rendered on one line:\n%s", out)
	}
	for _, line := range strings.Split(out, "\n") {
		if n := len([]rune(line)); n > 60 {
			t.Fatalf("line wider than the capped layout (%d): %q", n, line)
		}
	}
}

func TestRenderTableUnboundedColumnsStayOnOneLine(t *testing.T) {
	out := renderTable([]tableColumn{
		{header: "Run"},
		{header: "Records", align: alignRight},
	}, [][]string{{"0198c2f4-27a1-7c3e-9f60-5d1b2a8e4c11", "42"}})

	if !strings.Contains(out, "0198c2f4-27a1-7c3e-9f60-5d1b2a8e4c11") {
		t.Fatalf("unbounded column wrapped:\n%s", out)
	}
}
