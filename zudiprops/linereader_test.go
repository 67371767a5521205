// Copyright 2026 The zudiindex Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package zudiprops

import (
	"io"
	"strings"
	"testing"
)

func readAllLines(t *testing.T, text string) []string {
	t.Helper()
	lr := NewLineReader(strings.NewReader(text), nil)
	var lines []string
	for {
		_, line, err := lr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		lines = append(lines, line)
	}
	return lines
}

func TestLineReaderFoldsContinuations(t *testing.T) {
	got := readAllLines(t, "module foo.so \\\n  bar.so\nrequires udi 0x0101\n")
	want := []string{"module foo.so   bar.so", "requires udi 0x0101"}
	if len(got) != len(want) {
		t.Fatalf("got %d lines, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLineReaderStripsComments(t *testing.T) {
	got := readAllLines(t, "requires udi 0x0101 # the minimum spec revision\n")
	want := "requires udi 0x0101 "
	if len(got) != 1 || got[0] != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestLineReaderSuppressesShortLines(t *testing.T) {
	got := readAllLines(t, "\n \nx\nrequires udi 0x0101\n")
	if len(got) != 1 {
		t.Fatalf("short lines not suppressed: %v", got)
	}
}

func TestLineReaderTruncatesOverlongLines(t *testing.T) {
	long := strings.Repeat("a", MaxLogicalLineLen+50)
	got := readAllLines(t, long+"\n")
	if len(got[0]) != MaxLogicalLineLen {
		t.Fatalf("got length %d, want %d", len(got[0]), MaxLogicalLineLen)
	}
}
