// Copyright 2026 The zudiindex Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package zudiprops

import (
	"bufio"
	"io"
	"strings"

	"github.com/latentprion/zudiindex/zlog"
)

// MaxLogicalLineLen is the hard cap on a folded logical line, after
// comment and continuation processing.
const MaxLogicalLineLen = 512

// LineReader folds backslash line continuations, strips `#` comments and
// CR/LF terminators, and emits one logical line at a time.
type LineReader struct {
	r      *bufio.Reader
	lineNo int
	logger zlog.Logger
}

// NewLineReader wraps r. A nil logger uses zlog.DefaultLogger.
func NewLineReader(r io.Reader, logger zlog.Logger) *LineReader {
	if logger == nil {
		logger = zlog.DefaultLogger
	}
	return &LineReader{r: bufio.NewReader(r), logger: logger}
}

// Next returns the next logical line and its 1-based logical line number.
// It returns io.EOF, as reported by bufio, once the stream is exhausted. Lines
// with fewer than two non-whitespace bytes are silently suppressed and do
// not consume a line number.
func (lr *LineReader) Next() (lineNo int, text string, err error) {
	for {
		var buf strings.Builder
		sawAny := false
		for {
			segment, rerr := lr.r.ReadString('\n')
			if segment == "" && rerr != nil {
				if !sawAny {
					return 0, "", rerr
				}
				break
			}
			sawAny = true
			segment = strings.TrimSuffix(segment, "\n")
			segment = strings.TrimSuffix(segment, "\r")
			if i := strings.IndexByte(segment, '#'); i >= 0 {
				segment = segment[:i]
			}
			continued := strings.HasSuffix(segment, "\\")
			if continued {
				segment = segment[:len(segment)-1]
			}
			buf.WriteString(segment)
			if !continued || rerr != nil {
				break
			}
		}

		raw := buf.String()
		text = strings.TrimLeft(raw, " \t")
		if len(strings.TrimSpace(text)) < 2 {
			continue
		}
		if len(text) > MaxLogicalLineLen {
			lr.logger.Warnf("logical line %d exceeds %d bytes, truncating", lr.lineNo+1, MaxLogicalLineLen)
			text = text[:MaxLogicalLineLen]
		}
		lr.lineNo++
		return lr.lineNo, text, nil
	}
}
