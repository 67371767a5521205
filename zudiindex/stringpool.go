// Copyright 2026 The zudiindex Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package zudiindex

import (
	"io"
	"os"
	"path/filepath"

	"github.com/latentprion/zudiindex/zudiindex/zudifmt"
)

// StringPool is the shared append-only byte pool every variable-length
// string (and ARRAY8 attribute value) is interned into. Every other
// record references pool contents by the byte offset Intern/InternBytes
// returns.
type StringPool struct {
	f      *os.File
	offset uint32
}

func openStringPool(dir string) (*StringPool, error) {
	f, off, err := openForAppend(filepath.Join(dir, zudifmt.FileStrings))
	if err != nil {
		return nil, err
	}
	return &StringPool{f: f, offset: off}, nil
}

// Intern appends s plus a terminating NUL and returns the offset of its
// first byte.
func (p *StringPool) Intern(s string) (uint32, error) {
	off := p.offset
	n, err := p.f.Write(append([]byte(s), 0))
	if err != nil {
		return 0, err
	}
	p.offset += uint32(n)
	return off, nil
}

// InternBytes appends b verbatim, with no NUL terminator since the
// referencing record carries its length, and returns its offset.
func (p *StringPool) InternBytes(b []byte) (uint32, error) {
	off := p.offset
	n, err := p.f.Write(b)
	if err != nil {
		return 0, err
	}
	p.offset += uint32(n)
	return off, nil
}

func (p *StringPool) Close() error { return p.f.Close() }

func openForAppend(path string) (*os.File, uint32, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, 0, err
	}
	pos, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		f.Close()
		return nil, 0, err
	}
	return f, uint32(pos), nil
}

func tell(f *os.File) (uint32, error) {
	pos, err := f.Seek(0, io.SeekCurrent)
	return uint32(pos), err
}
