// Copyright 2026 The zudiindex Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package udibin extracts the udiprops byte stream embedded in a compiled
// UDI driver binary. It is a thin ELF section reader, not a core component:
// the bytes it returns are handed to zudiprops exactly as -txt mode's raw
// file bytes are.
package udibin

import (
	"debug/elf"
	"fmt"
	"io"

	"github.com/latentprion/zudiindex/zerr"
)

// SectionName is the ELF section a UDI driver binary carries its udiprops
// text in.
const SectionName = ".udiprops"

// ExtractUdiprops opens r as an ELF image and returns the raw contents of
// its .udiprops section.
func ExtractUdiprops(r io.ReaderAt) ([]byte, error) {
	const op = "udibin.ExtractUdiprops"
	f, err := elf.NewFile(r)
	if err != nil {
		return nil, zerr.New(op, zerr.InvalidInputFile, err)
	}
	defer f.Close()

	sec := f.Section(SectionName)
	if sec == nil {
		return nil, zerr.New(op, zerr.InvalidInputFile,
			fmt.Errorf("no %s section", SectionName))
	}
	data, err := sec.Data()
	if err != nil {
		return nil, zerr.New(op, zerr.InvalidInputFile, err)
	}
	return data, nil
}
