// Copyright 2026 The zudiindex Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package udibin

import (
	"bytes"
	debugelf "debug/elf"
	"encoding/binary"
	"testing"
)

// buildMinimalELF assembles a minimal little-endian ELF64 relocatable
// object carrying one PROGBITS section named sectionName with contents
// data, plus the .shstrtab section a valid section header table requires.
// It is built field-by-field with encoding/binary against the stdlib
// debug/elf wire structs, the same flat-struct-plus-explicit-byte-order
// style this module's own zudifmt package uses for its own records.
func buildMinimalELF(t *testing.T, sectionName string, data []byte) []byte {
	t.Helper()

	const ehsize = 64
	const shentsize = 64

	shstrtab := []byte{0x00}
	nameOff := uint32(len(shstrtab))
	shstrtab = append(shstrtab, append([]byte(sectionName), 0x00)...)
	shstrtabNameOff := uint32(len(shstrtab))
	shstrtab = append(shstrtab, append([]byte(".shstrtab"), 0x00)...)

	var buf bytes.Buffer

	dataOff := uint64(ehsize)
	shstrtabOff := dataOff + uint64(len(data))
	shoff := shstrtabOff + uint64(len(shstrtab))

	hdr := debugelf.Header64{
		Ident:     [16]byte{0x7f, 'E', 'L', 'F', 2 /* ELFCLASS64 */, 1 /* ELFDATA2LSB */, 1 /* EV_CURRENT */},
		Type:      uint16(debugelf.ET_REL),
		Machine:   uint16(debugelf.EM_X86_64),
		Version:   uint32(debugelf.EV_CURRENT),
		Shoff:     shoff,
		Ehsize:    ehsize,
		Shentsize: shentsize,
		Shnum:     3, // null, .udiprops, .shstrtab
		Shstrndx:  2,
	}
	if err := binary.Write(&buf, binary.LittleEndian, &hdr); err != nil {
		t.Fatalf("writing ELF header: %v", err)
	}
	buf.Write(data)
	buf.Write(shstrtab)

	sections := []debugelf.Section64{
		{}, // SHN_UNDEF
		{
			Name: nameOff, Type: uint32(debugelf.SHT_PROGBITS),
			Off: dataOff, Size: uint64(len(data)),
		},
		{
			Name: shstrtabNameOff, Type: uint32(debugelf.SHT_STRTAB),
			Off: shstrtabOff, Size: uint64(len(shstrtab)),
		},
	}
	for _, sh := range sections {
		if err := binary.Write(&buf, binary.LittleEndian, &sh); err != nil {
			t.Fatalf("writing section header: %v", err)
		}
	}
	return buf.Bytes()
}

func TestExtractUdipropsReadsSection(t *testing.T) {
	want := []byte("shortname mydrv\nrequires udi 0x0101\nmodule mydrv.so\n")
	img := buildMinimalELF(t, SectionName, want)

	got, err := ExtractUdiprops(bytes.NewReader(img))
	if err != nil {
		t.Fatalf("ExtractUdiprops: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestExtractUdipropsMissingSection(t *testing.T) {
	img := buildMinimalELF(t, ".text", []byte{0x90, 0x90})

	if _, err := ExtractUdiprops(bytes.NewReader(img)); err == nil {
		t.Fatal("expected an error for a binary with no .udiprops section")
	}
}

func TestExtractUdipropsRejectsNonELF(t *testing.T) {
	if _, err := ExtractUdiprops(bytes.NewReader([]byte("not an elf file"))); err == nil {
		t.Fatal("expected an error for non-ELF input")
	}
}
