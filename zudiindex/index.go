// Copyright 2026 The zudiindex Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package zudiindex implements the Index Creation and Index Writer
// halves of the zudiindex core: it establishes the on-disk family of
// append-only files and flushes one assembled zudiprops.Session at a
// time into them, interning strings and stamping cross-file offsets.
package zudiindex

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"

	"github.com/latentprion/zudiindex/zerr"
	"github.com/latentprion/zudiindex/zudiindex/zudifmt"
)

// Index names the on-disk directory and byte order an Add/Create
// operation targets. The byte order is fixed once, at Create, and every
// later Writer call against the same directory must reuse it.
type Index struct {
	Dir   string
	Order binary.ByteOrder
}

// Create establishes (or clears) every sibling index file in dir and
// writes the 16-byte-aligned IndexHeader to drivers.zudi-index. It is
// the only operation permitted to truncate an existing index.
func Create(dir string, order binary.ByteOrder) (*Index, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, zerr.New("zudiindex.Create", zerr.FileOpen, err)
	}
	for _, name := range zudifmt.AllFiles {
		if name == zudifmt.FileDrivers {
			continue
		}
		f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
		if err != nil {
			return nil, zerr.New("zudiindex.Create", zerr.FileOpen, err)
		}
		if err := f.Close(); err != nil {
			return nil, zerr.New("zudiindex.Create", zerr.FileIO, err)
		}
	}

	f, err := os.OpenFile(filepath.Join(dir, zudifmt.FileDrivers), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return nil, zerr.New("zudiindex.Create", zerr.FileOpen, err)
	}
	defer f.Close()

	hdr := zudifmt.IndexHeader{
		MajorVersion: zudifmt.FormatMajorVersion,
		MinorVersion: zudifmt.FormatMinorVersion,
		NRecords:     0,
		NextDriverID: 1,
	}
	copy(hdr.Endianness[:], endiannessTag(order))
	if err := binary.Write(f, order, &hdr); err != nil {
		return nil, zerr.New("zudiindex.Create", zerr.FileIO, err)
	}
	return &Index{Dir: dir, Order: order}, nil
}

// Open reads the IndexHeader already written by Create to recover the
// byte order an index was built with, so that Add operations never need
// their own endianness flag.
func Open(dir string) (*Index, error) {
	path := filepath.Join(dir, zudifmt.FileDrivers)
	f, err := os.Open(path)
	if err != nil {
		return nil, zerr.New("zudiindex.Open", zerr.FileOpen, err)
	}
	defer f.Close()

	var tag [4]byte
	if _, err := io.ReadFull(f, tag[:]); err != nil {
		return nil, zerr.New("zudiindex.Open", zerr.FileIO, err)
	}
	order := binary.ByteOrder(binary.LittleEndian)
	if bytes.Equal(bytes.TrimRight(tag[:], "\x00"), []byte("be")) {
		order = binary.BigEndian
	}
	return &Index{Dir: dir, Order: order}, nil
}

// Header reads the current IndexHeader.
func (idx *Index) Header() (zudifmt.IndexHeader, error) {
	f, err := os.Open(filepath.Join(idx.Dir, zudifmt.FileDrivers))
	if err != nil {
		return zudifmt.IndexHeader{}, zerr.New("zudiindex.Header", zerr.FileOpen, err)
	}
	defer f.Close()
	var hdr zudifmt.IndexHeader
	if err := binary.Read(f, idx.Order, &hdr); err != nil {
		return zudifmt.IndexHeader{}, zerr.New("zudiindex.Header", zerr.FileIO, err)
	}
	return hdr, nil
}

// Drivers reads every DriverHeader currently stored in drivers.zudi-index.
func (idx *Index) Drivers() ([]zudifmt.DriverHeader, error) {
	f, err := os.Open(filepath.Join(idx.Dir, zudifmt.FileDrivers))
	if err != nil {
		return nil, zerr.New("zudiindex.Drivers", zerr.FileOpen, err)
	}
	defer f.Close()

	var ihdr zudifmt.IndexHeader
	if err := binary.Read(f, idx.Order, &ihdr); err != nil {
		return nil, zerr.New("zudiindex.Drivers", zerr.FileIO, err)
	}
	out := make([]zudifmt.DriverHeader, 0, ihdr.NRecords)
	for {
		var dh zudifmt.DriverHeader
		if err := binary.Read(f, idx.Order, &dh); err != nil {
			if err == io.EOF {
				break
			}
			return nil, zerr.New("zudiindex.Drivers", zerr.FileIO, err)
		}
		out = append(out, dh)
	}
	return out, nil
}

// AllocateDriverID reserves the next driver ID and advances
// IndexHeader.NextDriverID, so successive CLI invocations against the same
// directory never reuse an ID. The header update takes no lock, so
// concurrent invocations can read the same NextDriverID.
func (idx *Index) AllocateDriverID() (uint32, error) {
	path := filepath.Join(idx.Dir, zudifmt.FileDrivers)
	f, err := os.OpenFile(path, os.O_RDWR, 0644)
	if err != nil {
		return 0, zerr.New("zudiindex.AllocateDriverID", zerr.FileOpen, err)
	}
	defer f.Close()

	var hdr zudifmt.IndexHeader
	if err := binary.Read(f, idx.Order, &hdr); err != nil {
		return 0, zerr.New("zudiindex.AllocateDriverID", zerr.FileIO, err)
	}
	id := hdr.NextDriverID
	hdr.NextDriverID++
	if _, err := f.Seek(0, 0); err != nil {
		return 0, zerr.New("zudiindex.AllocateDriverID", zerr.FileIO, err)
	}
	if err := binary.Write(f, idx.Order, &hdr); err != nil {
		return 0, zerr.New("zudiindex.AllocateDriverID", zerr.FileIO, err)
	}
	return id, nil
}

func endiannessTag(order binary.ByteOrder) []byte {
	if order == binary.BigEndian {
		return []byte("be")
	}
	return []byte("le")
}
