// Copyright 2026 The zudiindex Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package zudiindex

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/latentprion/zudiindex/zudiindex/zudifmt"
	"github.com/latentprion/zudiindex/zudiprops"
)

func addDriver(t *testing.T, idx *Index, id uint32, text string) {
	t.Helper()
	s, err := zudiprops.NewSession(id, "/opt/drivers/x")
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if err := zudiprops.Ingest(s, strings.NewReader(text), nil); err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	w := NewWriter(idx)
	if err := w.WriteDriver(s); err != nil {
		t.Fatalf("WriteDriver: %v", err)
	}
	if !s.Sealed() {
		t.Fatal("session not sealed after WriteDriver")
	}
}

const minimalDriver = `shortname mydriver
requires udi 0x0101
module mydriver.so
message 1 hello world
`

// TestAddTwoDriversBumpsNRecords covers the two-sequential-ADD scenario:
// IndexHeader.NRecords must read back as 2, not 1, after two independent
// WriteDriver calls against the same index directory.
func TestAddTwoDriversBumpsNRecords(t *testing.T) {
	dir := t.TempDir()
	idx, err := Create(dir, binary.LittleEndian)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	addDriver(t, idx, 1, minimalDriver)
	addDriver(t, idx, 2, minimalDriver)

	hdr, err := idx.Header()
	if err != nil {
		t.Fatalf("Header: %v", err)
	}
	if hdr.NRecords != 2 {
		t.Fatalf("NRecords = %d, want 2", hdr.NRecords)
	}

	drivers, err := idx.Drivers()
	if err != nil {
		t.Fatalf("Drivers: %v", err)
	}
	if len(drivers) != 2 {
		t.Fatalf("got %d driver headers, want 2", len(drivers))
	}
	if drivers[0].ID != 1 || drivers[1].ID != 2 {
		t.Fatalf("unexpected driver IDs: %d, %d", drivers[0].ID, drivers[1].ID)
	}
	if drivers[1].DataFileOffset <= drivers[0].DataFileOffset {
		t.Errorf("second driver's data offset %d does not follow the first's %d",
			drivers[1].DataFileOffset, drivers[0].DataFileOffset)
	}
}

func TestWriteDriverInternsStrings(t *testing.T) {
	dir := t.TempDir()
	idx, err := Create(dir, binary.LittleEndian)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	addDriver(t, idx, 1, minimalDriver)

	data, err := os.ReadFile(filepath.Join(dir, zudifmt.FileStrings))
	if err != nil {
		t.Fatalf("reading string pool: %v", err)
	}
	if !strings.Contains(string(data), "mydriver.so\x00") {
		t.Errorf("string pool missing interned module name: %q", data)
	}
	if !strings.Contains(string(data), "hello world\x00") {
		t.Errorf("string pool missing interned message text: %q", data)
	}
}

func TestCreateOpenRecoversByteOrder(t *testing.T) {
	dir := t.TempDir()
	if _, err := Create(dir, binary.BigEndian); err != nil {
		t.Fatalf("Create: %v", err)
	}
	idx, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if idx.Order != binary.BigEndian {
		t.Fatalf("Open recovered %v, want BigEndian", idx.Order)
	}
}

func TestWriteDriverDeviceAttrOffsetPointsIntoDevicesFile(t *testing.T) {
	dir := t.TempDir()
	idx, err := Create(dir, binary.LittleEndian)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	const withDevice = minimalDriver + "device 1 1 busType string pci\n"
	addDriver(t, idx, 1, withDevice)

	f, err := os.Open(filepath.Join(dir, zudifmt.FileDevices))
	if err != nil {
		t.Fatalf("opening devices file: %v", err)
	}
	defer f.Close()

	var dh zudifmt.DeviceHeader
	if err := binary.Read(f, binary.LittleEndian, &dh); err != nil {
		t.Fatalf("reading DeviceHeader: %v", err)
	}
	headerSize := uint32(binary.Size(zudifmt.DeviceHeader{}))
	if dh.AttrOffset != headerSize {
		t.Errorf("AttrOffset = %d, want %d (immediately after the header)", dh.AttrOffset, headerSize)
	}
	if dh.NAttributes != 1 {
		t.Fatalf("NAttributes = %d, want 1", dh.NAttributes)
	}
}
