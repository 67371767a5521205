// Copyright 2026 The zudiindex Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package zudiindex

import (
	"encoding/binary"
	"os"
	"path/filepath"

	"github.com/latentprion/zudiindex/zerr"
	"github.com/latentprion/zudiindex/zudiindex/zudifmt"
	"github.com/latentprion/zudiindex/zudiprops"
)

// Writer flushes one assembled zudiprops.Session at a time into idx's
// sibling index files. It holds no state across WriteDriver calls: every
// file it touches is opened, written and closed within one call, per the
// scoped-acquisition resource model.
type Writer struct {
	Index *Index
}

// NewWriter returns a Writer bound to idx.
func NewWriter(idx *Index) *Writer { return &Writer{Index: idx} }

// WriteDriver serializes s into the sibling index files and bumps the
// shared IndexHeader.NRecords. It is the core's single write-out
// operation, invoked once per driver at end of file. On success, s is
// sealed: a further ParseLine call against it is a no-op.
func (w *Writer) WriteDriver(s *zudiprops.Session) error {
	const op = "zudiindex.WriteDriver"
	if s.Sealed() {
		return zerr.New(op, zerr.Unknown, os.ErrInvalid)
	}

	order := w.Index.Order
	dir := w.Index.Dir

	pool, err := openStringPool(dir)
	if err != nil {
		return zerr.New(op, zerr.FileOpen, err)
	}
	defer pool.Close()

	df, _, err := openForAppend(filepath.Join(dir, zudifmt.FileDriverData))
	if err != nil {
		return zerr.New(op, zerr.FileOpen, err)
	}
	defer df.Close()

	var hdr zudifmt.DriverHeader
	hdr.ID = s.Header.ID
	hdr.Type = s.Header.Type
	copy(hdr.ShortName[:], s.Header.ShortName)
	copy(hdr.ReleaseString[:], s.Header.ReleaseString)
	hdr.ReleaseStringIndex = s.Header.ReleaseStringIndex
	hdr.NameIndex = s.Header.NameIndex
	hdr.SupplierIndex = s.Header.SupplierIndex
	hdr.ContactIndex = s.Header.ContactIndex
	hdr.CategoryIndex = s.Header.CategoryIndex
	hdr.RequiredUDIVersion = s.Header.RequiredUDIVersion
	copy(hdr.BasePath[:], s.Header.BasePath)

	if hdr.DataFileOffset, err = tell(df); err != nil {
		return zerr.New(op, zerr.FileIO, err)
	}

	// Embedded tables, in the exact order the index format mandates.
	if err := writeModules(df, order, pool, s.Modules, &hdr); err != nil {
		return zerr.New(op, zerr.FileIO, err)
	}
	if err := writeRequirements(df, order, pool, s.Requirements, &hdr); err != nil {
		return zerr.New(op, zerr.FileIO, err)
	}
	if err := writeMetalanguages(df, order, pool, s.Metalanguages, &hdr); err != nil {
		return zerr.New(op, zerr.FileIO, err)
	}
	if err := writeParentBops(df, order, s.ParentBops, &hdr); err != nil {
		return zerr.New(op, zerr.FileIO, err)
	}
	if err := writeChildBops(df, order, s.ChildBops, &hdr); err != nil {
		return zerr.New(op, zerr.FileIO, err)
	}
	if err := writeInternalBops(df, order, s.InternalBops, &hdr); err != nil {
		return zerr.New(op, zerr.FileIO, err)
	}

	if err := w.writeRanks(order, pool, s.Ranks, &hdr); err != nil {
		return zerr.New(op, zerr.FileIO, err)
	}
	if err := w.writeDevices(order, pool, s.Devices, &hdr); err != nil {
		return zerr.New(op, zerr.FileIO, err)
	}
	if err := w.writeProvisions(order, pool, s.Provisions, &hdr); err != nil {
		return zerr.New(op, zerr.FileIO, err)
	}
	if err := w.writeRegions(order, s.Regions, &hdr); err != nil {
		return zerr.New(op, zerr.FileIO, err)
	}
	if err := w.writeMessages(order, pool, s.Messages, &hdr); err != nil {
		return zerr.New(op, zerr.FileIO, err)
	}
	if err := w.writeDisasterMessages(order, pool, s.DisasterMessages, &hdr); err != nil {
		return zerr.New(op, zerr.FileIO, err)
	}
	if err := w.writeMessageFiles(order, pool, s.MessageFiles, &hdr); err != nil {
		return zerr.New(op, zerr.FileIO, err)
	}
	if err := w.writeReadableFiles(order, pool, s.ReadableFiles, &hdr); err != nil {
		return zerr.New(op, zerr.FileIO, err)
	}

	if err := w.appendDriverHeader(order, &hdr); err != nil {
		return zerr.New(op, zerr.FileIO, err)
	}

	s.Seal()
	return nil
}

func writeModules(df *os.File, order binary.ByteOrder, pool *StringPool, modules []zudiprops.Module, hdr *zudifmt.DriverHeader) error {
	off, err := tell(df)
	if err != nil {
		return err
	}
	hdr.ModulesOffset = off
	for _, m := range modules {
		nameOff, err := pool.Intern(m.FileName)
		if err != nil {
			return err
		}
		entry := zudifmt.ModuleEntry{Index: m.Index, FileNameOffset: nameOff}
		if err := binary.Write(df, order, &entry); err != nil {
			return err
		}
	}
	hdr.NModules = uint8(len(modules))
	return nil
}

func writeRequirements(df *os.File, order binary.ByteOrder, pool *StringPool, reqs []zudiprops.Requirement, hdr *zudifmt.DriverHeader) error {
	off, err := tell(df)
	if err != nil {
		return err
	}
	hdr.RequirementsOffset = off
	for _, r := range reqs {
		nameOff, err := pool.Intern(r.Name)
		if err != nil {
			return err
		}
		entry := zudifmt.RequirementEntry{Version: r.Version, NameOffset: nameOff}
		if err := binary.Write(df, order, &entry); err != nil {
			return err
		}
	}
	hdr.NRequirements = uint8(len(reqs))
	return nil
}

func writeMetalanguages(df *os.File, order binary.ByteOrder, pool *StringPool, metas []zudiprops.Metalanguage, hdr *zudifmt.DriverHeader) error {
	off, err := tell(df)
	if err != nil {
		return err
	}
	hdr.MetalanguagesOffset = off
	for _, m := range metas {
		nameOff, err := pool.Intern(m.Name)
		if err != nil {
			return err
		}
		entry := zudifmt.MetalanguageEntry{Index: m.Index, NameOffset: nameOff}
		if err := binary.Write(df, order, &entry); err != nil {
			return err
		}
	}
	hdr.NMetalanguages = uint8(len(metas))
	return nil
}

func writeParentBops(df *os.File, order binary.ByteOrder, bops []zudiprops.ParentBop, hdr *zudifmt.DriverHeader) error {
	off, err := tell(df)
	if err != nil {
		return err
	}
	hdr.ParentBopsOffset = off
	for _, b := range bops {
		entry := zudifmt.ParentBopEntry{MetaIndex: b.MetaIndex, RegionIndex: b.RegionIndex, OpsIndex: b.OpsIndex, BindCbIndex: b.BindCbIndex}
		if err := binary.Write(df, order, &entry); err != nil {
			return err
		}
	}
	hdr.NParentBops = uint8(len(bops))
	return nil
}

func writeChildBops(df *os.File, order binary.ByteOrder, bops []zudiprops.ChildBop, hdr *zudifmt.DriverHeader) error {
	off, err := tell(df)
	if err != nil {
		return err
	}
	hdr.ChildBopsOffset = off
	for _, b := range bops {
		entry := zudifmt.ChildBopEntry{MetaIndex: b.MetaIndex, RegionIndex: b.RegionIndex, OpsIndex: b.OpsIndex}
		if err := binary.Write(df, order, &entry); err != nil {
			return err
		}
	}
	hdr.NChildBops = uint8(len(bops))
	return nil
}

func writeInternalBops(df *os.File, order binary.ByteOrder, bops []zudiprops.InternalBop, hdr *zudifmt.DriverHeader) error {
	off, err := tell(df)
	if err != nil {
		return err
	}
	hdr.InternalBopsOffset = off
	for _, b := range bops {
		entry := zudifmt.InternalBopEntry{
			MetaIndex: b.MetaIndex, RegionIndex: b.RegionIndex,
			Ops0Index: b.Ops0Index, Ops1Index: b.Ops1Index, BindCbIndex: b.BindCbIndex,
		}
		if err := binary.Write(df, order, &entry); err != nil {
			return err
		}
	}
	hdr.NInternalBops = uint8(len(bops))
	return nil
}

func (w *Writer) writeRanks(order binary.ByteOrder, pool *StringPool, ranks []zudiprops.Rank, hdr *zudifmt.DriverHeader) error {
	f, _, err := openForAppend(filepath.Join(w.Index.Dir, zudifmt.FileRanks))
	if err != nil {
		return err
	}
	defer f.Close()

	off, err := tell(f)
	if err != nil {
		return err
	}
	hdr.RankFileOffset = off

	for _, r := range ranks {
		rh := zudifmt.RankHeader{DriverID: r.DriverID, NAttributes: uint8(len(r.Attributes)), Rank: r.Rank}
		if err := binary.Write(f, order, &rh); err != nil {
			return err
		}
		for _, a := range r.Attributes {
			nameOff, err := pool.Intern(a.Name)
			if err != nil {
				return err
			}
			attr := zudifmt.RankAttribute{NameOffset: nameOff}
			if err := binary.Write(f, order, &attr); err != nil {
				return err
			}
		}
	}
	hdr.NRanks = uint8(len(ranks))
	return nil
}

func (w *Writer) writeDevices(order binary.ByteOrder, pool *StringPool, devices []zudiprops.Device, hdr *zudifmt.DriverHeader) error {
	f, _, err := openForAppend(filepath.Join(w.Index.Dir, zudifmt.FileDevices))
	if err != nil {
		return err
	}
	defer f.Close()

	off, err := tell(f)
	if err != nil {
		return err
	}
	hdr.DeviceFileOffset = off

	headerSize := uint32(binary.Size(zudifmt.DeviceHeader{}))
	for _, d := range devices {
		pos, err := tell(f)
		if err != nil {
			return err
		}
		dh := zudifmt.DeviceHeader{
			DriverID:     d.DriverID,
			Index:        d.Index,
			MessageIndex: d.MessageIndex,
			MetaIndex:    d.MetaIndex,
			NAttributes:  uint8(len(d.Attributes)),
			AttrOffset:   pos + headerSize,
		}
		if err := binary.Write(f, order, &dh); err != nil {
			return err
		}
		for _, a := range d.Attributes {
			nameOff, err := pool.Intern(a.Name)
			if err != nil {
				return err
			}
			attr := zudifmt.DeviceAttribute{Type: a.Type, NameOffset: nameOff}
			switch a.Type {
			case zudifmt.AttrString:
				valOff, err := pool.Intern(a.StringValue)
				if err != nil {
					return err
				}
				attr.ValueOffset = valOff
				attr.Size = uint8(len(a.StringValue))
			case zudifmt.AttrArray8:
				valOff, err := pool.InternBytes(a.Array8Value)
				if err != nil {
					return err
				}
				attr.ValueOffset = valOff
				attr.Size = uint8(len(a.Array8Value))
			case zudifmt.AttrUbit32:
				attr.ValueScalar = a.Ubit32Value
			case zudifmt.AttrBool:
				if a.BoolValue {
					attr.ValueScalar = 1
				}
			}
			if err := binary.Write(f, order, &attr); err != nil {
				return err
			}
		}
	}
	hdr.NDevices = uint8(len(devices))
	return nil
}

func (w *Writer) writeProvisions(order binary.ByteOrder, pool *StringPool, provisions []zudiprops.Provision, hdr *zudifmt.DriverHeader) error {
	f, _, err := openForAppend(filepath.Join(w.Index.Dir, zudifmt.FileProvisions))
	if err != nil {
		return err
	}
	defer f.Close()

	off, err := tell(f)
	if err != nil {
		return err
	}
	hdr.ProvisionFileOffset = off

	for _, p := range provisions {
		nameOff, err := pool.Intern(p.Name)
		if err != nil {
			return err
		}
		rec := zudifmt.Provision{DriverID: p.DriverID, Version: p.Version, NameOffset: nameOff}
		if err := binary.Write(f, order, &rec); err != nil {
			return err
		}
	}
	hdr.NProvides = uint8(len(provisions))
	return nil
}

func (w *Writer) writeRegions(order binary.ByteOrder, regions []zudiprops.Region, hdr *zudifmt.DriverHeader) error {
	f, _, err := openForAppend(filepath.Join(w.Index.Dir, zudifmt.FileRegions))
	if err != nil {
		return err
	}
	defer f.Close()

	off, err := tell(f)
	if err != nil {
		return err
	}
	hdr.RegionsOffset = off

	for _, r := range regions {
		rec := zudifmt.Region{
			DriverID: r.DriverID, Index: r.Index, ModuleIndex: r.ModuleIndex,
			Priority: r.Priority, Latency: r.Latency, Flags: r.Flags,
		}
		if err := binary.Write(f, order, &rec); err != nil {
			return err
		}
	}
	hdr.NRegions = uint8(len(regions))
	return nil
}

func (w *Writer) writeMessages(order binary.ByteOrder, pool *StringPool, messages []zudiprops.Message, hdr *zudifmt.DriverHeader) error {
	f, _, err := openForAppend(filepath.Join(w.Index.Dir, zudifmt.FileMessages))
	if err != nil {
		return err
	}
	defer f.Close()

	off, err := tell(f)
	if err != nil {
		return err
	}
	hdr.MessagesOffset = off

	for _, m := range messages {
		textOff, err := pool.Intern(m.Text)
		if err != nil {
			return err
		}
		rec := zudifmt.Message{DriverID: m.DriverID, Index: m.Index, TextOffset: textOff}
		if err := binary.Write(f, order, &rec); err != nil {
			return err
		}
	}
	hdr.NMessages = uint8(len(messages))
	return nil
}

func (w *Writer) writeDisasterMessages(order binary.ByteOrder, pool *StringPool, messages []zudiprops.DisasterMessage, hdr *zudifmt.DriverHeader) error {
	f, _, err := openForAppend(filepath.Join(w.Index.Dir, zudifmt.FileDisasterMessages))
	if err != nil {
		return err
	}
	defer f.Close()

	off, err := tell(f)
	if err != nil {
		return err
	}
	hdr.DisasterMessagesOffset = off

	for _, m := range messages {
		textOff, err := pool.Intern(m.Text)
		if err != nil {
			return err
		}
		rec := zudifmt.DisasterMessage{DriverID: m.DriverID, Index: m.Index, TextOffset: textOff}
		if err := binary.Write(f, order, &rec); err != nil {
			return err
		}
	}
	hdr.NDisasterMessages = uint8(len(messages))
	return nil
}

func (w *Writer) writeMessageFiles(order binary.ByteOrder, pool *StringPool, files []zudiprops.MessageFile, hdr *zudifmt.DriverHeader) error {
	f, _, err := openForAppend(filepath.Join(w.Index.Dir, zudifmt.FileMessageFiles))
	if err != nil {
		return err
	}
	defer f.Close()

	off, err := tell(f)
	if err != nil {
		return err
	}
	hdr.MessageFilesOffset = off

	for _, m := range files {
		nameOff, err := pool.Intern(m.FileName)
		if err != nil {
			return err
		}
		rec := zudifmt.MessageFile{DriverID: m.DriverID, Index: m.Index, FileNameOffset: nameOff}
		if err := binary.Write(f, order, &rec); err != nil {
			return err
		}
	}
	hdr.NMessageFiles = uint8(len(files))
	return nil
}

func (w *Writer) writeReadableFiles(order binary.ByteOrder, pool *StringPool, files []zudiprops.ReadableFile, hdr *zudifmt.DriverHeader) error {
	f, _, err := openForAppend(filepath.Join(w.Index.Dir, zudifmt.FileReadableFiles))
	if err != nil {
		return err
	}
	defer f.Close()

	off, err := tell(f)
	if err != nil {
		return err
	}
	hdr.ReadableFilesOffset = off

	for _, m := range files {
		nameOff, err := pool.Intern(m.FileName)
		if err != nil {
			return err
		}
		rec := zudifmt.ReadableFile{DriverID: m.DriverID, Index: m.Index, FileNameOffset: nameOff}
		if err := binary.Write(f, order, &rec); err != nil {
			return err
		}
	}
	hdr.NReadableFiles = uint8(len(files))
	return nil
}

// appendDriverHeader bumps the shared IndexHeader.NRecords and appends
// hdr as the final, now-complete record in drivers.zudi-index.
func (w *Writer) appendDriverHeader(order binary.ByteOrder, hdr *zudifmt.DriverHeader) error {
	f, err := os.OpenFile(filepath.Join(w.Index.Dir, zudifmt.FileDrivers), os.O_RDWR, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	var ihdr zudifmt.IndexHeader
	if err := binary.Read(f, order, &ihdr); err != nil {
		return err
	}
	ihdr.NRecords++
	if _, err := f.Seek(0, 0); err != nil {
		return err
	}
	if err := binary.Write(f, order, &ihdr); err != nil {
		return err
	}

	if _, err := f.Seek(0, 2); err != nil {
		return err
	}
	return binary.Write(f, order, hdr)
}
