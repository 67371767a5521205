// Copyright 2026 The zudiindex Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Zudiindex compiles udiprops driver-metadata text into a zudi-index
// directory.
//
// Synopsis:
//
//	zudiindex -c <le|be> -i <dir>
//	zudiindex -a <file> (-txt|-bin) -i <dir> -b <basepath>
//	zudiindex -l -i <dir>
//	zudiindex -r <id> -i <dir>
//	zudiindex --printsizes
package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/fatih/camelcase"
	"github.com/jedib0t/go-pretty/v6/table"
	flag "github.com/spf13/pflag"

	"github.com/latentprion/zudiindex/udibin"
	"github.com/latentprion/zudiindex/zerr"
	"github.com/latentprion/zudiindex/zlog"
	"github.com/latentprion/zudiindex/zudiindex"
	"github.com/latentprion/zudiindex/zudiindex/zudifmt"
	"github.com/latentprion/zudiindex/zudiprops"
)

var (
	create     = flag.StringP("create", "c", "", "create a new index, byte order le or be")
	add        = flag.StringP("add", "a", "", "add the udiprops of this file to the index")
	isText     = flag.Bool("txt", false, "the -a file is raw udiprops text")
	isBinary   = flag.Bool("bin", false, "the -a file is a compiled driver binary with a .udiprops ELF section")
	indexDir   = flag.StringP("index", "i", "", "index directory")
	basePath   = flag.StringP("basepath", "b", "", "driver install base path, required with -a")
	list       = flag.BoolP("list", "l", false, "list the index contents")
	remove     = flag.StringP("remove", "r", "", "remove a driver by ID (accepted, not yet implemented)")
	printSizes = flag.Bool("printsizes", false, "print the declared wire size of every record type")
	verbose    = flag.BoolP("verbose", "v", false, "enable per-line trace output")
)

func run(stdout io.Writer, logger zlog.Logger) error {
	switch {
	case *printSizes:
		return runPrintSizes(stdout)
	case *create != "":
		return runCreate(logger)
	case *add != "":
		return runAdd(stdout, logger)
	case *list:
		return runList(stdout)
	case *remove != "":
		logger.Warnf("remove: driver %s not removed, this index format has no compaction", *remove)
		return nil
	default:
		flag.Usage()
		return zerr.New("zudiindex.run", zerr.BadCommandLine, fmt.Errorf("no mode selected"))
	}
}

func byteOrder(s string) (binary.ByteOrder, error) {
	switch s {
	case "le":
		return binary.LittleEndian, nil
	case "be":
		return binary.BigEndian, nil
	default:
		return nil, fmt.Errorf("byte order must be le or be, got %q", s)
	}
}

func runCreate(logger zlog.Logger) error {
	if *indexDir == "" {
		return zerr.New("zudiindex.runCreate", zerr.BadCommandLine, fmt.Errorf("-i is required"))
	}
	order, err := byteOrder(*create)
	if err != nil {
		return zerr.New("zudiindex.runCreate", zerr.BadCommandLine, err)
	}
	if _, err := zudiindex.Create(*indexDir, order); err != nil {
		return err
	}
	logger.Warnf("created index at %s (%s)", *indexDir, *create)
	return nil
}

func runAdd(stdout io.Writer, logger zlog.Logger) error {
	if *indexDir == "" || *basePath == "" {
		return zerr.New("zudiindex.runAdd", zerr.BadCommandLine, fmt.Errorf("-i and -b are required"))
	}
	if *isText == *isBinary {
		return zerr.New("zudiindex.runAdd", zerr.BadCommandLine, fmt.Errorf("exactly one of -txt or -bin is required"))
	}

	f, err := os.Open(*add)
	if err != nil {
		return zerr.New("zudiindex.runAdd", zerr.FileOpen, err)
	}
	defer f.Close()

	var r io.Reader = f
	if *isBinary {
		data, err := udibin.ExtractUdiprops(f)
		if err != nil {
			return err
		}
		r = &byteSliceReader{data: data}
	}

	idx, err := zudiindex.Open(*indexDir)
	if err != nil {
		return err
	}
	id, err := idx.AllocateDriverID()
	if err != nil {
		return err
	}

	session, err := zudiprops.NewSession(id, *basePath)
	if err != nil {
		return zerr.New("zudiindex.runAdd", zerr.BadCommandLine, err)
	}
	if err := zudiprops.Ingest(session, r, logger); err != nil {
		return err
	}

	writer := zudiindex.NewWriter(idx)
	if err := writer.WriteDriver(session); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "added driver %d (%s)\n", id, *basePath)
	return nil
}

// byteSliceReader adapts the extracted ELF section bytes to io.Reader
// without pulling bytes.Reader's ReadAt/Seek surface into the call site.
type byteSliceReader struct {
	data []byte
	pos  int
}

func (b *byteSliceReader) Read(p []byte) (int, error) {
	if b.pos >= len(b.data) {
		return 0, io.EOF
	}
	n := copy(p, b.data[b.pos:])
	b.pos += n
	return n, nil
}

func runList(stdout io.Writer) error {
	if *indexDir == "" {
		return zerr.New("zudiindex.runList", zerr.BadCommandLine, fmt.Errorf("-i is required"))
	}
	idx, err := zudiindex.Open(*indexDir)
	if err != nil {
		return err
	}
	hdr, err := idx.Header()
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "index: version %d.%d, %s driver records, next id %d\n",
		hdr.MajorVersion, hdr.MinorVersion, humanize.Comma(int64(hdr.NRecords)), hdr.NextDriverID)

	drivers, err := idx.Drivers()
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(stdout)
	t.AppendHeader(table.Row{"ID", "Type", "Short Name", "Kind", "Modules", "Devices", "Data Offset"})
	for _, d := range drivers {
		shortName := cString(d.ShortName[:])
		t.AppendRow([]interface{}{
			d.ID, d.Type, shortName, driverKind(shortName),
			d.NModules, d.NDevices, humanize.Bytes(uint64(d.DataFileOffset)),
		})
	}
	t.Render()
	return nil
}

// driverKind derives a readable label from a driver's short name by
// splitting its camel-case words with fatih/camelcase.
func driverKind(shortName string) string {
	words := camelcase.Split(shortName)
	if len(words) == 0 {
		return ""
	}
	out := words[0]
	for _, w := range words[1:] {
		out += " " + w
	}
	return out
}

func cString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

func runPrintSizes(stdout io.Writer) error {
	t := table.NewWriter()
	t.SetOutputMirror(stdout)
	t.AppendHeader(table.Row{"Record", "Declared size (bytes)"})
	rows := []struct {
		name string
		size int
	}{
		{"IndexHeader", binary.Size(zudifmt.IndexHeader{})},
		{"DriverHeader", binary.Size(zudifmt.DriverHeader{})},
		{"RequirementEntry", binary.Size(zudifmt.RequirementEntry{})},
		{"MetalanguageEntry", binary.Size(zudifmt.MetalanguageEntry{})},
		{"ChildBopEntry", binary.Size(zudifmt.ChildBopEntry{})},
		{"ParentBopEntry", binary.Size(zudifmt.ParentBopEntry{})},
		{"InternalBopEntry", binary.Size(zudifmt.InternalBopEntry{})},
		{"ModuleEntry", binary.Size(zudifmt.ModuleEntry{})},
		{"Region", binary.Size(zudifmt.Region{})},
		{"Message", binary.Size(zudifmt.Message{})},
		{"DisasterMessage", binary.Size(zudifmt.DisasterMessage{})},
		{"MessageFile", binary.Size(zudifmt.MessageFile{})},
		{"ReadableFile", binary.Size(zudifmt.ReadableFile{})},
		{"Provision", binary.Size(zudifmt.Provision{})},
		{"DeviceHeader", binary.Size(zudifmt.DeviceHeader{})},
		{"DeviceAttribute", binary.Size(zudifmt.DeviceAttribute{})},
		{"RankHeader", binary.Size(zudifmt.RankHeader{})},
		{"RankAttribute", binary.Size(zudifmt.RankAttribute{})},
	}
	for _, r := range rows {
		t.AppendRow([]interface{}{r.name, r.size})
	}
	t.Render()
	return nil
}

func main() {
	flag.Parse()
	if *verbose {
		zlog.SetVerbose(true)
	}
	if err := run(os.Stdout, zlog.DefaultLogger); err != nil {
		log.Print(err)
		os.Exit(zerr.KindOf(err).ExitCode())
	}
}
