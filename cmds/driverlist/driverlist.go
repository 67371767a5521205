// Copyright 2026 The zudiindex Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Driverlist batch-adds every driver named in a newline-delimited list file
// to a zudi-index directory, continuing past per-driver failures.
//
// Synopsis:
//
//	driverlist -i <dir> LISTFILE
//
// Each line of LISTFILE is either a bare basepath or `basepath<TAB>file`,
// where file defaults to basepath/driver.udiprops.
package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	flag "github.com/spf13/pflag"

	"github.com/latentprion/zudiindex/zerr"
	"github.com/latentprion/zudiindex/zlog"
	"github.com/latentprion/zudiindex/zudiindex"
	"github.com/latentprion/zudiindex/zudiprops"
)

var indexDir = flag.StringP("index", "i", "", "index directory")

// entry is one parsed line of the list file.
type entry struct {
	basePath string
	file     string
}

func parseListFile(r io.Reader) ([]entry, error) {
	var entries []entry
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.SplitN(line, "\t", 2)
		e := entry{basePath: fields[0]}
		if len(fields) == 2 {
			e.file = fields[1]
		} else {
			e.file = filepath.Join(fields[0], "driver.udiprops")
		}
		entries = append(entries, e)
	}
	return entries, sc.Err()
}

// run applies every entry's ADD operation in order, aggregating per-driver
// failures into one returned *multierror.Error without aborting the batch,
// and reports how many drivers were added successfully.
func run(stdout io.Writer, logger zlog.Logger, listFile string) (int, error) {
	if *indexDir == "" {
		return 0, zerr.New("driverlist.run", zerr.BadCommandLine, fmt.Errorf("-i is required"))
	}

	lf, err := os.Open(listFile)
	if err != nil {
		return 0, zerr.New("driverlist.run", zerr.FileOpen, err)
	}
	defer lf.Close()

	entries, err := parseListFile(lf)
	if err != nil {
		return 0, zerr.New("driverlist.run", zerr.FileIO, err)
	}

	idx, err := zudiindex.Open(*indexDir)
	if err != nil {
		return 0, err
	}
	writer := zudiindex.NewWriter(idx)

	var result *multierror.Error
	added := 0
	for _, e := range entries {
		if err := addOne(idx, writer, logger, e); err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", e.basePath, err))
			continue
		}
		added++
		fmt.Fprintf(stdout, "added %s\n", e.basePath)
	}
	return added, result.ErrorOrNil()
}

func addOne(idx *zudiindex.Index, writer *zudiindex.Writer, logger zlog.Logger, e entry) error {
	f, err := os.Open(e.file)
	if err != nil {
		return zerr.New("driverlist.addOne", zerr.FileOpen, err)
	}
	defer f.Close()

	id, err := idx.AllocateDriverID()
	if err != nil {
		return err
	}
	session, err := zudiprops.NewSession(id, e.basePath)
	if err != nil {
		return zerr.New("driverlist.addOne", zerr.BadCommandLine, err)
	}
	if err := zudiprops.Ingest(session, f, logger); err != nil {
		return err
	}
	return writer.WriteDriver(session)
}

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: driverlist -i <dir> LISTFILE")
		os.Exit(zerr.BadCommandLine.ExitCode())
	}
	added, err := run(os.Stdout, zlog.DefaultLogger, flag.Arg(0))
	if err != nil {
		log.Print(err)
		fmt.Fprintf(os.Stderr, "%d drivers added; the others failed\n", added)
		os.Exit(zerr.KindOf(err).ExitCode())
	}
}
