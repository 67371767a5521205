// Copyright 2026 The zudiindex Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package zudiprops

import (
	"errors"
	"fmt"
	"io"

	"github.com/latentprion/zudiindex/zerr"
	"github.com/latentprion/zudiindex/zlog"
)

// Ingest drives the Line Reader against r, feeding every logical line
// into s.ParseLine until the stream is exhausted. A bad Result aborts
// ingestion of the current driver and is reported as a *zerr.Error of
// kind zerr.ParseError; reaching end of file without `requires udi`
// having set Header.HasRequiresUDI is reported as zerr.NoRequiresUdi.
// Either way, the caller continues on to the next driver; Ingest itself
// never holds state across calls.
func Ingest(s *Session, r io.Reader, logger zlog.Logger) error {
	if logger == nil {
		logger = zlog.DefaultLogger
	}
	lr := NewLineReader(r, logger)
	for {
		lineNo, text, err := lr.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return zerr.New("zudiprops.Ingest", zerr.FileIO, err)
		}

		result, rec := s.ParseLine(text)
		if result.IsBad() {
			logger.Warnf("line %d: %s: %q", lineNo, result, text)
			return zerr.New("zudiprops.Ingest", zerr.ParseError,
				fmt.Errorf("line %d: %s: %q", lineNo, result, text))
		}
		logger.Tracef("line %d: %s: %q -> %+v", lineNo, result, text, rec)
	}

	if !s.Header.HasRequiresUDI {
		return zerr.New("zudiprops.Ingest", zerr.NoRequiresUdi, nil)
	}
	return nil
}
