// Copyright 2026 The zudiindex Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package zudiprops implements the Line Reader and Parser/Driver
// Assembler halves of the zudiindex core: it turns a udiprops byte
// stream into one fully validated in-memory driver aggregate plus its
// side-lists, ready for zudiindex.Writer to flush.
package zudiprops

import (
	"fmt"

	"github.com/latentprion/zudiindex/zudiindex/zudifmt"
)

type sessionState int

const (
	stateUninitialized sessionState = iota
	stateAccumulating
	stateSealed
)

// Session owns exactly one driver's current aggregate plus its eight
// side-lists. There is no process-wide mutable state: every field the
// Parser touches lives here, passed explicitly from caller to caller, per
// the single-owned-value redesign of the source's global singletons.
type Session struct {
	state sessionState

	Header        Header
	Requirements  []Requirement
	Metalanguages []Metalanguage
	ChildBops     []ChildBop
	ParentBops    []ParentBop
	InternalBops  []InternalBop
	Modules       []Module

	Regions          []Region
	Devices          []Device
	Messages         []Message
	DisasterMessages []DisasterMessage
	MessageFiles     []MessageFile
	ReadableFiles    []ReadableFile
	Ranks            []Rank
	Provisions       []Provision
}

// NewSession initializes a fresh Session for driverID, equivalent to the
// core's initialize(driverId). basePath must fit zudifmt.BasePathMaxLen.
func NewSession(driverID uint32, basePath string) (*Session, error) {
	if len(basePath) >= zudifmt.BasePathMaxLen {
		return nil, fmt.Errorf("base path %q is %d bytes, limit is %d", basePath, len(basePath), zudifmt.BasePathMaxLen)
	}
	s := &Session{state: stateAccumulating}
	s.Header.ID = driverID
	s.Header.BasePath = basePath
	return s, nil
}

// Release frees the current driver's state and returns the Session to
// uninitialized, equivalent to the core's release().
func (s *Session) Release() {
	*s = Session{state: stateUninitialized}
}

// Sealed reports whether WriteDriver has already consumed this session;
// ParseLine is a no-op once sealed, per the core's state machine.
func (s *Session) Sealed() bool { return s.state == stateSealed }

// Seal transitions the session to sealed, the state entered right after
// the Index Writer has flushed it.
func (s *Session) Seal() { s.state = stateSealed }

type keywordHandler struct {
	keyword string
	handle  func(*Session, string) (Result, interface{})
}

func miscHandler(*Session, string) (Result, interface{}) { return ResultMisc, nil }

// keywordTable is checked in order. matchKeyword only matches a keyword
// followed by whitespace or end of line, so a longer keyword that begins
// with a shorter one (message_file vs. message) is never taken for it.
var keywordTable = []keywordHandler{
	{"message_file", (*Session).parseMessageFile},
	{"message", (*Session).parseMessage},
	{"disaster_message", (*Session).parseDisasterMessage},
	{"readable_file", (*Session).parseReadableFile},
	{"meta", (*Session).parseMeta},
	{"device", (*Session).parseDevice},
	{"requires", (*Session).parseRequires},
	{"module", (*Session).parseModule},
	{"region", (*Session).parseRegion},
	{"child_bind_ops", (*Session).parseChildBops},
	{"parent_bind_ops", (*Session).parseParentBops},
	{"internal_bind_ops", (*Session).parseInternalBops},
	{"shortname", (*Session).parseShortName},
	{"supplier", (*Session).parseSupplier},
	{"contact", (*Session).parseContact},
	{"name", (*Session).parseName},
	{"release", (*Session).parseRelease},
	{"custom", miscHandler},
	{"locale", miscHandler},
	{"properties_version", miscHandler},
	{"pio_serialization_limit", miscHandler},
	{"compile_options", miscHandler},
	{"source_files", miscHandler},
	{"source_requires", miscHandler},
	{"multi_parent", miscHandler},
	{"enumerates", miscHandler},
}

// ParseLine classifies text by its leading keyword and dispatches to the
// matching statement parser, which validates, normalizes and mutates the
// current aggregate (or appends a side-list record). It is the core's
// parseLine(text) -> LineType x Option<Record> operation; the returned
// interface{} is the record appended or mutated (for tracing), or nil.
func (s *Session) ParseLine(text string) (Result, interface{}) {
	if s.state != stateAccumulating {
		return ResultUnknown, nil
	}
	for _, kh := range keywordTable {
		rest, ok := matchKeyword(text, kh.keyword)
		if !ok {
			continue
		}
		return kh.handle(s, rest)
	}
	return ResultUnknown, nil
}
