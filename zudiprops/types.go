// Copyright 2026 The zudiindex Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package zudiprops

import "github.com/latentprion/zudiindex/zudiindex/zudifmt"

// Header is the in-memory driver aggregate. Strings are held as Go
// strings here; zudiindex.Writer is responsible for interning or
// inlining them into the on-disk zudifmt.DriverHeader.
type Header struct {
	ID                 uint32
	Type               zudifmt.DriverType
	ShortName          string
	ReleaseString      string
	ReleaseStringIndex uint16
	NameIndex          uint16
	SupplierIndex      uint16
	ContactIndex       uint16
	CategoryIndex      uint16
	RequiredUDIVersion uint32
	HasRequiresUDI     bool
	BasePath           string
}

// Requirement is one `requires <name> <version>` entry, excluding the
// sentinel `requires udi <version>` which instead sets
// Header.RequiredUDIVersion.
type Requirement struct {
	Version uint32
	Name    string
}

// Metalanguage is one embedded `meta <index> <name>` entry.
type Metalanguage struct {
	Index uint16
	Name  string
}

// ChildBop is one `child_bind_ops` entry.
type ChildBop struct {
	MetaIndex   uint16
	RegionIndex uint16
	OpsIndex    uint16
}

// ParentBop is one `parent_bind_ops` entry.
type ParentBop struct {
	MetaIndex   uint16
	RegionIndex uint16
	OpsIndex    uint16
	BindCbIndex uint16
}

// InternalBop is one `internal_bind_ops` entry.
type InternalBop struct {
	MetaIndex   uint16
	RegionIndex uint16
	Ops0Index   uint16
	Ops1Index   uint16
	BindCbIndex uint16
}

// Module is one `module <filename>` entry.
type Module struct {
	Index    uint16
	FileName string
}

// Region is one `region` statement.
type Region struct {
	DriverID    uint32
	Index       uint16
	ModuleIndex uint16
	Priority    zudifmt.RegionPriority
	Latency     zudifmt.RegionLatency
	Flags       uint32
}

// Attribute is one device or rank attribute clause.
type Attribute struct {
	Name        string
	Type        zudifmt.AttrType
	StringValue string
	Array8Value []byte
	Ubit32Value uint32
	BoolValue   bool
}

// Device is one `device` statement plus its attribute clauses.
type Device struct {
	DriverID     uint32
	Index        uint16
	MessageIndex uint16
	MetaIndex    uint16
	Attributes   []Attribute
}

// Message is one `message` statement.
type Message struct {
	DriverID uint32
	Index    uint16
	Text     string
}

// DisasterMessage is one `disaster_message` statement.
type DisasterMessage struct {
	DriverID uint32
	Index    uint16
	Text     string
}

// MessageFile is one `message_file` statement.
type MessageFile struct {
	DriverID uint32
	Index    uint16
	FileName string
}

// ReadableFile is one `readable_file` statement.
type ReadableFile struct {
	DriverID uint32
	Index    uint16
	FileName string
}

// RankAttribute is one named attribute of a Rank.
type RankAttribute struct {
	Name string
}

// Rank is a device-matching specificity record. No udiprops keyword
// populates Ranks directly; the slice exists so the Index Writer always
// has a symmetric side-list to flush (ranks.zudi-index is always part of
// the write, even when empty for every driver that predates rank
// support).
type Rank struct {
	DriverID   uint32
	Rank       uint8
	Attributes []RankAttribute
}

// Provision is one provided-interface record.
type Provision struct {
	DriverID uint32
	Version  uint32
	Name     string
}
