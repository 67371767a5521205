// Copyright 2026 The zudiindex Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package zudifmt declares the fixed-size, wire-format records written to
// the zudi-index family of files. Every type here is read and written
// with encoding/binary against an explicitly chosen byte order. None of
// them carry a variable-length field: variable-length text is interned
// into the shared string pool and referenced by a uint32 byte offset.
package zudifmt

// Field-width limits, carried over from the udiprops grammar.
const (
	MessageMaxLen       = 150
	FileNameMaxLen      = 64
	ShortNameMaxLen     = 16
	ReleaseMaxLen       = 32
	BasePathMaxLen      = 128
	MetalanguageMaxLen  = 32
	RequirementMaxLen   = MetalanguageMaxLen
	ProvisionNameMaxLen = MetalanguageMaxLen
	AttrNameMaxLen      = 32
	AttrValueMaxLen     = 64
)

// Embedded-table and side-list capacities, per driver.
const (
	MaxRequirements  = 16
	MaxMetalanguages = 16
	MaxChildBops     = 12
	MaxParentBops    = 8
	MaxInternalBops  = 24
	MaxModules       = 16
	MaxDeviceAttrs   = 20
	MaxRankAttrs     = MaxDeviceAttrs
)

// Format version stamped into IndexHeader.
const (
	FormatMajorVersion = 1
	FormatMinorVersion = 0
)

// File names of the sibling index files, relative to the index directory.
const (
	FileDrivers          = "drivers.zudi-index"
	FileDriverData       = "driver-data.zudi-index"
	FileDevices          = "devices.zudi-index"
	FileRanks            = "ranks.zudi-index"
	FileProvisions       = "provisions.zudi-index"
	FileRegions          = "regions.zudi-index"
	FileMessages         = "messages.zudi-index"
	FileDisasterMessages = "disaster-messages.zudi-index"
	FileMessageFiles     = "message-files.zudi-index"
	FileReadableFiles    = "readable-files.zudi-index"
	FileStrings          = "strings.zudi-index"
)

// AllFiles lists every sibling index file. FileDrivers is listed first
// since it alone carries the IndexHeader; Create truncates the others in
// the listed order and then rewrites FileDrivers last.
var AllFiles = []string{
	FileDrivers,
	FileDriverData,
	FileDevices,
	FileRanks,
	FileProvisions,
	FileRegions,
	FileMessages,
	FileDisasterMessages,
	FileMessageFiles,
	FileReadableFiles,
	FileStrings,
}

// DriverType distinguishes a driver from a metalanguage library.
type DriverType uint32

const (
	DriverTypeDriver DriverType = iota
	DriverTypeMetalanguage
)

func (t DriverType) String() string {
	if t == DriverTypeMetalanguage {
		return "metalanguage"
	}
	return "driver"
}

// RegionPriority is the scheduling priority of a driver region.
type RegionPriority uint8

const (
	RegionPriorityLow RegionPriority = iota
	RegionPriorityMedium
	RegionPriorityHigh
)

// RegionLatency is the latency class of a driver region.
type RegionLatency uint8

const (
	RegionLatencyNonCritical RegionLatency = iota
	RegionLatencyNonOver
	RegionLatencyRetry
	RegionLatencyOver
	RegionLatencyPowerfailWarn
)

// Region binding/interrupt flags, OR'd into Region.Flags.
const (
	RegionFlagFP = 1 << iota
	RegionFlagDynamic
	RegionFlagInterrupt
)

// AttrType is the wire type of a device or rank attribute value.
type AttrType uint8

const (
	AttrString AttrType = iota
	AttrUbit32
	AttrBool
	AttrArray8
)

func (t AttrType) String() string {
	switch t {
	case AttrString:
		return "string"
	case AttrUbit32:
		return "ubit32"
	case AttrBool:
		return "boolean"
	case AttrArray8:
		return "array"
	default:
		return "unknown"
	}
}

// IndexHeader opens drivers.zudi-index. Written once, by Create.
type IndexHeader struct {
	Endianness   [4]byte
	MajorVersion uint16
	MinorVersion uint16
	NRecords     uint32
	NextDriverID uint32
	Reserved     [64]byte
}

// DriverHeader is one fixed-size record appended to drivers.zudi-index per
// driver. ShortName, ReleaseString and BasePath are stored inline (not
// pool-interned) since DriverHeader itself must stay a fixed-size record a
// reader can index by position; every other string-bearing record below
// stores a pool offset instead.
type DriverHeader struct {
	ID            uint32
	Type          DriverType
	NameIndex     uint16
	SupplierIndex uint16
	ContactIndex  uint16
	CategoryIndex uint16

	ShortName     [ShortNameMaxLen]byte
	ReleaseString [ReleaseMaxLen]byte
	// ReleaseStringIndex is a message-table index. uint16, like every
	// other message-table index in this file.
	ReleaseStringIndex uint16

	RequiredUDIVersion uint32
	BasePath           [BasePathMaxLen]byte

	DataFileOffset         uint32
	RankFileOffset         uint32
	DeviceFileOffset       uint32
	ProvisionFileOffset    uint32
	RegionsOffset          uint32
	MessagesOffset         uint32
	DisasterMessagesOffset uint32
	MessageFilesOffset     uint32
	ReadableFilesOffset    uint32
	RequirementsOffset     uint32
	MetalanguagesOffset    uint32
	ChildBopsOffset        uint32
	ParentBopsOffset       uint32
	InternalBopsOffset     uint32
	ModulesOffset          uint32

	NMetalanguages    uint8
	NChildBops        uint8
	NParentBops       uint8
	NInternalBops     uint8
	NModules          uint8
	NRequirements     uint8
	NMessages         uint8
	NDisasterMessages uint8
	NMessageFiles     uint8
	NReadableFiles    uint8
	NRegions          uint8
	NDevices          uint8
	NRanks            uint8
	NProvides         uint8
}

// RequirementEntry is one row of a driver's embedded requirements table,
// stored in driver-data.zudi-index.
type RequirementEntry struct {
	Version    uint32
	NameOffset uint32
}

// MetalanguageEntry is one row of a driver's embedded metalanguage table.
type MetalanguageEntry struct {
	Index      uint16
	NameOffset uint32
}

// ChildBopEntry describes one child_bind_ops statement. It carries no
// strings.
type ChildBopEntry struct {
	MetaIndex   uint16
	RegionIndex uint16
	OpsIndex    uint16
}

// ParentBopEntry describes one parent_bind_ops statement.
type ParentBopEntry struct {
	MetaIndex   uint16
	RegionIndex uint16
	OpsIndex    uint16
	BindCbIndex uint16
}

// InternalBopEntry describes one internal_bind_ops statement.
type InternalBopEntry struct {
	MetaIndex   uint16
	RegionIndex uint16
	Ops0Index   uint16
	Ops1Index   uint16
	BindCbIndex uint16
}

// ModuleEntry is one row of a driver's embedded modules table.
type ModuleEntry struct {
	Index          uint16
	FileNameOffset uint32
}

// Region is one row of regions.zudi-index.
type Region struct {
	DriverID    uint32
	Index       uint16
	ModuleIndex uint16
	Priority    RegionPriority
	Latency     RegionLatency
	Flags       uint32
}

// Message is one row of messages.zudi-index.
type Message struct {
	DriverID   uint32
	Index      uint16
	TextOffset uint32
}

// DisasterMessage is one row of disaster-messages.zudi-index.
type DisasterMessage struct {
	DriverID   uint32
	Index      uint16
	TextOffset uint32
}

// MessageFile is one row of message-files.zudi-index.
type MessageFile struct {
	DriverID       uint32
	Index          uint16
	FileNameOffset uint32
}

// ReadableFile is one row of readable-files.zudi-index. DriverID is a
// full uint32, matching every other record type.
type ReadableFile struct {
	DriverID       uint32
	Index          uint16
	FileNameOffset uint32
}

// Provision is one row of provisions.zudi-index.
type Provision struct {
	DriverID   uint32
	Version    uint32
	NameOffset uint32
}

// DeviceHeader begins each device record in devices.zudi-index.
// AttrOffset is the byte offset, within devices.zudi-index, of this
// device's first DeviceAttribute row (see DESIGN.md for why this points
// into devices.zudi-index rather than driver-data.zudi-index).
type DeviceHeader struct {
	DriverID     uint32
	Index        uint16
	MessageIndex uint16
	MetaIndex    uint16
	NAttributes  uint8
	AttrOffset   uint32
}

// DeviceAttribute is one attribute row following a DeviceHeader.
// ValueOffset holds a strings-pool offset for AttrString (NUL-terminated
// text) and AttrArray8 (raw bytes, length Size). ValueScalar holds the
// packed value for AttrUbit32 and AttrBool.
type DeviceAttribute struct {
	Type        AttrType
	Size        uint8
	NameOffset  uint32
	ValueOffset uint32
	ValueScalar uint32
}

// RankHeader begins each rank record in ranks.zudi-index.
type RankHeader struct {
	DriverID    uint32
	NAttributes uint8
	Rank        uint8
}

// RankAttribute is one attribute row following a RankHeader.
type RankAttribute struct {
	NameOffset uint32
}
