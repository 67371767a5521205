// Copyright 2026 The zudiindex Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package zudiprops

// Result classifies the outcome of parsing one logical line. The first
// four variants are "bad": they abort ingestion of the current driver.
type Result int

const (
	ResultUnknown Result = iota
	ResultInvalid
	ResultOverflow
	ResultLimitExceeded

	ResultMisc
	ResultDriver
	ResultModule
	ResultRegion
	ResultDevice
	ResultMessage
	ResultDisasterMessage
	ResultMessageFile
	ResultChildBops
	ResultParentBops
	ResultInternalBops
	ResultMetalanguage
	ResultReadableFile
)

// IsBad reports whether r aborts ingestion of the current driver.
func (r Result) IsBad() bool {
	return r == ResultUnknown || r == ResultInvalid || r == ResultOverflow || r == ResultLimitExceeded
}

func (r Result) String() string {
	switch r {
	case ResultUnknown:
		return "unknown"
	case ResultInvalid:
		return "invalid"
	case ResultOverflow:
		return "overflow"
	case ResultLimitExceeded:
		return "limit_exceeded"
	case ResultMisc:
		return "misc"
	case ResultDriver:
		return "driver"
	case ResultModule:
		return "module"
	case ResultRegion:
		return "region"
	case ResultDevice:
		return "device"
	case ResultMessage:
		return "message"
	case ResultDisasterMessage:
		return "disaster_message"
	case ResultMessageFile:
		return "message_file"
	case ResultChildBops:
		return "child_bops"
	case ResultParentBops:
		return "parent_bops"
	case ResultInternalBops:
		return "internal_bops"
	case ResultMetalanguage:
		return "metalanguage"
	case ResultReadableFile:
		return "readable_file"
	default:
		return "unknown"
	}
}
