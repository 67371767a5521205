// Copyright 2026 The zudiindex Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package zudiprops

import (
	"strings"

	"github.com/latentprion/zudiindex/zudiindex/zudifmt"
)

func fitsUint16(v uint64) bool { return v <= 0xFFFF }

// --- message / disaster_message -------------------------------------

func (s *Session) parseMessage(rest string) (Result, interface{}) {
	tok, text := splitToken(rest)
	idx, ok := parsePositiveUint10(tok)
	if !ok {
		return ResultInvalid, nil
	}
	if !fitsUint16(idx) {
		return ResultOverflow, nil
	}
	if len(text) >= zudifmt.MessageMaxLen {
		return ResultInvalid, nil
	}
	rec := Message{DriverID: s.Header.ID, Index: uint16(idx), Text: text}
	s.Messages = append(s.Messages, rec)
	return ResultMessage, &s.Messages[len(s.Messages)-1]
}

func (s *Session) parseDisasterMessage(rest string) (Result, interface{}) {
	tok, text := splitToken(rest)
	idx, ok := parsePositiveUint10(tok)
	if !ok {
		return ResultInvalid, nil
	}
	if !fitsUint16(idx) {
		return ResultOverflow, nil
	}
	if len(text) >= zudifmt.MessageMaxLen {
		return ResultInvalid, nil
	}
	rec := DisasterMessage{DriverID: s.Header.ID, Index: uint16(idx), Text: text}
	s.DisasterMessages = append(s.DisasterMessages, rec)
	return ResultDisasterMessage, &s.DisasterMessages[len(s.DisasterMessages)-1]
}

// --- message_file / readable_file -------------------------------------

func (s *Session) parseMessageFile(rest string) (Result, interface{}) {
	tok, _ := splitToken(rest)
	if tok == "" || len(tok) >= zudifmt.FileNameMaxLen || strings.Contains(tok, "/") {
		return ResultInvalid, nil
	}
	rec := MessageFile{DriverID: s.Header.ID, Index: uint16(len(s.MessageFiles)), FileName: tok}
	s.MessageFiles = append(s.MessageFiles, rec)
	return ResultMessageFile, &s.MessageFiles[len(s.MessageFiles)-1]
}

func (s *Session) parseReadableFile(rest string) (Result, interface{}) {
	tok, _ := splitToken(rest)
	if tok == "" || len(tok) >= zudifmt.FileNameMaxLen || strings.Contains(tok, "/") {
		return ResultInvalid, nil
	}
	rec := ReadableFile{DriverID: s.Header.ID, Index: uint16(len(s.ReadableFiles)), FileName: tok}
	s.ReadableFiles = append(s.ReadableFiles, rec)
	return ResultReadableFile, &s.ReadableFiles[len(s.ReadableFiles)-1]
}

// --- shortname / supplier / contact / name / release ------------------

func (s *Session) parseShortName(rest string) (Result, interface{}) {
	tok, _ := splitToken(rest)
	if tok == "" || len(tok) >= zudifmt.ShortNameMaxLen {
		return ResultInvalid, nil
	}
	s.Header.ShortName = tok
	return ResultDriver, &s.Header
}

func (s *Session) parseSupplier(rest string) (Result, interface{}) {
	return s.parseIndexField(rest, &s.Header.SupplierIndex)
}

func (s *Session) parseContact(rest string) (Result, interface{}) {
	return s.parseIndexField(rest, &s.Header.ContactIndex)
}

func (s *Session) parseName(rest string) (Result, interface{}) {
	return s.parseIndexField(rest, &s.Header.NameIndex)
}

func (s *Session) parseIndexField(rest string, field *uint16) (Result, interface{}) {
	tok, _ := splitToken(rest)
	v, ok := parsePositiveUint10(tok)
	if !ok {
		return ResultInvalid, nil
	}
	if !fitsUint16(v) {
		return ResultOverflow, nil
	}
	*field = uint16(v)
	return ResultDriver, &s.Header
}

func (s *Session) parseRelease(rest string) (Result, interface{}) {
	idxTok, rest := splitToken(rest)
	idx, ok := parsePositiveUint10(idxTok)
	if !ok {
		return ResultInvalid, nil
	}
	if !fitsUint16(idx) {
		return ResultOverflow, nil
	}
	relTok, _ := splitToken(rest)
	if relTok == "" || len(relTok) >= zudifmt.ReleaseMaxLen {
		return ResultInvalid, nil
	}
	s.Header.ReleaseStringIndex = uint16(idx)
	s.Header.ReleaseString = relTok
	return ResultDriver, &s.Header
}

// --- requires -----------------------------------------------------------

func (s *Session) parseRequires(rest string) (Result, interface{}) {
	nameTok, rest := splitToken(rest)
	verTok, _ := splitToken(rest)
	if nameTok == "" || verTok == "" {
		return ResultInvalid, nil
	}
	version, ok := parseHex32(verTok)
	if !ok {
		return ResultInvalid, nil
	}
	if nameTok == "udi" {
		s.Header.HasRequiresUDI = true
		s.Header.RequiredUDIVersion = version
		return ResultDriver, &s.Header
	}
	if len(s.Requirements) >= zudifmt.MaxRequirements {
		return ResultLimitExceeded, nil
	}
	if len(nameTok) >= zudifmt.RequirementMaxLen {
		return ResultInvalid, nil
	}
	rec := Requirement{Version: version, Name: nameTok}
	s.Requirements = append(s.Requirements, rec)
	return ResultDriver, &s.Requirements[len(s.Requirements)-1]
}

// --- meta -----------------------------------------------------------------

func (s *Session) parseMeta(rest string) (Result, interface{}) {
	idxTok, rest := splitToken(rest)
	nameTok, _ := splitToken(rest)
	idx, ok := parsePositiveUint10(idxTok)
	if !ok {
		return ResultInvalid, nil
	}
	if !fitsUint16(idx) {
		return ResultOverflow, nil
	}
	if nameTok == "" || len(nameTok) >= zudifmt.MetalanguageMaxLen {
		return ResultInvalid, nil
	}
	if len(s.Metalanguages) >= zudifmt.MaxMetalanguages {
		return ResultLimitExceeded, nil
	}
	rec := Metalanguage{Index: uint16(idx), Name: nameTok}
	s.Metalanguages = append(s.Metalanguages, rec)
	return ResultMetalanguage, &s.Metalanguages[len(s.Metalanguages)-1]
}

// --- module -----------------------------------------------------------------

func (s *Session) parseModule(rest string) (Result, interface{}) {
	if len(s.Modules) >= zudifmt.MaxModules {
		return ResultLimitExceeded, nil
	}
	tok, _ := splitToken(rest)
	if tok == "" || len(tok) >= zudifmt.FileNameMaxLen {
		return ResultInvalid, nil
	}
	rec := Module{Index: uint16(len(s.Modules)), FileName: tok}
	s.Modules = append(s.Modules, rec)
	return ResultDriver, &s.Modules[len(s.Modules)-1]
}

// --- region -----------------------------------------------------------------

func (s *Session) parseRegion(rest string) (Result, interface{}) {
	if len(s.Modules) == 0 {
		return ResultInvalid, nil
	}
	idxTok, rest := splitToken(rest)
	idx, ok := parseUint10(idxTok)
	if !ok {
		return ResultInvalid, nil
	}
	if !fitsUint16(idx) {
		return ResultOverflow, nil
	}

	region := Region{
		DriverID:    s.Header.ID,
		Index:       uint16(idx),
		ModuleIndex: uint16(len(s.Modules) - 1),
	}

	for rest != "" {
		var kw string
		kw, rest = splitToken(rest)
		switch kw {
		case "type":
			var val string
			val, rest = splitToken(rest)
			switch val {
			case "normal":
			case "fp":
				region.Flags |= zudifmt.RegionFlagFP
			case "interrupt":
				region.Flags |= zudifmt.RegionFlagInterrupt
			default:
				return ResultInvalid, nil
			}
		case "binding":
			var val string
			val, rest = splitToken(rest)
			switch val {
			case "static":
			case "dynamic":
				region.Flags |= zudifmt.RegionFlagDynamic
			default:
				return ResultInvalid, nil
			}
		case "priority":
			var val string
			val, rest = splitToken(rest)
			switch val {
			case "lo":
				region.Priority = zudifmt.RegionPriorityLow
			case "med":
				region.Priority = zudifmt.RegionPriorityMedium
			case "hi":
				region.Priority = zudifmt.RegionPriorityHigh
			default:
				return ResultInvalid, nil
			}
		case "latency", "overrun_time":
			// Accepted and silently ignored.
			_, rest = splitToken(rest)
		default:
			return ResultInvalid, nil
		}
	}

	s.Regions = append(s.Regions, region)
	return ResultRegion, &s.Regions[len(s.Regions)-1]
}

// --- bind ops -----------------------------------------------------------

func (s *Session) parseChildBops(rest string) (Result, interface{}) {
	if len(s.ChildBops) >= zudifmt.MaxChildBops {
		return ResultLimitExceeded, nil
	}
	var toks [3]string
	for i := range toks {
		toks[i], rest = splitToken(rest)
	}
	meta, ok1 := parsePositiveUint10(toks[0])
	region, ok2 := parseUint10(toks[1])
	ops, ok3 := parsePositiveUint10(toks[2])
	if !ok1 || !ok2 || !ok3 {
		return ResultInvalid, nil
	}
	if !fitsUint16(meta) || !fitsUint16(region) || !fitsUint16(ops) {
		return ResultOverflow, nil
	}
	rec := ChildBop{MetaIndex: uint16(meta), RegionIndex: uint16(region), OpsIndex: uint16(ops)}
	s.ChildBops = append(s.ChildBops, rec)
	return ResultChildBops, &s.ChildBops[len(s.ChildBops)-1]
}

func (s *Session) parseParentBops(rest string) (Result, interface{}) {
	if len(s.ParentBops) >= zudifmt.MaxParentBops {
		return ResultLimitExceeded, nil
	}
	var toks [4]string
	for i := range toks {
		toks[i], rest = splitToken(rest)
	}
	meta, ok1 := parsePositiveUint10(toks[0])
	region, ok2 := parseUint10(toks[1])
	ops, ok3 := parsePositiveUint10(toks[2])
	bindCb, ok4 := parseUint10(toks[3])
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return ResultInvalid, nil
	}
	if !fitsUint16(meta) || !fitsUint16(region) || !fitsUint16(ops) || !fitsUint16(bindCb) {
		return ResultOverflow, nil
	}
	rec := ParentBop{MetaIndex: uint16(meta), RegionIndex: uint16(region), OpsIndex: uint16(ops), BindCbIndex: uint16(bindCb)}
	s.ParentBops = append(s.ParentBops, rec)
	return ResultParentBops, &s.ParentBops[len(s.ParentBops)-1]
}

func (s *Session) parseInternalBops(rest string) (Result, interface{}) {
	if len(s.InternalBops) >= zudifmt.MaxInternalBops {
		return ResultLimitExceeded, nil
	}
	var toks [5]string
	for i := range toks {
		toks[i], rest = splitToken(rest)
	}
	meta, ok1 := parsePositiveUint10(toks[0])
	region, ok2 := parsePositiveUint10(toks[1])
	ops0, ok3 := parsePositiveUint10(toks[2])
	ops1, ok4 := parsePositiveUint10(toks[3])
	bindCb, ok5 := parseUint10(toks[4])
	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 {
		return ResultInvalid, nil
	}
	if !fitsUint16(meta) || !fitsUint16(region) || !fitsUint16(ops0) || !fitsUint16(ops1) || !fitsUint16(bindCb) {
		return ResultOverflow, nil
	}
	rec := InternalBop{
		MetaIndex: uint16(meta), RegionIndex: uint16(region),
		Ops0Index: uint16(ops0), Ops1Index: uint16(ops1), BindCbIndex: uint16(bindCb),
	}
	s.InternalBops = append(s.InternalBops, rec)
	return ResultInternalBops, &s.InternalBops[len(s.InternalBops)-1]
}

// --- device ---------------------------------------------------------------

func (s *Session) parseDevice(rest string) (Result, interface{}) {
	msgTok, rest := splitToken(rest)
	metaTok, rest := splitToken(rest)
	msgIdx, ok1 := parsePositiveUint10(msgTok)
	metaIdx, ok2 := parsePositiveUint10(metaTok)
	if !ok1 || !ok2 {
		return ResultInvalid, nil
	}
	if !fitsUint16(msgIdx) || !fitsUint16(metaIdx) {
		return ResultOverflow, nil
	}

	dev := Device{
		DriverID:     s.Header.ID,
		Index:        uint16(len(s.Devices)),
		MessageIndex: uint16(msgIdx),
		MetaIndex:    uint16(metaIdx),
	}

	for rest != "" {
		var nameTok, typeTok string
		nameTok, rest = splitToken(rest)
		if nameTok == "" || len(nameTok) >= zudifmt.AttrNameMaxLen {
			return ResultInvalid, nil
		}
		typeTok, rest = splitToken(rest)

		attr := Attribute{Name: nameTok}
		switch typeTok {
		case "string":
			var valTok string
			valTok, rest = splitToken(rest)
			if len(valTok) >= zudifmt.AttrValueMaxLen {
				return ResultInvalid, nil
			}
			attr.Type = zudifmt.AttrString
			attr.StringValue = valTok
		case "ubit32":
			var valTok string
			valTok, rest = splitToken(rest)
			v, ok := parseUintAuto(valTok)
			if !ok || v > 0xFFFFFFFF {
				return ResultInvalid, nil
			}
			attr.Type = zudifmt.AttrUbit32
			attr.Ubit32Value = uint32(v)
		case "boolean":
			var valTok string
			valTok, rest = splitToken(rest)
			switch valTok {
			case "t", "T":
				attr.Type = zudifmt.AttrBool
				attr.BoolValue = true
			case "f", "F":
				attr.Type = zudifmt.AttrBool
				attr.BoolValue = false
			default:
				return ResultInvalid, nil
			}
		case "array":
			var valTok string
			valTok, rest = splitToken(rest)
			data, ok := decodeHexBytes(valTok)
			if !ok || len(data) > zudifmt.AttrValueMaxLen {
				return ResultInvalid, nil
			}
			attr.Type = zudifmt.AttrArray8
			attr.Array8Value = data
		default:
			return ResultInvalid, nil
		}

		if len(dev.Attributes) >= zudifmt.MaxDeviceAttrs {
			return ResultLimitExceeded, nil
		}
		dev.Attributes = append(dev.Attributes, attr)
	}

	s.Devices = append(s.Devices, dev)
	return ResultDevice, &s.Devices[len(s.Devices)-1]
}

// decodeHexBytes decodes an even-length ASCII hex string into bytes,
// high nibble first. It rejects odd length or non-hex digits.
func decodeHexBytes(s string) ([]byte, bool) {
	if len(s)%2 != 0 {
		return nil, false
	}
	out := make([]byte, len(s)/2)
	for i := 0; i < len(out); i++ {
		hi, ok1 := hexDigit(s[2*i])
		lo, ok2 := hexDigit(s[2*i+1])
		if !ok1 || !ok2 {
			return nil, false
		}
		out[i] = hi<<4 | lo
	}
	return out, true
}

func hexDigit(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}
