// Copyright 2026 The zudiindex Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package zudiprops

import (
	"strings"
	"testing"

	"github.com/latentprion/zudiindex/zudiindex/zudifmt"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s, err := NewSession(1, "/driver/path")
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

func TestParseLineKeywordOrdering(t *testing.T) {
	// message_file begins with the shorter message keyword; it must still
	// route to parseMessageFile, never to parseMessage.
	s := newTestSession(t)
	result, _ := s.ParseLine("message_file en_US.strings")
	if result != ResultMessageFile {
		t.Fatalf("message_file: got %s, want %s", result, ResultMessageFile)
	}
	if len(s.Messages) != 0 {
		t.Fatalf("message_file must not append to Messages, got %d entries", len(s.Messages))
	}
	if len(s.MessageFiles) != 1 || s.MessageFiles[0].FileName != "en_US.strings" {
		t.Fatalf("unexpected MessageFiles: %+v", s.MessageFiles)
	}
}

func TestParseMessageAndDisasterMessage(t *testing.T) {
	s := newTestSession(t)

	result, _ := s.ParseLine("message 1 hello world")
	if result != ResultMessage {
		t.Fatalf("message: got %s", result)
	}
	if len(s.Messages) != 1 || s.Messages[0].Index != 1 || s.Messages[0].Text != "hello world" {
		t.Fatalf("unexpected Messages: %+v", s.Messages)
	}

	result, _ = s.ParseLine("disaster_message 2 out of memory")
	if result != ResultDisasterMessage {
		t.Fatalf("disaster_message: got %s", result)
	}
	if len(s.DisasterMessages) != 1 || s.DisasterMessages[0].Index != 2 {
		t.Fatalf("unexpected DisasterMessages: %+v", s.DisasterMessages)
	}
	if len(s.Messages) != 1 {
		t.Fatalf("disaster_message must not also append to Messages")
	}
}

func TestReadableFileDoesNotBecomeDisasterMessage(t *testing.T) {
	// readable_file must land in the readable-files list, never in the
	// disaster-message table.
	s := newTestSession(t)
	result, _ := s.ParseLine("readable_file license.txt")
	if result != ResultReadableFile {
		t.Fatalf("readable_file: got %s, want %s", result, ResultReadableFile)
	}
	if len(s.DisasterMessages) != 0 {
		t.Fatalf("readable_file must not append to DisasterMessages")
	}
	if len(s.ReadableFiles) != 1 || s.ReadableFiles[0].FileName != "license.txt" {
		t.Fatalf("unexpected ReadableFiles: %+v", s.ReadableFiles)
	}
}

func TestParseRequiresUDI(t *testing.T) {
	s := newTestSession(t)
	result, _ := s.ParseLine("requires udi 0x0101")
	if result != ResultDriver {
		t.Fatalf("requires udi: got %s", result)
	}
	if !s.Header.HasRequiresUDI {
		t.Fatal("HasRequiresUDI not set")
	}
	if s.Header.RequiredUDIVersion != 0x0101 {
		t.Fatalf("RequiredUDIVersion = %#x", s.Header.RequiredUDIVersion)
	}
	if len(s.Requirements) != 0 {
		t.Fatalf("requires udi must not append a Requirement entry")
	}
}

func TestParseRequiresOrdinary(t *testing.T) {
	s := newTestSession(t)
	result, _ := s.ParseLine("requires udi_gio_provider 0x0100")
	if result != ResultDriver {
		t.Fatalf("requires: got %s", result)
	}
	if len(s.Requirements) != 1 || s.Requirements[0].Name != "udi_gio_provider" {
		t.Fatalf("unexpected Requirements: %+v", s.Requirements)
	}
}

func TestRequirementsLimitExceeded(t *testing.T) {
	s := newTestSession(t)
	for i := 0; i < 16; i++ {
		result, _ := s.ParseLine("requires mod 0x0100")
		if result != ResultDriver {
			t.Fatalf("requirement %d: got %s", i, result)
		}
	}
	result, _ := s.ParseLine("requires mod 0x0100")
	if result != ResultLimitExceeded {
		t.Fatalf("17th requirement: got %s, want %s", result, ResultLimitExceeded)
	}
}

func TestParentAndInternalBopsUseOwnCounters(t *testing.T) {
	// Exhaust the 8-entry parent_bind_ops capacity; this must not be
	// gated by nChildBops, which stays at zero throughout this test.
	s := newTestSession(t)
	for i := 0; i < zudifmt.MaxParentBops; i++ {
		if result, _ := s.ParseLine("parent_bind_ops 1 0 1 0"); result != ResultParentBops {
			t.Fatalf("parent_bind_ops %d: got %s", i, result)
		}
	}
	if result, _ := s.ParseLine("parent_bind_ops 1 0 1 0"); result != ResultLimitExceeded {
		t.Fatalf("9th parent_bind_ops: got %s, want %s", result, ResultLimitExceeded)
	}
	if len(s.ChildBops) != 0 {
		t.Fatalf("parent_bind_ops must not touch ChildBops")
	}

	// internal_bind_ops has its own, much larger cap and must still accept
	// entries even though ParentBops is already exhausted.
	if result, _ := s.ParseLine("internal_bind_ops 1 0 1 2 0"); result != ResultInternalBops {
		t.Fatalf("internal_bind_ops: got %s", result)
	}
}

func TestParseDevice(t *testing.T) {
	s := newTestSession(t)
	result, _ := s.ParseLine("device 1 2 busType string pci speed ubit32 0x4 removable boolean t")
	if result != ResultDevice {
		t.Fatalf("device: got %s", result)
	}
	if len(s.Devices) != 1 {
		t.Fatalf("unexpected Devices: %+v", s.Devices)
	}
	dev := s.Devices[0]
	if dev.MessageIndex != 1 || dev.MetaIndex != 2 {
		t.Fatalf("unexpected device header: %+v", dev)
	}
	if len(dev.Attributes) != 3 {
		t.Fatalf("unexpected attribute count: %d", len(dev.Attributes))
	}
	if dev.Attributes[0].StringValue != "pci" {
		t.Errorf("attribute 0: %+v", dev.Attributes[0])
	}
	if dev.Attributes[1].Ubit32Value != 4 {
		t.Errorf("attribute 1: %+v", dev.Attributes[1])
	}
	if !dev.Attributes[2].BoolValue {
		t.Errorf("attribute 2: %+v", dev.Attributes[2])
	}
}

func TestParseDeviceArrayAttribute(t *testing.T) {
	s := newTestSession(t)
	result, _ := s.ParseLine("device 1 2 mac array deadbeef")
	if result != ResultDevice {
		t.Fatalf("device: got %s", result)
	}
	got := s.Devices[0].Attributes[0].Array8Value
	want := []byte{0xde, 0xad, 0xbe, 0xef}
	if string(got) != string(want) {
		t.Errorf("array attribute = %x, want %x", got, want)
	}
}

func TestSealedSessionIgnoresParseLine(t *testing.T) {
	s := newTestSession(t)
	s.Seal()
	result, rec := s.ParseLine("message 1 hello")
	if result != ResultUnknown || rec != nil {
		t.Fatalf("sealed session accepted a line: %s, %+v", result, rec)
	}
}

func TestUnknownKeywordIsBad(t *testing.T) {
	s := newTestSession(t)
	result, _ := s.ParseLine("not_a_real_keyword foo")
	if !result.IsBad() || result != ResultUnknown {
		t.Fatalf("got %s, want unknown/bad", result)
	}
}

func TestMiscKeywordsAreAccepted(t *testing.T) {
	s := newTestSession(t)
	for _, line := range []string{
		"custom foo",
		"locale en_US",
		"properties_version 2",
		"multi_parent t",
	} {
		if result, _ := s.ParseLine(line); result != ResultMisc {
			t.Errorf("%q: got %s, want %s", line, result, ResultMisc)
		}
	}
}

func TestShortNameLengthLimit(t *testing.T) {
	s := newTestSession(t)
	longest := strings.Repeat("x", 15)
	if result, _ := s.ParseLine("shortname " + longest); result != ResultDriver {
		t.Fatalf("15-byte shortname: got %s, want %s", result, ResultDriver)
	}
	if s.Header.ShortName != longest {
		t.Fatalf("ShortName = %q", s.Header.ShortName)
	}
	tooLong := strings.Repeat("x", 16)
	if result, _ := s.ParseLine("shortname " + tooLong); result != ResultInvalid {
		t.Fatalf("16-byte shortname: got %s, want %s", result, ResultInvalid)
	}
}

func TestMessageIndexZeroRejected(t *testing.T) {
	s := newTestSession(t)
	if result, _ := s.ParseLine("message 0 never"); result != ResultInvalid {
		t.Fatalf("message index 0: got %s, want %s", result, ResultInvalid)
	}
	if result, _ := s.ParseLine("message 1 fine"); result != ResultMessage {
		t.Fatalf("message index 1: got %s, want %s", result, ResultMessage)
	}
}

func TestMessageTextLengthLimit(t *testing.T) {
	s := newTestSession(t)
	ok := strings.Repeat("m", zudifmt.MessageMaxLen-1)
	if result, _ := s.ParseLine("message 1 " + ok); result != ResultMessage {
		t.Fatalf("149-byte message text: got %s, want %s", result, ResultMessage)
	}
	bad := strings.Repeat("m", zudifmt.MessageMaxLen)
	if result, _ := s.ParseLine("message 2 " + bad); result != ResultInvalid {
		t.Fatalf("150-byte message text: got %s, want %s", result, ResultInvalid)
	}
}

func TestRegionRequiresPriorModule(t *testing.T) {
	s := newTestSession(t)
	if result, _ := s.ParseLine("region 0 type normal"); result != ResultInvalid {
		t.Fatalf("region before any module: got %s, want %s", result, ResultInvalid)
	}
	if result, _ := s.ParseLine("module mydrv.so"); result != ResultDriver {
		t.Fatal("module line rejected")
	}
	result, _ := s.ParseLine("region 0 type normal priority med")
	if result != ResultRegion {
		t.Fatalf("region after module: got %s, want %s", result, ResultRegion)
	}
	r := s.Regions[0]
	if r.ModuleIndex != 0 || r.Priority != zudifmt.RegionPriorityMedium || r.Flags != 0 {
		t.Fatalf("unexpected region: %+v", r)
	}
}

func TestDeviceArrayOddHexLengthRejected(t *testing.T) {
	s := newTestSession(t)
	if result, _ := s.ParseLine("device 1 2 cap array abc"); result != ResultInvalid {
		t.Fatalf("odd-length array hex: got %s, want %s", result, ResultInvalid)
	}
	if result, _ := s.ParseLine("device 1 2 cap array zz"); result != ResultInvalid {
		t.Fatalf("non-hex array digits: got %s, want %s", result, ResultInvalid)
	}
}

func TestDeviceIndexZeroRejected(t *testing.T) {
	s := newTestSession(t)
	if result, _ := s.ParseLine("device 0 2"); result != ResultInvalid {
		t.Fatalf("device message index 0: got %s, want %s", result, ResultInvalid)
	}
	if result, _ := s.ParseLine("device 1 0"); result != ResultInvalid {
		t.Fatalf("device meta index 0: got %s, want %s", result, ResultInvalid)
	}
}
