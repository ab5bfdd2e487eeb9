package frame_test

import (
	"encoding/binary"
	"errors"
	"strings"
	"testing"

	"github.com/wippyai/wasmpkg/container"
	wperrors "github.com/wippyai/wasmpkg/errors"
	"github.com/wippyai/wasmpkg/frame"
	"github.com/wippyai/wasmpkg/wasm"
)

func TestInspect(t *testing.T) {
	c := encode(t, new(container.Input).AddBinary("a.bin", []byte{0, 1, 2, 3}).AddText("b.txt", "hi"))
	f, err := frame.Wrap(c)
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}

	info, err := frame.Inspect(f)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if !info.Canonical {
		t.Error("Canonical = false for Wrap output")
	}
	if info.Pages != 1 {
		t.Errorf("Pages = %d, want 1", info.Pages)
	}
	if int(info.DataLen) != len(c)+4 {
		t.Errorf("DataLen = %d, want %d", info.DataLen, len(c)+4)
	}
	if info.HeaderSize+int(info.DataLen) != len(f) {
		t.Errorf("HeaderSize = %d, frame %d", info.HeaderSize, len(f))
	}
	if info.ExportName == "" || strings.Trim(info.ExportName, "a") != "" {
		t.Errorf("ExportName = %q", info.ExportName)
	}
	if string(info.Container) != string(c) {
		t.Error("Container mismatch")
	}
}

func segmentModule(init []byte, mutate func(*wasm.Module)) []byte {
	m := &wasm.Module{
		Memories: []wasm.MemoryType{{Limits: wasm.Limits{Min: 1}}},
		Exports:  []wasm.Export{{Name: "memory", Kind: wasm.KindMemory}},
		Data:     []wasm.DataSegment{{Flags: wasm.DataActive, Offset: wasm.I32ConstExpr(0), Init: init}},
	}
	if mutate != nil {
		mutate(m)
	}
	return m.Encode()
}

func withTrailer(c []byte) []byte {
	return binary.LittleEndian.AppendUint32(append([]byte(nil), c...), uint32(len(c)+4))
}

func TestInspectNonCanonical(t *testing.T) {
	c := encode(t, new(container.Input).AddText("x", "y"))
	info, err := frame.Inspect(segmentModule(withTrailer(c), nil))
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if info.Canonical {
		t.Error("Canonical = true for a module with a different export name")
	}
	if info.ExportName != "memory" {
		t.Errorf("ExportName = %q", info.ExportName)
	}
	if string(info.Container) != string(c) {
		t.Error("Container mismatch")
	}
}

func TestInspectRejects(t *testing.T) {
	c := encode(t, new(container.Input).AddText("x", "y"))
	good := withTrailer(c)

	tests := []struct {
		name  string
		frame []byte
	}{
		{"not wasm", []byte("definitely not a module")},
		{"no memory", segmentModule(good, func(m *wasm.Module) { m.Memories = nil })},
		{"memory not exported", segmentModule(good, func(m *wasm.Module) { m.Exports = nil })},
		{"no segment", segmentModule(good, func(m *wasm.Module) { m.Data = nil })},
		{"passive segment", segmentModule(good, func(m *wasm.Module) {
			m.Data[0].Flags = wasm.DataPassive
			m.Data[0].Offset = nil
		})},
		{"nonzero offset", segmentModule(good, func(m *wasm.Module) { m.Data[0].Offset = wasm.I32ConstExpr(8) })},
		{"bad trailer", segmentModule(append(append([]byte(nil), c...), 1, 0, 0, 0), nil)},
		{"too few pages", segmentModule(withTrailer(make([]byte, 65536)), nil)},
	}

	target := &wperrors.Error{Phase: wperrors.PhaseDecode, Kind: wperrors.KindInvalidData}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := frame.Inspect(tt.frame)
			if !errors.Is(err, target) {
				t.Errorf("got %v, want invalid data", err)
			}
		})
	}
}
