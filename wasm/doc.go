// Package wasm provides the WebAssembly binary primitives needed to build
// and inspect memory-image modules: modules whose only purpose is to
// declare a linear memory, export it, and fill it from a data segment.
//
// # Encoding
//
//	m := &wasm.Module{
//	    Memories: []wasm.MemoryType{{Limits: wasm.Limits{Min: 1}}},
//	    Exports:  []wasm.Export{{Name: "mem", Kind: wasm.KindMemory}},
//	    Data: []wasm.DataSegment{{
//	        Flags:  wasm.DataActive,
//	        Offset: wasm.I32ConstExpr(0),
//	        Init:   payload,
//	    }},
//	}
//	encoded := m.Encode()
//
// # Parsing
//
//	m, err := wasm.ParseModule(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	exp, ok := m.ExportedMemory()
//
// ParseModule decodes memory, export, data and custom sections. Any other
// section is checked for ordering and length and then skipped; its ID is
// recorded in Module.Skipped. Data segment payloads are subslices of the
// input, so parsing a frame that embeds a large payload does not copy it.
//
// EncodeHead writes everything but the payload of the last data segment,
// whose declared length still counts it. Callers that already hold the
// payload append it instead of copying it into the Module.
package wasm
