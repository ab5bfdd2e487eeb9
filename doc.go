// Package wasmpkg packs many files into a single WebAssembly module and
// reads them back.
//
// The files are laid out in a compact container whose header is an array
// of 32-bit words: the file count, one attribute per file (kind in the top
// two bits, byte length in the low thirty) and one for the newline-joined
// name list that closes the container. Every entry starts on an 8-byte
// boundary. Text entries are stored as Latin-1 when every character fits
// in one byte and as UTF-16 otherwise.
//
// The container is then placed in the data segment of a minimal module
// that exports its memory, so a host can obtain the bytes either by
// decompressing the artifact and reading the last four bytes, or by
// instantiating the module and reading memory from offset 0.
//
// # Architecture Overview
//
//	wasmpkg/           Build and Open convenience functions
//	├── container/     Container encoding, decoding and chunked text decoding
//	├── frame/         Module frame construction and inspection
//	├── codec/         Compression schemes for stored artifacts
//	├── loader/        Host strategies for turning an artifact into a package
//	├── manifest/      Input file resolution for packing
//	├── wasm/          WebAssembly binary primitives
//	├── errors/        Structured error types
//	└── cmd/wasmpkg/   Command line tool
//
// # Quick Start
//
// Pack files:
//
//	var in container.Input
//	in.AddBinary("logo.png", png)
//	in.AddText("strings.json", js)
//
//	art, err := wasmpkg.Build(&in, codec.Brotli, codec.DefaultLevel)
//	if err != nil {
//		return err
//	}
//	os.WriteFile("assets.wasm.br", art.Data, 0o644)
//
// Read them back:
//
//	pkg, err := wasmpkg.Open(ctx, loader.FileSource("assets.wasm.br"), codec.Brotli)
//	if err != nil {
//		return err
//	}
//	defer pkg.Close(ctx)
//
//	v, err := pkg.Read("strings.json") // string
//	v, err = pkg.Read("logo.png")      // []byte
//	v, err = pkg.Read("missing")       // nil
package wasmpkg
