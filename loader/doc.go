// Package loader opens stored artifacts through whichever path the host
// supports.
//
// Two strategies exist. NativeStrategy decompresses the artifact with a
// codec and finds the container from the frame's trailing length word,
// without parsing WebAssembly. InstanceStrategy compiles and instantiates
// the frame with wazero and decodes the container straight out of the
// module's linear memory, which the data segment has already filled.
//
// Select chooses between them from a Capabilities description, preferring
// the native path:
//
//	pkg, err := loader.Open(ctx, loader.FileSource("assets.wasm.br"),
//		loader.HostCapabilities(codec.Brotli))
//	if err != nil {
//		return err
//	}
//	defer pkg.Close(ctx)
//
//	logo, _ := pkg.Read("logo.png")
package loader
