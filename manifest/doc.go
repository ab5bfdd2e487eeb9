// Package manifest resolves which files go into a package.
//
// A manifest is YAML or JSON with comments:
//
//	root: assets
//	binary:
//	  - "img/**/*.png"
//	  - font.woff2
//	text:
//	  - "**/*.json"
//	output: dist/assets.wasm.br
//
// Inputs are paths or doublestar patterns relative to root. Entry names
// are the paths relative to root with '/' separators, and nothing outside
// root is accepted.
package manifest
