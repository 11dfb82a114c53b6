// Package metadata selects metadata decoders by file extension.
//
// Decoders live in subpackages:
//   - yaml: goccy/go-yaml with ordered mappings, also used for embedded front matter
//   - toml: pelletier/go-toml/v2 for .toml metadata files
package metadata
