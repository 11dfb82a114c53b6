// Package frontmatter splits source files into attributes and content.
//
// Three layouts are recognised, in this order:
//
//  1. Metadata only: a lone metadata file such as foo.yaml. Content is empty.
//  2. External pair: foo.html holds the content verbatim, foo.yaml the metadata.
//  3. Combined file: foo.html starts with a separator line of dashes,
//     followed by metadata, the same separator line again, then content.
//
// Input is normalised first: decoded from the configured encoding, a leading
// UTF-8 BOM removed, and \r\n or bare \r line endings converted to \n.
//
// An example combined file:
//
//	-----
//	title: Hello
//	-----
//	body text
package frontmatter
