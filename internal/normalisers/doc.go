// Package normalisers turns raw source bytes into documents.
//
// plaintext decodes a configured source encoding into normalised UTF-8 text.
// frontmatter splits content files and metadata files into attributes and content.
package normalisers
