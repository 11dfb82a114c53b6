// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - MetadataDecoder: Decodes a metadata block into an ordered mapping
//   - DecoderRegistry: Selects a decoder by metadata file extension
//   - DocumentParser: Splits a file pair into attributes and content
//   - Checksummer: Digests content and attributes independently
//   - Collector: Walks a root and returns enriched items
//   - ChangeWatcher: Starts change streams over a root
//   - ManifestStore: Persists recorded checksums
//   - ConfigStore: Site configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
