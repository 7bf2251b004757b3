// Package session provides the data model and parsers for AI coding
// assistant session logs.
//
// Two source formats are supported: the line-delimited JSONL format
// written by Claude Code (one entry per line, linked through parentUuid
// back-references) and the single-document JSON format written by the
// VS Code chat extension (one object with a requests array).
//
// Every parsed entry retains its source bytes. Transformations edit
// those bytes in place with targeted sjson operations, so records the
// engine never touched serialize byte-identical to the input and
// unknown fields survive a full parse/serialize round trip.
package session
