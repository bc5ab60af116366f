// Package core provides the processing pipeline for categorized extracts.
//
// This package holds all domain logic independent of transport or storage.
// It is used by the web server, the CLI and tests without modification.
//
// # Architecture
//
// The package is organized around several key concepts:
//
//   - Categories: registered via the registry, each [Category] names its
//     reader, typed columns, natural key and optional hooks.
//   - Semantic types: [BoundedText], [DecimalNumber], [FloatingNumber],
//     [CalendarDate] and [Categorical] check, remediate and convert cells.
//   - Tables: a [Table] is an immutable frame tagged with its category.
//   - Processor: runs a table through selection, typing, hooks and key checks.
//   - Service: the entry point that decompresses, processes, archives and
//     loads inputs, one run at a time or from an inbox.
//
// # Category Registry
//
// Categories are registered at init time using [Register]:
//
//	core.Register(core.Category{
//	    Name:       "TMCO",
//	    Group:      "EBCDIC",
//	    Read:       layout.ReadFunc(),
//	    Columns:    []core.ColumnSpec{{Name: "societa", Type: core.BoundedText{MaxLength: 2}}},
//	    NaturalKey: []string{"societa"},
//	})
//
// # Pipeline
//
//  1. Select the required columns; a missing one is a [SchemaError]
//  2. Type every column, remediating when enabled; leftovers are a [ValidationError]
//  3. Run the pre-check, transform and natural key check
//  4. Run the post-check
//
// Category hooks reject data with a [DomainError] and report soft problems
// through [Notes].
//
// # Error Handling
//
// Technical errors are mapped to coded, user-facing messages using [MapError]:
//
//   - FMT001-FMT003: binary record decoding
//   - SCH001: missing columns
//   - VAL001-VAL004: typing, key and overlap violations
//   - DOM001, CAT001-CAT002: category rules and lookups
//   - FILE001-FILE003, RUN001-RUN003: inputs and runs
package core
