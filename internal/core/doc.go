// Package core provides the cleaning logic for tabular job datasets.
//
// This package contains all domain logic independent of the command line.
// It can be used by the CLI, other tools, or tests without modification.
//
// # Architecture
//
// A run moves one in-memory [Table] through fixed stages:
//
//  1. [LoadTable] reads a CSV file, strips a BOM, sanitizes UTF-8 and infers
//     each column's [Kind] (numeric or categorical) once.
//  2. [Inspect] summarizes the table: shape, missing cells per column,
//     duplicate rows. It never mutates.
//  3. [Cleaner.Clean] deduplicates, imputes (median for numeric, mode for
//     categorical), finalizes categorical domains and converts date-named
//     columns to timestamps.
//  4. [WriteTable] writes the result atomically.
//
// [Run] sequences all of the above for the CLI.
//
// # Cells
//
// Missing values are explicit: numeric cells are decimal.NullDecimal,
// categorical cells pgtype.Text and temporal cells pgtype.Timestamp, each
// with Valid=false for a missing value. Stages switch on Column.Kind instead
// of probing cell types.
//
// # Error Handling
//
// [LoadTable] returns *[SourceNotFoundError] and [WriteTable] returns
// *[DestinationWriteError]. Temporal parse failures are handled per column
// and never returned. [MapError] turns errors into coded user messages.
package core
