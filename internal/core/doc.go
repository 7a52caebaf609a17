// Package core is the filter-and-view-selection engine of the college explorer.
//
// This package holds all domain logic independent of any UI, renderer or
// data source. It can be used by web handlers, the command-line explorer, or
// tests without modification.
//
// # Architecture
//
// One interaction is one synchronous pass through a fixed pipeline:
//
//  1. [ResolveScope] picks the working dataset: the institution table, or
//     institutions inner-joined with the selected program rows.
//  2. [Classify] partitions the working columns into numeric and
//     non-numeric sets.
//  3. [Defaults] supplies per-scope starting selections; the [Explorer]
//     validates user overrides against the schema and resets invalid ones.
//  4. [ApplyFilters] keeps rows passing two numeric ranges and one
//     case-insensitive substring constraint.
//  5. [Project] builds the per-mode [RenderPlan] handed to renderers.
//
// # Tables
//
// A [Table] is immutable. Every stage returns a new table, so the loaded
// dataset can be shared by concurrent passes without locking.
//
// # Error Handling
//
// Problems are sorted into three classes:
//
//   - Input (INP001-INP002): malformed range or scale text. A [Notice] is
//     recorded and a substitute value used.
//   - Configuration (CFG001-CFG003): a selection naming an absent or
//     wrong-class column. A [Notice] is recorded and the default used.
//   - Fatal: no source could provide a required table. Startup aborts.
//
// Technical errors are mapped to user-friendly messages using [MapError].
package core
