// Package repositories implements SQLite persistence for run history.
//
// [RunRepository] records the outcome of every enrichment run so earlier
// runs can be inspected later from the CLI. Records are identified by
// UUID and ordered by completion time.
package repositories
