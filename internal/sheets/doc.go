// Package sheets provides worksheet access for song rows.
//
// The [Worksheet] interface models a rectangular sheet with a header row:
// read the headers, read all records as maps, batch-write a range back,
// and append missing columns. Two backends implement it:
//
// [GoogleWorksheet] talks to the Sheets v4 and Drive v3 REST APIs with a
// service-account JWT. Spreadsheets are opened by NAME via a Drive file
// search, worksheets by title or numeric index. Calls go through a rate
// limiter since the Sheets API is quota limited.
//
// [SQLiteWorksheet] stores a worksheet as a local SQLite table, one TEXT
// column per header, ordered by rowid. It backs offline runs and tests.
package sheets
