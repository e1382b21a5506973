// Package bib reads, cleans and indexes BibTeX bibliographies.
//
// # Parsing
//
// Parse scans a .bib file for entries of the form
//
//	@type{key, field = value, ...}
//
// using brace-depth matching, so values containing nested braces such as
// {Springer {LLC}} never terminate an entry early. Each Entry keeps its raw
// text verbatim; cleaning a file therefore never reformats the entries it keeps.
//
// # Cleaning
//
// Clean groups entries whose normalized text (whitespace removed, lowercased)
// is identical and keeps the first of each group. Entries that share a key but
// differ in content are reported as conflicts and always kept.
//
// # Indexing
//
// BuildIndex extracts citation metadata (title, year, authors, venue) from the
// entries for the table generator and the claims verifier.
package bib
