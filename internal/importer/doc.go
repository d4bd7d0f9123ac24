// Package importer turns folders and files into candidate movie titles and
// writes the library back out.
//
// Every source reduces to a list of raw strings that run through titleparse:
// a directory scan uses top-level folder names, a CSV file uses its "name"
// column (or the first column), and a Letterboxd export ZIP uses the
// Name/Year/Rating columns of ratings.csv. The result is a Batch holding the
// parsed entries and the strings that did not parse, ready for the caller to
// confirm and persist. Export writes CSV whose name column re-imports as-is,
// or JSON with the full records.
//
// All file access goes through an afero.Fs so tests can run against memory.
package importer
