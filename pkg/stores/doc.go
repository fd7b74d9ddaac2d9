// Package stores provides the input and report storage used by the batch
// runner. FileStore reads machine records from one directory, writes one
// "<stem>_result.txt" report per record into another, and can watch the
// input directory for changes.
package stores
