// Package download drives a resumable bulk download over the progress
// catalog. It enumerates items through a Source, registers them in the
// catalog, fetches lessons through a Fetcher and always asks the catalog what
// to fetch next, so a re-run after an interruption continues where the
// previous run stopped.
package download
