// Package platform contains OS/platform integration glue: the filesystem
// completion probe, item folder naming, default directories and atomic file
// replacement used to persist the catalog document.
package platform
