// Package catalog tracks the progress of a resumable bulk download.
//
// A Catalog owns an ordered list of courses, each owning its modules, each
// owning its lessons. Callers register items as they discover them and ask
// the catalog which item to fetch next; the answer is always the first
// incomplete item in ascending order, so an interrupted job resumes where it
// stopped. Every mutation is followed by a full rewrite of the catalog
// document through the configured Store.
//
// A Catalog is not safe for concurrent use.
package catalog
