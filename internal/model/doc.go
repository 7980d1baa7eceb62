// Package model defines the progress catalog entities: courses, modules and
// lessons. Entities own their children in dense, zero-based order and report
// their own completion by probing a backing store for completion markers.
// Completion is always derived on demand and never stored.
package model
