// Package fileutil provides small filesystem helpers shared across dbenv:
// directory creation and atomic file writes. Atomic writes go through a
// scratch file in the destination directory followed by a rename, so readers
// never observe a partially written file and failed writes leave nothing
// behind.
package fileutil
