// Package epubdoc provides read access to EPUB containers for inspection.
//
// Unlike a reading system, the accessors here are built for verification:
// opening succeeds for any readable archive, and structural defects (a
// wrong or misplaced mimetype marker, a missing container.xml, a malformed
// package document) are reported by the accessor that encounters them, so
// a caller can collect every problem in one pass.
package epubdoc
