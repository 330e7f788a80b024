// Package validate verifies a generated fixed-layout package against the
// source document it was converted from.
//
// Checks run in a fixed order: output existence, container structure, page
// count, image preservation, text fidelity, and package validity. Each
// check records a result; defects land in the report as issues (failing
// the run) or warnings (degradations a reader may accept). Text loss is
// always a warning, never an issue, because image-only sources are
// legitimate.
package validate
