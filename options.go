package facsimile

import "github.com/facsimile-dev/facsimile/validate"

// convertOptions carries the knobs of a conversion run. The zero value is
// never used directly; defaultOptions supplies the baseline and the
// Converter's configuration methods adjust a copy.
type convertOptions struct {
	outputPath string
	workDir    string
	workers    int
	validate   bool
	includeNav bool
	includeNCX bool

	// textThreshold is the fraction of source text that must survive into
	// the package before validation records a fidelity warning.
	textThreshold float64
}

func defaultOptions() convertOptions {
	return convertOptions{
		workers:       1,
		validate:      true,
		includeNav:    true,
		includeNCX:    true,
		textThreshold: validate.DefaultTextThreshold,
	}
}
