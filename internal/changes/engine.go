// Package changes computes percentage changes of instrument values against
// earlier observations in a date-keyed series.
package changes

import (
	"MarketDigest/internal/model"
)

// Options configures one engine invocation.
type Options struct {
	Anchor  AnchorSelector
	Windows []Window
	Mode    WindowMode
	// Only restricts the record to these instruments when non-empty.
	Only []string
	// Instruments is display metadata copied into the result untouched.
	Instruments map[string]model.Instrument
}

func (o Options) withDefaults() Options {
	if o.Anchor == nil {
		o.Anchor = MostRecent{}
	}
	if len(o.Windows) == 0 {
		o.Windows = DefaultWindows
	}
	if o.Mode == "" {
		o.Mode = ModeEntries
	}
	return o
}

// Compute runs anchor selection and change calculation over s. Failures are
// reported in the result's status and error fields; it never panics on an
// empty or nil series.
func Compute(s *model.Series, opts Options) model.Result {
	opts = opts.withDefaults()
	anchor, err := opts.Anchor.SelectAnchor(s)
	if err != nil {
		return Failed(err)
	}
	return model.Result{
		Status:      model.StatusSuccess,
		Anchor:      anchor,
		Records:     Calculate(s, anchor, opts.Windows, opts.Mode, opts.Only),
		Instruments: opts.Instruments,
	}
}

// Evaluate is Compute for call sites that load the series themselves: a
// load error becomes an error result.
func Evaluate(s *model.Series, loadErr error, opts Options) model.Result {
	if loadErr != nil {
		return Failed(loadErr)
	}
	return Compute(s, opts)
}

// Failed converts err into the error result shape.
func Failed(err error) model.Result {
	return model.Result{Status: model.StatusError, Error: err.Error()}
}
