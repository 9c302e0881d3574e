// Package status classifies reports into a stats category, a single
// character code and a human readable word.
package status

import "rspecify/internal/domain"

// Classifier classifies a report. The second return value is false when the
// classifier has no opinion and the next one in a Chain should be asked.
type Classifier interface {
	Classify(rep *domain.Report) (domain.Status, bool)
}

// ClassifierFunc adapts a function to the Classifier interface
type ClassifierFunc func(rep *domain.Report) (domain.Status, bool)

// Classify calls f(rep)
func (f ClassifierFunc) Classify(rep *domain.Report) (domain.Status, bool) {
	return f(rep)
}

// Chain asks each classifier in order; the first answer wins.
// Default is used when nobody answers.
type Chain []Classifier

// Classify returns the first answer in the chain
func (c Chain) Classify(rep *domain.Report) (domain.Status, bool) {
	for _, cl := range c {
		if st, ok := cl.Classify(rep); ok {
			return st, true
		}
	}
	return Default(rep), true
}

// Resolve classifies rep with c and always returns a status
func Resolve(c Classifier, rep *domain.Report) domain.Status {
	if c == nil {
		return Default(rep)
	}
	if st, ok := c.Classify(rep); ok {
		return st
	}
	return Default(rep)
}

var caution = &domain.Markup{Color: domain.ColorYellow}

// Default is the built-in classification
func Default(rep *domain.Report) domain.Status {
	if rep.WasXFail != "" {
		switch {
		case rep.Skipped():
			return domain.Status{Category: "xfailed", Letter: "x", Word: domain.Word{Label: "XFAIL", Markup: caution}}
		case rep.Passed():
			return domain.Status{Category: "xpassed", Letter: "X", Word: domain.Word{Label: "XPASS", Markup: caution}}
		}
	}

	if rep.When != domain.PhaseCall {
		switch {
		case rep.Failed():
			return domain.Status{Category: "error", Letter: "E", Word: domain.Word{Label: "ERROR"}}
		case rep.Skipped():
			return domain.Status{Category: "skipped", Letter: "s", Word: domain.Word{Label: "SKIPPED"}}
		}
		// passing setup and teardown have no terminal outcome
		return domain.Status{}
	}

	switch {
	case rep.Passed():
		return domain.Status{Category: "passed", Letter: ".", Word: domain.Word{Label: "PASSED"}}
	case rep.Failed():
		return domain.Status{Category: "failed", Letter: "F", Word: domain.Word{Label: "FAILED"}}
	case rep.Skipped():
		return domain.Status{Category: "skipped", Letter: "s", Word: domain.Word{Label: "SKIPPED"}}
	}
	return domain.Status{Category: string(rep.Outcome)}
}

// StrictXFail classifies an unexpected pass of an expected failure as a
// failure. Other reports are left to the rest of the chain.
func StrictXFail() Classifier {
	return ClassifierFunc(func(rep *domain.Report) (domain.Status, bool) {
		if rep.WasXFail == "" || rep.When != domain.PhaseCall || !rep.Passed() {
			return domain.Status{}, false
		}
		return domain.Status{
			Category: "failed",
			Letter:   "F",
			Word:     domain.Word{Label: "XPASS(strict)", Markup: &domain.Markup{Bold: true, Color: domain.ColorRed}},
		}, true
	})
}

// DefaultMarkup is the style used for a word that carries none
func DefaultMarkup(rep *domain.Report) domain.Markup {
	switch {
	case rep.Passed():
		return domain.Markup{Color: domain.ColorGreen}
	case rep.Failed():
		return domain.Markup{Color: domain.ColorRed}
	case rep.Skipped():
		return domain.Markup{Color: domain.ColorYellow}
	}
	return domain.Markup{}
}

// WordMarkup resolves the style of a status word
func WordMarkup(st domain.Status, rep *domain.Report) domain.Markup {
	if st.Word.Markup != nil {
		return *st.Word.Markup
	}
	return DefaultMarkup(rep)
}
