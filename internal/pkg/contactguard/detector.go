package contactguard

// Verdict is the outcome of classifying a piece of text.
type Verdict struct {
	HasContact bool       `json:"hasContact"`
	Categories []Category `json:"matchedCategories"`
	Severity   Severity   `json:"severity"`
}

// Detector runs an ordered list of classifiers. It holds no mutable state
// and is safe for concurrent use.
type Detector struct {
	classifiers []Classifier
}

// NewDetector uses DefaultClassifiers when none are given.
func NewDetector(classifiers ...Classifier) *Detector {
	if len(classifiers) == 0 {
		classifiers = DefaultClassifiers()
	}
	return &Detector{classifiers: classifiers}
}

// Detect classifies text. Each category appears at most once, in classifier order.
func (d *Detector) Detect(text string) Verdict {
	categories := make([]Category, 0, len(d.classifiers))
	if text != "" {
		seen := make(map[Category]struct{}, len(d.classifiers))
		for _, c := range d.classifiers {
			if _, ok := seen[c.Category]; ok {
				continue
			}
			if c.Match(text) {
				seen[c.Category] = struct{}{}
				categories = append(categories, c.Category)
			}
		}
	}

	return Verdict{
		HasContact: len(categories) > 0,
		Categories: categories,
		Severity:   SeverityOf(categories),
	}
}

var defaultDetector = NewDetector()

// Detect classifies text with the default classifiers.
func Detect(text string) Verdict {
	return defaultDetector.Detect(text)
}
