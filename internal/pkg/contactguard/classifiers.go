package contactguard

import "regexp"

// Classifier reports whether text belongs to a category. Patterns within a
// classifier are alternatives; the first hit wins.
type Classifier struct {
	Name     string
	Category Category
	Patterns []*regexp.Regexp
}

// Match reports whether any pattern matches text.
func (c Classifier) Match(text string) bool {
	for _, p := range c.Patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// The catch-all \b\d{10,}\b also flags order ids and long postal codes.
// A false block costs a reworded message, a missed number costs a sale.
var phonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b[6-9]\d{9}\b`),
	regexp.MustCompile(`\+91[\s-]?[6-9]\d{9}\b`),
	regexp.MustCompile(`\b91[\s-]?[6-9]\d{9}\b`),
	regexp.MustCompile(`\b[6-9]\d{2}[\s.-]\d{3}[\s.-]\d{4}\b`),
	regexp.MustCompile(`\(\d{3}\)[\s.-]?\d{3}[\s.-]?\d{4}\b`),
	regexp.MustCompile(`\b\d{10,}\b`),
}

var emailPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}\b`),
}

var whatsAppPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)whatsapp`),
	regexp.MustCompile(`(?i)\bwa\b`),
	regexp.MustCompile(`(?i)\bwapp\b`),
	regexp.MustCompile(`(?i)what'?s? ?app`),
}

var socialPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)instagram`),
	regexp.MustCompile(`(?i)facebook`),
	regexp.MustCompile(`(?i)\btelegram\b`),
	regexp.MustCompile(`(?i)\btwitter\b`),
	regexp.MustCompile(`(?i)\blinkedin\b`),
	regexp.MustCompile(`@\w+`),
}

// DefaultClassifiers returns the classifiers in detection order:
// phone, email, whatsapp, social.
func DefaultClassifiers() []Classifier {
	return []Classifier{
		{Name: "phone", Category: PhoneNumber, Patterns: phonePatterns},
		{Name: "email", Category: Email, Patterns: emailPatterns},
		{Name: "whatsapp", Category: WhatsApp, Patterns: whatsAppPatterns},
		{Name: "social", Category: SocialMedia, Patterns: socialPatterns},
	}
}
