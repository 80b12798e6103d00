package contactguard

// Category is a family of contact information.
type Category string

const (
	PhoneNumber Category = "phoneNumber"
	Email       Category = "email"
	WhatsApp    Category = "whatsapp"
	SocialMedia Category = "socialMedia"
)

// Label is the user-facing name used in warning and block messages.
func (c Category) Label() string {
	switch c {
	case PhoneNumber:
		return "phone number"
	case Email:
		return "email address"
	case WhatsApp:
		return "WhatsApp"
	case SocialMedia:
		return "social media"
	default:
		return string(c)
	}
}

// Severity ranks how strongly a message indicates an off-platform contact attempt.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Rank orders severities so policies can compare them.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 2
	case SeverityMedium:
		return 1
	default:
		return 0
	}
}

// SeverityOf derives severity from the matched categories alone.
// Direct channels (phone, email) are high, any other match is medium.
func SeverityOf(categories []Category) Severity {
	if len(categories) == 0 {
		return SeverityLow
	}
	for _, c := range categories {
		if c == PhoneNumber || c == Email {
			return SeverityHigh
		}
	}
	return SeverityMedium
}
