package contactguard

import (
	"fmt"
	"strings"
)

func joinLabels(categories []Category) string {
	labels := make([]string, len(categories))
	for i, c := range categories {
		labels[i] = c.Label()
	}
	return strings.Join(labels, ", ")
}

// WarningMessage is shown when a message is allowed through with a banner.
// Returns "" for no categories.
func WarningMessage(categories []Category) string {
	if len(categories) == 0 {
		return ""
	}
	return fmt.Sprintf("⚠️ Detected %s in your message. For your safety and to maintain platform integrity, please use our chat system for communication. Direct contact sharing may violate our terms of service.", joinLabels(categories))
}

// BlockMessage is shown when a message is rejected.
// Returns "" for no categories.
func BlockMessage(categories []Category) string {
	if len(categories) == 0 {
		return ""
	}
	return fmt.Sprintf("🚫 This message contains contact information (%s) and cannot be sent. Please use our secure chat system for all communication. Our premium members get verified seller contacts.", joinLabels(categories))
}
