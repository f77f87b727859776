package parsing

import (
	"regexp"

	"github.com/jonathan/resume-parser/internal/types"
)

var (
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phonePattern = regexp.MustCompile(`(\+?\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}\b`)
)

// extractContact takes the first email and the longest phone-number match
func extractContact(text string) types.Contact {
	var contact types.Contact
	if email := emailPattern.FindString(text); email != "" {
		contact.Email = types.StringPtr(email)
	}

	best := ""
	for _, phone := range phonePattern.FindAllString(text, -1) {
		if len(phone) > len(best) {
			best = phone
		}
	}
	if best != "" {
		contact.Phone = types.StringPtr(best)
	}
	return contact
}
