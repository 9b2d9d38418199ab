package schema

import (
	"fmt"
	"net/url"
	"regexp"
	"time"
)

var (
	uuidRegex  = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// checkFormat returns a message when s does not look like format, "" otherwise.
// Unknown formats are ignored.
func checkFormat(format, s string) string {
	switch format {
	case "date":
		if _, err := time.Parse(time.DateOnly, s); err != nil {
			return fmt.Sprintf("%q is not a valid date (expected YYYY-MM-DD)", s)
		}
	case "date-time":
		if _, err := time.Parse(time.RFC3339, s); err != nil {
			return fmt.Sprintf("%q is not a valid date-time (expected RFC 3339)", s)
		}
	case "uuid":
		if !uuidRegex.MatchString(s) {
			return fmt.Sprintf("%q is not a valid UUID", s)
		}
	case "email":
		if !emailRegex.MatchString(s) {
			return fmt.Sprintf("%q is not a valid email address", s)
		}
	case "uri":
		if u, err := url.Parse(s); err != nil || u.Scheme == "" {
			return fmt.Sprintf("%q is not a valid URI", s)
		}
	}
	return ""
}
