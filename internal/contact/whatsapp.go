package contact

import (
	"net/url"
	"strings"
)

var phoneCleaner = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")

// WhatsAppLink builds a wa.me deep link for the given phone number, or ""
// when the number is empty. Normalization: separators stripped; a leading
// +<countryCode> is stripped and the bare national number kept (matches the
// behavior users already rely on); a number already starting with countryCode
// is kept as-is; a trunk-prefix 0 is replaced by countryCode; anything else
// gets countryCode prepended.
func WhatsAppLink(phone, countryCode, message string) string {
	if phone == "" {
		return ""
	}
	clean := phoneCleaner.Replace(phone)

	switch {
	case strings.HasPrefix(clean, "+"+countryCode):
		clean = strings.TrimPrefix(clean, "+"+countryCode)
	case strings.HasPrefix(clean, countryCode):
		// already in international form
	case strings.HasPrefix(clean, "0"):
		clean = countryCode + clean[1:]
	default:
		clean = countryCode + clean
	}

	return "https://wa.me/" + clean + "?text=" + url.QueryEscape(message)
}
