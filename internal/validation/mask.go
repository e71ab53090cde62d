package validation

import "strings"

// MaskEmail hides most of an e-mail address for display during account
// recovery: "jose.silva@gmail.com" -> "jo***@g***.com".
func MaskEmail(email string) string {
	if email == "" || !strings.Contains(email, "@") {
		return "***@***.com"
	}

	parts := strings.SplitN(email, "@", 2)
	user, domainPart := parts[0], parts[1]

	domainParts := strings.SplitN(domainPart, ".", 2)
	domain := domainParts[0]
	extension := ""
	if len(domainParts) > 1 {
		extension = domainParts[1]
	}

	maskedUser := "***"
	if len(user) > 2 {
		maskedUser = user[:2] + "***"
	} else if len(user) >= 1 {
		maskedUser = user[:1] + "***"
	}

	maskedDomain := "***"
	if len(domain) > 1 {
		maskedDomain = domain[:1] + "***"
	}

	return maskedUser + "@" + maskedDomain + "." + extension
}
