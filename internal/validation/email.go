package validation

import "strings"

// NormalizeEmail lowercases an address and folds provider-specific aliases
// onto one canonical mailbox:
//   - gmail.com / googlemail.com: dots and "+tag" dropped, domain becomes gmail.com
//   - outlook, hotmail, live, icloud, me, mac: "+tag" dropped
//   - yahoo: "-tag" dropped
//
// Input that does not contain exactly one "@" is returned trimmed and lowercased.
func NormalizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	local, domain, ok := strings.Cut(email, "@")
	if !ok || strings.Contains(domain, "@") || local == "" {
		return email
	}

	switch domain {
	case "gmail.com", "googlemail.com":
		local = cutTag(local, "+")
		local = strings.ReplaceAll(local, ".", "")
		domain = "gmail.com"
	case "outlook.com", "hotmail.com", "live.com", "icloud.com", "me.com", "mac.com":
		local = cutTag(local, "+")
	case "yahoo.com", "ymail.com", "rocketmail.com":
		local = cutTag(local, "-")
	}
	if local == "" {
		return email
	}
	return local + "@" + domain
}

func cutTag(local, sep string) string {
	before, _, _ := strings.Cut(local, sep)
	return before
}
