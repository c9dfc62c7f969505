package delivery

import (
	"strings"
	"unicode"
)

// indianStates lists states and union territories as they appear in
// geocoder display names.
var indianStates = []string{
	"Andhra Pradesh", "Arunachal Pradesh", "Assam", "Bihar", "Chhattisgarh",
	"Goa", "Gujarat", "Haryana", "Himachal Pradesh", "Jharkhand", "Karnataka",
	"Kerala", "Madhya Pradesh", "Maharashtra", "Manipur", "Meghalaya", "Mizoram",
	"Nagaland", "Odisha", "Punjab", "Rajasthan", "Sikkim", "Tamil Nadu",
	"Telangana", "Tripura", "Uttar Pradesh", "Uttarakhand", "West Bengal",
	"Andaman and Nicobar Islands", "Chandigarh",
	"Dadra and Nagar Haveli and Daman and Diu", "Delhi", "Jammu and Kashmir",
	"Ladakh", "Lakshadweep", "Puducherry",
}

// parseDisplayName pulls a city and state out of a comma-separated display
// name by matching components against indianStates. A locality spelled
// differently from the list is not recognised as a state.
func parseDisplayName(displayName, pincode string) (city, state string) {
	parts := strings.Split(displayName, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	for _, p := range parts {
		if s := matchState(p); s != "" {
			state = s
			break
		}
	}
	for _, p := range parts {
		if p == "" || p == pincode || isDigits(p) || strings.EqualFold(p, "India") || matchState(p) != "" {
			continue
		}
		city = p
		break
	}
	return city, state
}

func matchState(part string) string {
	for _, s := range indianStates {
		if strings.EqualFold(part, s) {
			return s
		}
	}
	return ""
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) && r != ' ' {
			return false
		}
	}
	return s != ""
}
