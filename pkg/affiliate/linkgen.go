// Package affiliate builds outbound tracking links from merchant templates.
package affiliate

import (
	"net/url"
	"regexp"
	"strings"
)

// LinkParams are the values substituted into a merchant's link template.
type LinkParams struct {
	UserID     string
	ClickID    string
	ProductURL string
}

// BuildLink substitutes {USER_ID}, {CLICK_ID}, {PRODUCT_URL} (URL-encoded)
// and {PRODUCT_ID} (extracted from ProductURL via productIDPattern, first
// capture group) into template. Pure and deterministic: a placeholder whose
// value is missing is left unresolved, and a malformed template produces
// malformed output rather than an error.
func BuildLink(template, productIDPattern string, p LinkParams) string {
	out := template
	if p.UserID != "" {
		out = strings.ReplaceAll(out, "{USER_ID}", p.UserID)
	}
	if p.ClickID != "" {
		out = strings.ReplaceAll(out, "{CLICK_ID}", p.ClickID)
	}
	if p.ProductURL != "" {
		out = strings.ReplaceAll(out, "{PRODUCT_URL}", url.QueryEscape(p.ProductURL))
		if id := ExtractProductID(productIDPattern, p.ProductURL); id != "" {
			out = strings.ReplaceAll(out, "{PRODUCT_ID}", id)
		}
	}
	return out
}

// ExtractProductID pulls a product id out of a product URL using the
// merchant's pattern (e.g. an Amazon ASIN). Returns "" when the pattern is
// empty, invalid, or doesn't match.
func ExtractProductID(pattern, productURL string) string {
	if pattern == "" || productURL == "" {
		return ""
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return ""
	}
	m := re.FindStringSubmatch(productURL)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}
