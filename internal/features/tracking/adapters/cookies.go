package adapter

import (
	"regexp"
	"strings"
)

// cookiePairPattern matches "name=value;" at the start of a Set-Cookie value or
// right after a comma, which is how collapsed multi-cookie headers are joined.
var cookiePairPattern = regexp.MustCompile(`(?:^|,)\s*([A-Za-z0-9_-]+)=([^;]+);`)

// cookieAttributes are Set-Cookie attribute keys, never cookie names.
var cookieAttributes = map[string]bool{
	"path":     true,
	"expires":  true,
	"max-age":  true,
	"domain":   true,
	"samesite": true,
	"secure":   true,
	"httponly": true,
	"priority": true,
}

// extractCookieHeader turns Set-Cookie header values into a Cookie request
// header ("a=1; b=2"). Values may already be collapsed into a single
// comma-separated string. A later value for the same name wins but keeps the
// position of the first one. Returns "" when no cookie pair is found.
func extractCookieHeader(setCookies []string) string {
	if len(setCookies) == 0 {
		return ""
	}

	parts := make([]string, 0, len(setCookies))
	for _, v := range setCookies {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if !strings.HasSuffix(v, ";") {
			v += ";"
		}
		parts = append(parts, v)
	}
	joined := strings.Join(parts, ", ")

	var order []string
	values := make(map[string]string)
	for _, m := range cookiePairPattern.FindAllStringSubmatch(joined, -1) {
		name, value := m[1], strings.TrimSpace(m[2])
		if cookieAttributes[strings.ToLower(name)] {
			continue
		}
		if _, seen := values[name]; !seen {
			order = append(order, name)
		}
		values[name] = value
	}

	if len(order) == 0 {
		return ""
	}

	pairs := make([]string, 0, len(order))
	for _, name := range order {
		pairs = append(pairs, name+"="+values[name])
	}
	return strings.Join(pairs, "; ")
}
