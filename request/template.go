// Copyright 2026 The routex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"fmt"
	urlpkg "net/url"
	"strings"
)

// Expand replaces each "{name}" placeholder in template with the next
// value from vars, formatted with fmt.Sprint and path-escaped. The
// placeholder names are for readability only; values are consumed
// strictly in order.
//
// Expand returns an error if a placeholder is not closed or if the
// number of placeholders differs from len(vars).
//
//	Expand("/users/{id}/orders/{order}", 42, "a b")
//	// "/users/42/orders/a%20b"
func Expand(template string, vars ...interface{}) (string, error) {
	var sb strings.Builder
	n := 0
	rest := template
	for {
		i := strings.IndexByte(rest, '{')
		if i < 0 {
			sb.WriteString(rest)
			break
		}
		j := strings.IndexByte(rest[i:], '}')
		if j < 0 {
			return "", fmt.Errorf("routex/request: unclosed placeholder in template %q", template)
		}
		sb.WriteString(rest[:i])
		if n < len(vars) {
			sb.WriteString(urlpkg.PathEscape(fmt.Sprint(vars[n])))
		}
		n++
		rest = rest[i+j+1:]
	}
	if n != len(vars) {
		return "", fmt.Errorf("routex/request: template %q has %d placeholders but %d variables were given",
			template, n, len(vars))
	}
	return sb.String(), nil
}

// Resolve joins ref onto base. If base is empty, or ref is already an
// absolute http or https URL, ref is returned unchanged.
func Resolve(base, ref string) string {
	if base == "" || strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	if ref == "" {
		return base
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(ref, "/")
}
