package sitemap

import "strings"

// NormalizePath brings a raw URL path into canonical form: a leading slash,
// no repeated slashes, no trailing slash (except for the root path itself).
// Malformed paths from the import sheet are corrected rather than rejected.
func NormalizePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}

	var b strings.Builder
	b.Grow(len(p) + 1)
	b.WriteByte('/')
	prevSlash := true
	for i := 0; i < len(p); i++ {
		c := p[i]
		if c == '/' {
			if !prevSlash {
				b.WriteByte('/')
			}
			prevSlash = true
			continue
		}
		b.WriteByte(c)
		prevSlash = false
	}

	out := b.String()
	if len(out) > 1 && strings.HasSuffix(out, "/") {
		out = out[:len(out)-1]
	}
	return out
}

// SplitPath returns the segments of a normalized path. The root path "/"
// yields no segments.
func SplitPath(p string) []string {
	p = NormalizePath(p)
	if p == "/" {
		return nil
	}
	return strings.Split(p[1:], "/")
}
