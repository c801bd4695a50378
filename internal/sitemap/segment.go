package sitemap

import "github.com/sells-group/siteplan/internal/model"

// LocationSegments returns the distinct first path segments of all records
// whose path has at least two segments, in first-seen order. Single-segment
// paths have no location prefix and contribute nothing.
func LocationSegments(records []model.PageRecord) []string {
	seen := make(map[string]bool)
	var out []string
	for _, rec := range records {
		segments := SplitPath(rec.FullURLPath)
		if len(segments) < 2 {
			continue
		}
		loc := segments[0]
		if !seen[loc] {
			seen[loc] = true
			out = append(out, loc)
		}
	}
	return out
}
