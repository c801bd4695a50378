package sitemap

import "github.com/sells-group/siteplan/internal/model"

// BuildTree converts a flat record list into a forest of site tree nodes
// keyed by URL path segments. Children keep first-insertion order, matching
// the order of the source sheet, so equivalent input produces an identical
// tree on every run. When two records share a path the later record's page
// wins. The returned forest carries no rollups; see Annotate.
func BuildTree(records []model.PageRecord) []*model.SiteTreeNode {
	var roots []*model.SiteTreeNode
	index := make(map[string]*model.SiteTreeNode, len(records))

	for i := range records {
		rec := records[i]
		segments := SplitPath(rec.FullURLPath)
		if len(segments) == 0 {
			continue
		}

		path := ""
		var parent *model.SiteTreeNode
		for _, seg := range segments {
			path += "/" + seg
			node, ok := index[path]
			if !ok {
				node = &model.SiteTreeNode{Segment: seg, FullPath: path}
				index[path] = node
				if parent == nil {
					roots = append(roots, node)
				} else {
					parent.Children = append(parent.Children, node)
				}
			}
			parent = node
		}

		// Last write wins on duplicate paths.
		page := rec
		parent.Page = &page
	}

	return roots
}
