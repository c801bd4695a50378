package sitemap

import "github.com/sells-group/siteplan/internal/model"

// Annotate walks the forest post-order and fills in the rollup fields on
// every node: page count, summed search volume and live-page count over all
// descendants including the node itself. Returns the same forest for
// chaining.
func Annotate(forest []*model.SiteTreeNode) []*model.SiteTreeNode {
	for _, root := range forest {
		annotateNode(root)
	}
	return forest
}

func annotateNode(node *model.SiteTreeNode) {
	node.TotalPages = 0
	node.TotalVolume = 0
	node.LivePages = 0

	for _, child := range node.Children {
		annotateNode(child)
		node.TotalPages += child.TotalPages
		node.TotalVolume += child.TotalVolume
		node.LivePages += child.LivePages
	}

	if node.Page != nil {
		node.TotalPages++
		node.TotalVolume += node.Page.SearchVolume
		if node.Page.Status == model.StatusLive {
			node.LivePages++
		}
	}
}
