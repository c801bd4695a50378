package sitemap

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/siteplan/internal/model"
)

func TestLocationSegments_DistinctFirstSeenOrder(t *testing.T) {
	t.Parallel()

	records := []model.PageRecord{
		rec("/uk/london/x", 0, model.StatusPlanned),
		rec("/uk/manchester/y", 0, model.StatusPlanned),
		rec("/de/berlin/z", 0, model.StatusPlanned),
	}

	assert.Equal(t, []string{"uk", "de"}, LocationSegments(records))
}

func TestLocationSegments_SingleSegmentPathsExcluded(t *testing.T) {
	t.Parallel()

	records := []model.PageRecord{
		rec("/about", 0, model.StatusPlanned),
		rec("/contact", 0, model.StatusPlanned),
	}

	assert.Empty(t, LocationSegments(records))
}

func TestLocationSegments_MixedDepths(t *testing.T) {
	t.Parallel()

	records := []model.PageRecord{
		rec("/about", 0, model.StatusPlanned),
		rec("/uk/implants", 0, model.StatusPlanned),
		rec("/uk/veneers", 0, model.StatusPlanned),
	}

	assert.Equal(t, []string{"uk"}, LocationSegments(records))
}

func TestLocationSegments_EmptyList(t *testing.T) {
	t.Parallel()

	assert.Empty(t, LocationSegments(nil))
}
