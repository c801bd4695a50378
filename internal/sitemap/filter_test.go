package sitemap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/siteplan/internal/model"
)

func filterFixture() []model.PageRecord {
	return []model.PageRecord{
		{FullURLPath: "/uk/london/implants", PrimaryKeyword: "dental implants london", ClusterName: "Implants"},
		{FullURLPath: "/uk/manchester/veneers", PrimaryKeyword: "veneers manchester", ClusterName: "Veneers"},
		{FullURLPath: "/de/berlin/implants", PrimaryKeyword: "zahnimplantate berlin", ClusterName: "Implants"},
		{FullURLPath: "/about", PrimaryKeyword: "about us", ClusterName: "Brand"},
	}
}

func TestFilter_NoPredicatesReturnsAll(t *testing.T) {
	t.Parallel()

	records := filterFixture()
	out := Filter(records, FilterOptions{})
	assert.Len(t, out, len(records))
}

func TestFilter_ByLocation(t *testing.T) {
	t.Parallel()

	out := Filter(filterFixture(), FilterOptions{Location: "uk"})
	require.Len(t, out, 2)
	assert.Equal(t, "/uk/london/implants", out[0].FullURLPath)
	assert.Equal(t, "/uk/manchester/veneers", out[1].FullURLPath)
}

func TestFilter_ByTextAcrossFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want int
	}{
		{"matches path", "berlin", 1},
		{"matches keyword case-insensitively", "LONDON", 1},
		{"matches cluster name", "implants", 2},
		{"no match", "orthodontics", 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out := Filter(filterFixture(), FilterOptions{Text: tt.text})
			assert.Len(t, out, tt.want)
		})
	}
}

func TestFilter_TextAndLocationCompose(t *testing.T) {
	t.Parallel()

	out := Filter(filterFixture(), FilterOptions{Text: "implants", Location: "uk"})
	require.Len(t, out, 1)
	assert.Equal(t, "/uk/london/implants", out[0].FullURLPath)
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	records := filterFixture()
	_ = Filter(records, FilterOptions{Location: "de"})
	_ = Filter(records, FilterOptions{Text: "veneers"})

	assert.Len(t, records, 4)
	assert.Equal(t, "/uk/london/implants", records[0].FullURLPath)
}
