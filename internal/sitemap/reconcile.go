package sitemap

import "github.com/sells-group/siteplan/internal/model"

// ReconcileResult summarizes what a reconciliation did, so callers can
// surface the destructive parts of a re-import to the admin.
type ReconcileResult struct {
	Records        []model.PageRecord `json:"records"`
	CarriedForward int                `json:"carried_forward"`
	Added          int                `json:"added"`
	DroppedPaths   []string           `json:"dropped_paths,omitempty"`
}

// Reconcile merges a freshly imported record list against the stored one.
// This is a wholesale replace keyed by path: output order follows incoming,
// status and notes are carried forward from matching existing records, and
// existing paths absent from incoming are dropped. Dropped paths are
// reported so the caller can warn that pages removed from the source sheet
// disappear from the tenant's site map.
func Reconcile(existing, incoming []model.PageRecord) ReconcileResult {
	byPath := make(map[string]model.PageRecord, len(existing))
	for _, rec := range existing {
		byPath[rec.FullURLPath] = rec
	}

	res := ReconcileResult{Records: make([]model.PageRecord, 0, len(incoming))}
	kept := make(map[string]bool, len(incoming))

	for _, rec := range incoming {
		if prev, ok := byPath[rec.FullURLPath]; ok {
			rec.Status = prev.Status
			rec.Notes = prev.Notes
			res.CarriedForward++
		} else {
			res.Added++
		}
		kept[rec.FullURLPath] = true
		res.Records = append(res.Records, rec)
	}

	for _, rec := range existing {
		if !kept[rec.FullURLPath] {
			res.DroppedPaths = append(res.DroppedPaths, rec.FullURLPath)
		}
	}
	return res
}
