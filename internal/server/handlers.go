package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/siteplan/internal/model"
	"github.com/sells-group/siteplan/internal/sitemap"
	"github.com/sells-group/siteplan/internal/store"
)

// maxImportBytes caps the import request body. Site map sheets are small;
// anything larger is a mistake.
const maxImportBytes = 10 << 20

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	tenant := chi.URLParam(r, "tenant")
	records, err := s.store.GetRecords(r.Context(), tenant)
	if err != nil {
		s.internalError(w, "get records", err)
		return
	}

	filtered := sitemap.Filter(records, sitemap.FilterOptions{
		Text:     r.URL.Query().Get("q"),
		Location: r.URL.Query().Get("location"),
	})
	forest := sitemap.Annotate(sitemap.BuildTree(filtered))

	writeJSON(w, http.StatusOK, map[string]any{
		"tenant": tenant,
		"tree":   forest,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	tenant := chi.URLParam(r, "tenant")
	records, err := s.store.GetRecords(r.Context(), tenant)
	if err != nil {
		s.internalError(w, "get records", err)
		return
	}
	writeJSON(w, http.StatusOK, sitemap.ComputeStats(records))
}

func (s *Server) handleLocations(w http.ResponseWriter, r *http.Request) {
	tenant := chi.URLParam(r, "tenant")
	records, err := s.store.GetRecords(r.Context(), tenant)
	if err != nil {
		s.internalError(w, "get records", err)
		return
	}
	locations := sitemap.LocationSegments(records)
	if locations == nil {
		locations = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"locations": locations})
}

// importResponse reports what an import did, including the destructive
// part: paths that disappeared because they left the source sheet.
type importResponse struct {
	Tenant         string   `json:"tenant"`
	ImportID       string   `json:"import_id,omitempty"`
	Total          int      `json:"total"`
	Added          int      `json:"added"`
	CarriedForward int      `json:"carried_forward"`
	DroppedPaths   []string `json:"dropped_paths,omitempty"`
	DryRun         bool     `json:"dry_run,omitempty"`
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	tenant := chi.URLParam(r, "tenant")

	body, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read request body")
		return
	}

	incoming, err := sitemap.Parse(string(body))
	if err != nil {
		s.metrics.IncImport("parse_failed")
		switch {
		case eris.Is(err, sitemap.ErrEmptyInput):
			writeError(w, http.StatusBadRequest, "import body is empty")
		case eris.Is(err, sitemap.ErrNoValidRows):
			writeError(w, http.StatusUnprocessableEntity,
				"no valid rows found; check the column format against the import template")
		default:
			s.internalError(w, "parse import", err)
		}
		return
	}

	existing, err := s.store.GetRecords(r.Context(), tenant)
	if err != nil {
		s.internalError(w, "get records", err)
		return
	}
	result := sitemap.Reconcile(existing, incoming)

	resp := importResponse{
		Tenant:         tenant,
		Total:          len(result.Records),
		Added:          result.Added,
		CarriedForward: result.CarriedForward,
		DroppedPaths:   result.DroppedPaths,
	}

	if r.URL.Query().Get("dry_run") == "true" {
		resp.DryRun = true
		writeJSON(w, http.StatusOK, resp)
		return
	}

	if err := s.store.PutRecords(r.Context(), tenant, result.Records); err != nil {
		s.metrics.IncImport("store_failed")
		s.internalError(w, "put records", err)
		return
	}

	importID, err := s.store.LogImport(r.Context(), store.ImportLogEntry{
		TenantID:       tenant,
		RowsImported:   len(result.Records),
		CarriedForward: result.CarriedForward,
		Dropped:        len(result.DroppedPaths),
	})
	if err != nil {
		zap.L().Warn("import log write failed", zap.String("tenant", tenant), zap.Error(err))
	}
	resp.ImportID = importID

	s.metrics.IncImport("ok")
	s.metrics.AddRowsParsed(len(result.Records))
	s.metrics.AddPagesDropped(len(result.DroppedPaths))

	zap.L().Info("site map imported",
		zap.String("tenant", tenant),
		zap.Int("total", resp.Total),
		zap.Int("added", resp.Added),
		zap.Int("carried_forward", resp.CarriedForward),
		zap.Int("dropped", len(resp.DroppedPaths)),
	)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListImports(w http.ResponseWriter, r *http.Request) {
	tenant := chi.URLParam(r, "tenant")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := s.store.ListImports(r.Context(), tenant, limit)
	if err != nil {
		s.internalError(w, "list imports", err)
		return
	}
	if entries == nil {
		entries = []store.ImportLogEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"imports": entries})
}

type pageEditRequest struct {
	Path   string  `json:"path"`
	Status *string `json:"status,omitempty"`
	Notes  *string `json:"notes,omitempty"`
}

func (s *Server) handleUpdatePage(w http.ResponseWriter, r *http.Request) {
	tenant := chi.URLParam(r, "tenant")

	var req pageEditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Path == "" {
		writeError(w, http.StatusBadRequest, "path is required")
		return
	}

	edit := store.PageEdit{Notes: req.Notes}
	if req.Status != nil {
		status := model.PageStatus(*req.Status)
		if !status.IsValid() {
			writeError(w, http.StatusBadRequest, "invalid status: "+*req.Status)
			return
		}
		edit.Status = &status
	}

	err := s.store.UpdatePage(r.Context(), tenant, sitemap.NormalizePath(req.Path), edit)
	if eris.Is(err, store.ErrPageNotFound) {
		writeError(w, http.StatusNotFound, "page not found: "+req.Path)
		return
	}
	if err != nil {
		s.internalError(w, "update page", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleDeletePage(w http.ResponseWriter, r *http.Request) {
	tenant := chi.URLParam(r, "tenant")
	path := r.URL.Query().Get("path")
	if path == "" {
		writeError(w, http.StatusBadRequest, "path query parameter is required")
		return
	}

	err := s.store.DeletePage(r.Context(), tenant, sitemap.NormalizePath(path))
	if eris.Is(err, store.ErrPageNotFound) {
		writeError(w, http.StatusNotFound, "page not found: "+path)
		return
	}
	if err != nil {
		s.internalError(w, "delete page", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) internalError(w http.ResponseWriter, op string, err error) {
	zap.L().Error(op, zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}
