package api

import (
	"io"
	"net/http"

	"github.com/WilliamRochafnpe/FNPE/internal/export"
	"github.com/WilliamRochafnpe/FNPE/internal/models"
	"github.com/WilliamRochafnpe/FNPE/internal/store"
	"github.com/gorilla/mux"
)

// maxImportBytes bounds backup uploads. Backups embed attachments as data
// URLs, so the limit is generous.
const maxImportBytes = 32 << 20

// handleListSnapshots handles GET /api/admin/snapshots
func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request, _ *models.User) {
	respondJSON(w, http.StatusOK, s.store.ListSnapshots(r.Context()))
}

// handleCreateSnapshot handles POST /api/admin/snapshots - snapshot the
// current document.
func (s *Server) handleCreateSnapshot(w http.ResponseWriter, r *http.Request, _ *models.User) {
	var req struct {
		Label string `json:"label"`
	}
	if r.ContentLength > 0 {
		if err := parseJSONBody(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "invalid request body")
			return
		}
	}

	snapshot, err := s.store.CreateSnapshot(r.Context(), s.sessions.DB(), req.Label)
	if err != nil {
		respondAppError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, snapshot)
}

// handleDeleteSnapshot handles DELETE /api/admin/snapshots/{id}
func (s *Server) handleDeleteSnapshot(w http.ResponseWriter, r *http.Request, _ *models.User) {
	if err := s.store.DeleteSnapshot(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondAppError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleRestoreSnapshot handles POST /api/admin/snapshots/{id}/restore -
// the current document is snapshotted first, then replaced.
func (s *Server) handleRestoreSnapshot(w http.ResponseWriter, r *http.Request, _ *models.User) {
	restored, err := s.store.RestoreSnapshot(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondAppError(w, s.logger, err)
		return
	}

	// Replace revalidates every live session against the restored document.
	if _, err := s.sessions.Replace(r.Context(), restored); err != nil {
		respondAppError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "restored"})
}

// handleBackup handles GET /api/admin/backup - download the document as
// pretty-printed JSON with a timestamped filename.
func (s *Server) handleBackup(w http.ResponseWriter, r *http.Request, _ *models.User) {
	filename, data, err := store.ExportJSON(s.sessions.DB())
	if err != nil {
		respondAppError(w, s.logger, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// handleImportBackup handles POST /api/admin/backup/import - validate the
// uploaded document and replace the current one with it.
func (s *Server) handleImportBackup(w http.ResponseWriter, r *http.Request, _ *models.User) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "could not read upload")
		return
	}

	imported, err := store.ImportJSON(raw)
	if err != nil {
		respondAppError(w, s.logger, err)
		return
	}

	if _, err := s.sessions.Replace(r.Context(), imported); err != nil {
		respondAppError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "imported"})
}

// handleReset handles POST /api/admin/reset - snapshot the current document
// and return to the seed data.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request, _ *models.User) {
	seeded, err := s.store.ResetToSeed(r.Context())
	if err != nil {
		respondAppError(w, s.logger, err)
		return
	}

	if _, err := s.sessions.Replace(r.Context(), seeded); err != nil {
		respondAppError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// handleExportCSV handles GET /api/admin/export/{collection}.csv
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request, _ *models.User) {
	collection := mux.Vars(r)["collection"]
	rows, err := export.CollectionRows(s.sessions.DB(), collection)
	if err != nil {
		respondAppError(w, s.logger, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+collection+`.csv"`)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(export.CSV(rows)))
}

// handleExportJSON handles GET /api/admin/export/{collection}.json
func (s *Server) handleExportJSON(w http.ResponseWriter, r *http.Request, _ *models.User) {
	collection := mux.Vars(r)["collection"]
	data, err := export.CollectionData(s.sessions.DB(), collection)
	if err != nil {
		respondAppError(w, s.logger, err)
		return
	}

	rendered, err := export.JSON(data)
	if err != nil {
		respondAppError(w, s.logger, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+collection+`.json"`)
	w.WriteHeader(http.StatusOK)
	w.Write(rendered)
}
