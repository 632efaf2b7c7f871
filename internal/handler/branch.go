package handler

import (
	"log/slog"
	"net/http"

	"tailor/internal/domain/services"
	"tailor/internal/httputil"
)

// BranchHandler handles branch HTTP requests
type BranchHandler struct {
	branchService services.BranchService
	draftService  services.DraftService
	logger        *slog.Logger
}

// NewBranchHandler creates a new branch handler
func NewBranchHandler(
	branchService services.BranchService,
	draftService services.DraftService,
	logger *slog.Logger,
) *BranchHandler {
	return &BranchHandler{
		branchService: branchService,
		draftService:  draftService,
		logger:        logger,
	}
}

// ListBranches lists a project's branches with display metadata
// GET /api/projects/{id}/branches
func (h *BranchHandler) ListBranches(w http.ResponseWriter, r *http.Request) {
	projectID, ok := PathParam(w, r, "id", "Project ID")
	if !ok {
		return
	}

	branches, err := h.branchService.ListBranches(r.Context(), projectID, httputil.GetUserID(r))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, branches)
}

// ForkBranch creates a branch seeded from an existing branch's content
// POST /api/projects/{id}/branches
func (h *BranchHandler) ForkBranch(w http.ResponseWriter, r *http.Request) {
	projectID, ok := PathParam(w, r, "id", "Project ID")
	if !ok {
		return
	}

	var req services.ForkBranchRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.ActorID = httputil.GetUserID(r)
	req.ProjectID = projectID

	branch, err := h.branchService.ForkBranch(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, branch)
}

// GetDraft reads a branch's working version
// GET /api/branches/{id}/draft
func (h *BranchHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	branchID, ok := PathParam(w, r, "id", "Branch ID")
	if !ok {
		return
	}

	version, err := h.draftService.GetDraft(r.Context(), branchID, httputil.GetUserID(r))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, version)
}

// SaveDraft autosaves a branch's working content
// PUT /api/branches/{id}/draft
func (h *BranchHandler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	branchID, ok := PathParam(w, r, "id", "Branch ID")
	if !ok {
		return
	}

	var req services.SaveDraftRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.ActorID = httputil.GetUserID(r)
	req.BranchID = branchID

	version, err := h.draftService.SaveDraft(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, version)
}
