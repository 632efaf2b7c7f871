package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"tailor/internal/domain/services"
	"tailor/internal/httputil"
)

// CommitHandler handles commit and history HTTP requests
type CommitHandler struct {
	commitService  services.CommitService
	historyService services.HistoryService
	logger         *slog.Logger
}

// NewCommitHandler creates a new commit handler
func NewCommitHandler(
	commitService services.CommitService,
	historyService services.HistoryService,
	logger *slog.Logger,
) *CommitHandler {
	return &CommitHandler{
		commitService:  commitService,
		historyService: historyService,
		logger:         logger,
	}
}

// Commit snapshots content into an immutable commit
// POST /api/branches/{id}/commits
func (h *CommitHandler) Commit(w http.ResponseWriter, r *http.Request) {
	branchID, ok := PathParam(w, r, "id", "Branch ID")
	if !ok {
		return
	}

	var req services.CommitRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.ActorID = httputil.GetUserID(r)
	req.BranchID = branchID

	commit, err := h.commitService.Commit(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, commit)
}

// Revert restores a branch's working content from a past commit
// POST /api/branches/{id}/revert
func (h *CommitHandler) Revert(w http.ResponseWriter, r *http.Request) {
	branchID, ok := PathParam(w, r, "id", "Branch ID")
	if !ok {
		return
	}

	var req services.RevertRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.ActorID = httputil.GetUserID(r)
	req.BranchID = branchID

	commit, err := h.commitService.Revert(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, commit)
}

// GetHistory reads a page of the branch's commit log, newest first
// GET /api/branches/{id}/commits?cursor=...&limit=...
func (h *CommitHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	branchID, ok := PathParam(w, r, "id", "Branch ID")
	if !ok {
		return
	}

	req := services.HistoryRequest{
		ActorID:  httputil.GetUserID(r),
		BranchID: branchID,
		Cursor:   r.URL.Query().Get("cursor"),
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "Limit must be an integer")
			return
		}
		req.Limit = limit
	}

	page, err := h.historyService.GetHistory(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, page)
}

// GetCommit reads a single commit by ID
// GET /api/branches/{id}/commits/{commitId}
func (h *CommitHandler) GetCommit(w http.ResponseWriter, r *http.Request) {
	branchID, ok := PathParam(w, r, "id", "Branch ID")
	if !ok {
		return
	}
	commitID, ok := PathParam(w, r, "commitId", "Commit ID")
	if !ok {
		return
	}

	commit, err := h.historyService.GetCommit(r.Context(), branchID, commitID, httputil.GetUserID(r))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, commit)
}
