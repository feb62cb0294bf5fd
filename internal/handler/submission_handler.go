package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/pranchal07/heal/internal/model"
	"github.com/pranchal07/heal/internal/service"
)

// maxBodyBytes caps POST bodies at 10 MiB.
const maxBodyBytes = 10 << 20

// SubmissionHandler serves the /submissions endpoints.
type SubmissionHandler struct {
	submissionService service.SubmissionService
}

// NewSubmissionHandler creates a SubmissionHandler with the given service.
func NewSubmissionHandler(submissionService service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionService: submissionService}
}

// submitRequest is the expected body for POST /submissions.
type submitRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Create handles POST /submissions. The body is JSON, or a urlencoded form.
func (h *SubmissionHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	req, err := decodeSubmitRequest(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeFailure(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		slog.WarnContext(r.Context(), "invalid submission body", "error", err)
		writeFailure(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	sub, err := h.submissionService.Create(r.Context(), model.SubmissionInput{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, envelope{
		Success: true,
		Message: "Submission created successfully",
		Data:    sub,
	})
}

func decodeSubmitRequest(r *http.Request) (submitRequest, error) {
	var req submitRequest
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		if err := r.ParseForm(); err != nil {
			return req, err
		}
		req.Name = r.PostForm.Get("name")
		req.Email = r.PostForm.Get("email")
		req.Message = r.PostForm.Get("message")
		return req, nil
	}
	err := json.NewDecoder(r.Body).Decode(&req)
	return req, err
}

// List handles GET /submissions?page=&limit=.
// Missing or non-numeric values fall back to the service defaults.
func (h *SubmissionHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.submissionService.List(r.Context(), queryInt(r, "page"), queryInt(r, "limit"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		Success:    true,
		Data:       page.Submissions,
		Pagination: &page.Pagination,
	})
}

func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return n
}

// Delete handles DELETE /submissions/{id}.
func (h *SubmissionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeServiceError(w, r, service.ErrInvalidID)
		return
	}

	sub, err := h.submissionService.Delete(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Message: "Submission deleted successfully",
		Data:    sub,
	})
}
