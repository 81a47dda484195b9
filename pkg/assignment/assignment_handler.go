package assignment

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/alario/alario/internal/rest"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service Service
}

type AssignmentDTO struct {
	ID        string     `json:"id,omitempty"`
	PatternID string     `json:"patternId"`
	Date      string     `json:"date"`
	Note      string     `json:"note,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

// ListAssignments godoc
// @Summary List pattern-to-date assignments
// @Tags Assignment
// @Produce json
// @Param from query string false "Inclusive start date (YYYY-MM-DD)"
// @Param to query string false "Inclusive end date (YYYY-MM-DD)"
// @Success 200 {array} AssignmentDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid date filter"
// @Router /api/assignment [get]
// @Security XUserId
func (h *Handler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Trace("Listing assignments")

	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	for _, bound := range []string{from, to} {
		if bound == "" {
			continue
		}
		if err := ValidateDate(bound); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			h.encodeError(w, rest.ErrorResponse{
				Error:   "Invalid date filter",
				Details: "'from' and 'to' must be formatted as YYYY-MM-DD",
			})
			return
		}
	}

	assignments, err := h.service.GetAll(r.Context(), from, to)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]AssignmentDTO, 0, len(assignments))
	for _, a := range assignments {
		dtos = append(dtos, assignmentToDTO(a))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// CreateAssignment godoc
// @Summary Assign a pattern to a calendar date
// @Description Duplicate (pattern, date) bindings are deduplicated: the existing assignment is returned.
// @Tags Assignment
// @Accept json
// @Produce json
// @Param assignment body AssignmentDTO true "Assignment"
// @Success 201 {object} AssignmentDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid assignment"
// @Router /api/assignment [post]
// @Security XUserId
func (h *Handler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var dto AssignmentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		h.encodeError(w, rest.ErrorResponse{Error: "Invalid request body format"})
		return
	}

	created, err := h.service.Create(r.Context(), dto.PatternID, dto.Date, dto.Note)
	if err != nil {
		if errors.Is(err, ErrInvalidDate) || errors.Is(err, ErrUnknownPattern) {
			w.WriteHeader(http.StatusBadRequest)
			h.encodeError(w, rest.ErrorResponse{Error: "Invalid assignment", Details: err.Error()})
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(assignmentToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// DeleteAssignment godoc
// @Summary Delete a single assignment
// @Tags Assignment
// @Param assignmentId path string true "Assignment ID"
// @Success 204
// @Failure 404 {object} rest.ErrorResponse "Assignment not found"
// @Router /api/assignment/{assignmentId} [delete]
// @Security XUserId
func (h *Handler) DeleteAssignment(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	assignmentId := mux.Vars(r)["assignmentId"]
	if err := h.service.Delete(r.Context(), assignmentId); err != nil {
		if errors.Is(err, ErrAssignmentNotFound) {
			w.WriteHeader(http.StatusNotFound)
			h.encodeError(w, rest.ErrorResponse{Error: "Assignment not found"})
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) encodeError(w http.ResponseWriter, response rest.ErrorResponse) {
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func assignmentToDTO(a Assignment) AssignmentDTO {
	createdAt := a.CreatedAt
	return AssignmentDTO{
		ID:        a.ID,
		PatternID: a.PatternID,
		Date:      a.Date,
		Note:      a.Note,
		CreatedAt: &createdAt,
	}
}
