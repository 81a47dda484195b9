package schedule

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/alario/alario/internal/rest"
	"github.com/alario/alario/internal/utils"
	"github.com/alario/alario/pkg/assignment"
	"github.com/alario/alario/pkg/pattern"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service  *Service
	clock    utils.Clock
	feedName string
	// feedHorizonDays limits how far into the future the ICS feed reaches.
	feedHorizonDays int
}

type OccurrenceDTO struct {
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	Title        string    `json:"title"`
	PatternID    string    `json:"patternId,omitempty"`
	AssignmentID string    `json:"assignmentId,omitempty"`
	AlarmID      string    `json:"alarmId,omitempty"`
	Date         string    `json:"date"`
	Color        string    `json:"color,omitempty"`
}

type SelectionDTO struct {
	Dates []string `json:"dates"`
}

type ToggleSelectionDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
	// ExclusiveEnd marks ranges reported with an exclusive end boundary, as
	// calendar widgets typically do; the end day is then not part of the range.
	ExclusiveEnd bool `json:"exclusiveEnd"`
}

type BulkApplyRequestDTO struct {
	PatternID string `json:"patternId"`
}

type BulkApplyResultDTO struct {
	PatternID string   `json:"patternId"`
	Applied   []string `json:"applied"`
	Failed    []string `json:"failed"`
}

type DeleteOccurrenceDTO struct {
	PatternID string `json:"patternId"`
	Date      string `json:"date"`
	Scope     string `json:"scope"`
}

type DeletionResultDTO struct {
	Deleted []string `json:"deleted"`
	Failed  []string `json:"failed"`
}

func NewHandler(service *Service, clock utils.Clock, feedName string, feedHorizonDays int) *Handler {
	return &Handler{
		service:         service,
		clock:           clock,
		feedName:        feedName,
		feedHorizonDays: feedHorizonDays,
	}
}

// GetOccurrences godoc
// @Summary List derived alarm occurrences
// @Tags Schedule
// @Produce json
// @Param from query string false "Inclusive start date (YYYY-MM-DD)"
// @Param to query string false "Inclusive end date (YYYY-MM-DD)"
// @Success 200 {array} OccurrenceDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid date filter"
// @Router /api/schedule/occurrences [get]
// @Security XUserId
func (h *Handler) GetOccurrences(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Trace("Getting occurrences")

	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	for _, bound := range []string{from, to} {
		if bound == "" {
			continue
		}
		if err := assignment.ValidateDate(bound); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			h.encodeError(w, rest.ErrorResponse{
				Error:   "Invalid date filter",
				Details: "'from' and 'to' must be formatted as YYYY-MM-DD",
			})
			return
		}
	}

	occurrences, err := h.service.Occurrences(r.Context(), from, to)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]OccurrenceDTO, 0, len(occurrences))
	for _, occ := range occurrences {
		dtos = append(dtos, occurrenceToDTO(occ))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// GetSelection godoc
// @Summary Get the current bulk-edit selection
// @Tags Schedule
// @Produce json
// @Success 200 {object} SelectionDTO
// @Router /api/schedule/selection [get]
// @Security XUserId
func (h *Handler) GetSelection(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	selection, err := h.service.CurrentSelection(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(SelectionDTO{Dates: selection.Keys()}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// ToggleSelection godoc
// @Summary Toggle a day range in the bulk-edit selection
// @Description Days already selected within the range are deselected; re-dragging the same range undoes it.
// @Tags Schedule
// @Accept json
// @Produce json
// @Param range body ToggleSelectionDTO true "Day range"
// @Success 200 {object} SelectionDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid range"
// @Router /api/schedule/selection/toggle [post]
// @Security XUserId
func (h *Handler) ToggleSelection(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var dto ToggleSelectionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		h.encodeError(w, rest.ErrorResponse{Error: "Invalid request body format"})
		return
	}

	start, err := time.ParseInLocation(assignment.DateLayout, dto.Start, time.Local)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		h.encodeError(w, rest.ErrorResponse{
			Error:   "Invalid range",
			Details: "'start' must be formatted as YYYY-MM-DD",
		})
		return
	}
	end, err := time.ParseInLocation(assignment.DateLayout, dto.End, time.Local)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		h.encodeError(w, rest.ErrorResponse{
			Error:   "Invalid range",
			Details: "'end' must be formatted as YYYY-MM-DD",
		})
		return
	}
	if dto.ExclusiveEnd {
		end = end.AddDate(0, 0, -1)
	}

	selection, err := h.service.ToggleSelection(r.Context(), start, end)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(SelectionDTO{Dates: selection.Keys()}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// ClearSelection godoc
// @Summary Clear the bulk-edit selection
// @Tags Schedule
// @Success 204
// @Router /api/schedule/selection [delete]
// @Security XUserId
func (h *Handler) ClearSelection(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearSelection(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BulkApply godoc
// @Summary Apply a pattern to every selected date
// @Tags Schedule
// @Accept json
// @Produce json
// @Param request body BulkApplyRequestDTO true "Pattern to apply"
// @Success 200 {object} BulkApplyResultDTO
// @Failure 400 {object} rest.ErrorResponse "Unknown pattern"
// @Failure 409 {object} rest.ErrorResponse "Selection is empty"
// @Router /api/schedule/bulk-apply [post]
// @Security XUserId
func (h *Handler) BulkApply(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Debug("Applying pattern to selection")

	var dto BulkApplyRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		h.encodeError(w, rest.ErrorResponse{Error: "Invalid request body format"})
		return
	}
	if dto.PatternID == "" {
		w.WriteHeader(http.StatusBadRequest)
		h.encodeError(w, rest.ErrorResponse{Error: "patternId is required"})
		return
	}

	result, err := h.service.BulkApply(r.Context(), dto.PatternID)
	if err != nil {
		if errors.Is(err, ErrEmptySelection) {
			w.WriteHeader(http.StatusConflict)
			h.encodeError(w, rest.ErrorResponse{Error: "Selection is empty"})
			return
		}
		if errors.Is(err, pattern.ErrPatternNotFound) {
			w.WriteHeader(http.StatusBadRequest)
			h.encodeError(w, rest.ErrorResponse{Error: "Unknown pattern"})
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(BulkApplyResultDTO(result)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// DeleteOccurrence godoc
// @Summary Delete the assignments behind an occurrence
// @Description Scope controls breadth: "single" removes the clicked occurrence's assignment, "future" removes it and all later ones of the same pattern, "all" removes every assignment of the pattern.
// @Tags Schedule
// @Accept json
// @Produce json
// @Param request body DeleteOccurrenceDTO true "Deletion target and scope"
// @Success 200 {object} DeletionResultDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid deletion request"
// @Router /api/schedule/occurrence/delete [post]
// @Security XUserId
func (h *Handler) DeleteOccurrence(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var dto DeleteOccurrenceDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		h.encodeError(w, rest.ErrorResponse{Error: "Invalid request body format"})
		return
	}

	scope, err := ParseScope(dto.Scope)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		h.encodeError(w, rest.ErrorResponse{
			Error:   "Invalid deletion request",
			Details: "scope must be one of: single, future, all",
		})
		return
	}
	if err := assignment.ValidateDate(dto.Date); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		h.encodeError(w, rest.ErrorResponse{
			Error:   "Invalid deletion request",
			Details: "'date' must be formatted as YYYY-MM-DD",
		})
		return
	}

	result, err := h.service.DeleteOccurrence(r.Context(), Target{PatternID: dto.PatternID, Date: dto.Date}, scope)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(DeletionResultDTO(result)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// GetFeed godoc
// @Summary Export occurrences as an iCalendar feed
// @Tags Schedule
// @Produce text/calendar
// @Success 200 {string} string "ICS document"
// @Router /api/schedule/feed.ics [get]
// @Security XUserId
func (h *Handler) GetFeed(w http.ResponseWriter, r *http.Request) {
	now := h.clock.Now()
	from := assignment.FormatDate(now.AddDate(0, 0, -1))
	to := assignment.FormatDate(now.AddDate(0, 0, h.feedHorizonDays))

	occurrences, err := h.service.Occurrences(r.Context(), from, to)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(BuildFeed(h.feedName, occurrences, now))); err != nil {
		log.Errorf("failed to write ICS feed: %v", err)
	}
}

func (h *Handler) encodeError(w http.ResponseWriter, response rest.ErrorResponse) {
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func occurrenceToDTO(occ Occurrence) OccurrenceDTO {
	return OccurrenceDTO(occ)
}
