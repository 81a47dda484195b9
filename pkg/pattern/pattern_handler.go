package pattern

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

type PatternDTO struct {
	ID          string         `json:"id,omitempty"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Color       string         `json:"color"`
	Times       []AlarmTimeDTO `json:"times"`
	CreatedAt   *time.Time     `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time     `json:"updatedAt,omitempty"`
}

type AlarmTimeDTO struct {
	Time            string `json:"time"`
	Sound           string `json:"sound"`
	Volume          int    `json:"volume"`
	GradualIncrease bool   `json:"gradualIncrease"`
	SnoozeMinutes   int    `json:"snoozeMinutes"`
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

// ListPatterns godoc
// @Summary List all alarm patterns of the current user
// @Tags Pattern
// @Produce json
// @Success 200 {array} PatternDTO
// @Router /api/pattern [get]
// @Security XUserId
func (h *Handler) ListPatterns(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Trace("Listing patterns")

	patterns, err := h.service.GetAll(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]PatternDTO, 0, len(patterns))
	for _, p := range patterns {
		dtos = append(dtos, patternToDTO(p))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// GetPattern godoc
// @Summary Get a single pattern
// @Tags Pattern
// @Produce json
// @Param patternId path string true "Pattern ID"
// @Success 200 {object} PatternDTO
// @Failure 404 {object} rest.ErrorResponse "Pattern not found"
// @Router /api/pattern/{patternId} [get]
// @Security XUserId
func (h *Handler) GetPattern(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	patternId := mux.Vars(r)["patternId"]
	p, err := h.service.Get(r.Context(), patternId)
	if err != nil {
		if errors.Is(err, ErrPatternNotFound) {
			w.WriteHeader(http.StatusNotFound)
			h.encodeError(w, rest.ErrorResponse{Error: "Pattern not found"})
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(patternToDTO(p)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// CreatePattern godoc
// @Summary Create a new alarm pattern
// @Tags Pattern
// @Accept json
// @Produce json
// @Param pattern body PatternDTO true "Pattern"
// @Success 201 {object} PatternDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid pattern data"
// @Router /api/pattern [post]
// @Security XUserId
func (h *Handler) CreatePattern(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Debug("Creating pattern")

	var dto PatternDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		h.encodeError(w, rest.ErrorResponse{Error: "Invalid request body format"})
		return
	}

	created, err := h.service.Create(r.Context(), dtoToPattern(dto))
	if err != nil {
		if errors.Is(err, ErrInvalidPattern) {
			w.WriteHeader(http.StatusBadRequest)
			h.encodeError(w, rest.ErrorResponse{Error: "Invalid pattern data", Details: err.Error()})
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	log.Tracef("Created pattern: %+v", created)

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(patternToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// UpdatePattern godoc
// @Summary Update an existing pattern
// @Tags Pattern
// @Accept json
// @Produce json
// @Param patternId path string true "Pattern ID"
// @Param pattern body PatternDTO true "Pattern"
// @Success 200 {object} PatternDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid pattern data"
// @Failure 404 {object} rest.ErrorResponse "Pattern not found"
// @Router /api/pattern/{patternId} [put]
// @Security XUserId
func (h *Handler) UpdatePattern(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var dto PatternDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		h.encodeError(w, rest.ErrorResponse{Error: "Invalid request body format"})
		return
	}
	p := dtoToPattern(dto)
	p.ID = mux.Vars(r)["patternId"]

	updated, err := h.service.Update(r.Context(), p)
	if err != nil {
		if errors.Is(err, ErrInvalidPattern) {
			w.WriteHeader(http.StatusBadRequest)
			h.encodeError(w, rest.ErrorResponse{Error: "Invalid pattern data", Details: err.Error()})
			return
		}
		if errors.Is(err, ErrPatternNotFound) {
			w.WriteHeader(http.StatusNotFound)
			h.encodeError(w, rest.ErrorResponse{Error: "Pattern not found"})
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(patternToDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// DeletePattern godoc
// @Summary Delete a pattern
// @Tags Pattern
// @Param patternId path string true "Pattern ID"
// @Success 204
// @Failure 404 {object} rest.ErrorResponse "Pattern not found"
// @Router /api/pattern/{patternId} [delete]
// @Security XUserId
func (h *Handler) DeletePattern(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	patternId := mux.Vars(r)["patternId"]
	if err := h.service.Delete(r.Context(), patternId); err != nil {
		if errors.Is(err, ErrPatternNotFound) {
			w.WriteHeader(http.StatusNotFound)
			h.encodeError(w, rest.ErrorResponse{Error: "Pattern not found"})
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

func patternToDTO(p Pattern) PatternDTO {
	times := make([]AlarmTimeDTO, 0, len(p.Times))
	for _, t := range p.Times {
		times = append(times, AlarmTimeDTO(t))
	}
	createdAt := p.CreatedAt
	updatedAt := p.UpdatedAt
	return PatternDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Color:       p.Color,
		Times:       times,
		CreatedAt:   &createdAt,
		UpdatedAt:   &updatedAt,
	}
}

func dtoToPattern(dto PatternDTO) Pattern {
	times := make([]AlarmTime, 0, len(dto.Times))
	for _, t := range dto.Times {
		times = append(times, AlarmTime(t))
	}
	return Pattern{
		ID:          dto.ID,
		Name:        dto.Name,
		Description: dto.Description,
		Color:       dto.Color,
		Times:       times,
	}
}
