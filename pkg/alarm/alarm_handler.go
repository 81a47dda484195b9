package alarm

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/alario/alario/internal/rest"
	"github.com/alario/alario/pkg/assignment"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service Service
}

// AlarmDTO mirrors Alarm on the wire. Enabled, Sound, Volume and
// SnoozeMinutes are optional on input and fall back to the defaults of a
// plain one-off alarm.
type AlarmDTO struct {
	ID            string     `json:"id,omitempty"`
	Date          string     `json:"date"`
	Time          string     `json:"time"`
	Enabled       *bool      `json:"enabled,omitempty"`
	Sound         string     `json:"sound,omitempty"`
	Volume        *int       `json:"volume,omitempty"`
	SnoozeMinutes *int       `json:"snoozeMinutes,omitempty"`
	CreatedAt     *time.Time `json:"createdAt,omitempty"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty"`
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

// ListAlarms godoc
// @Summary List one-off alarms of the current user
// @Tags Alarm
// @Produce json
// @Param from query string false "Inclusive start date (YYYY-MM-DD)"
// @Param to query string false "Inclusive end date (YYYY-MM-DD)"
// @Success 200 {array} AlarmDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid date filter"
// @Router /api/alarm [get]
// @Security XUserId
func (h *Handler) ListAlarms(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Trace("Listing alarms")

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

	alarms, err := h.service.GetAll(r.Context(), from, to)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]AlarmDTO, 0, len(alarms))
	for _, a := range alarms {
		dtos = append(dtos, alarmToDTO(a))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// GetAlarm godoc
// @Summary Get a single one-off alarm
// @Tags Alarm
// @Produce json
// @Param alarmId path string true "Alarm ID"
// @Success 200 {object} AlarmDTO
// @Failure 404 {object} rest.ErrorResponse "Alarm not found"
// @Router /api/alarm/{alarmId} [get]
// @Security XUserId
func (h *Handler) GetAlarm(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	alarmId := mux.Vars(r)["alarmId"]
	a, err := h.service.Get(r.Context(), alarmId)
	if err != nil {
		if errors.Is(err, ErrAlarmNotFound) {
			w.WriteHeader(http.StatusNotFound)
			h.encodeError(w, rest.ErrorResponse{Error: "Alarm not found"})
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(alarmToDTO(a)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// CreateAlarm godoc
// @Summary Create a one-off alarm on a single date
// @Tags Alarm
// @Accept json
// @Produce json
// @Param alarm body AlarmDTO true "Alarm"
// @Success 201 {object} AlarmDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid alarm"
// @Router /api/alarm [post]
// @Security XUserId
func (h *Handler) CreateAlarm(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var dto AlarmDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		h.encodeError(w, rest.ErrorResponse{Error: "Invalid request body format"})
		return
	}

	created, err := h.service.Create(r.Context(), dtoToAlarm(dto))
	if err != nil {
		if errors.Is(err, ErrInvalidAlarm) {
			w.WriteHeader(http.StatusBadRequest)
			h.encodeError(w, rest.ErrorResponse{Error: "Invalid alarm", Details: err.Error()})
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(alarmToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// UpdateAlarm godoc
// @Summary Update a one-off alarm
// @Tags Alarm
// @Accept json
// @Produce json
// @Param alarmId path string true "Alarm ID"
// @Param alarm body AlarmDTO true "Alarm"
// @Success 200 {object} AlarmDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid alarm"
// @Failure 404 {object} rest.ErrorResponse "Alarm not found"
// @Router /api/alarm/{alarmId} [put]
// @Security XUserId
func (h *Handler) UpdateAlarm(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var dto AlarmDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		h.encodeError(w, rest.ErrorResponse{Error: "Invalid request body format"})
		return
	}

	a := dtoToAlarm(dto)
	a.ID = mux.Vars(r)["alarmId"]
	updated, err := h.service.Update(r.Context(), a)
	if err != nil {
		if errors.Is(err, ErrInvalidAlarm) {
			w.WriteHeader(http.StatusBadRequest)
			h.encodeError(w, rest.ErrorResponse{Error: "Invalid alarm", Details: err.Error()})
			return
		}
		if errors.Is(err, ErrAlarmNotFound) {
			w.WriteHeader(http.StatusNotFound)
			h.encodeError(w, rest.ErrorResponse{Error: "Alarm not found"})
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(alarmToDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// DeleteAlarm godoc
// @Summary Delete a one-off alarm
// @Tags Alarm
// @Param alarmId path string true "Alarm ID"
// @Success 204
// @Failure 404 {object} rest.ErrorResponse "Alarm not found"
// @Router /api/alarm/{alarmId} [delete]
// @Security XUserId
func (h *Handler) DeleteAlarm(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	alarmId := mux.Vars(r)["alarmId"]
	if err := h.service.Delete(r.Context(), alarmId); err != nil {
		if errors.Is(err, ErrAlarmNotFound) {
			w.WriteHeader(http.StatusNotFound)
			h.encodeError(w, rest.ErrorResponse{Error: "Alarm not found"})
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

func alarmToDTO(a Alarm) AlarmDTO {
	enabled := a.Enabled
	volume := a.Volume
	snooze := a.SnoozeMinutes
	createdAt := a.CreatedAt
	updatedAt := a.UpdatedAt
	return AlarmDTO{
		ID:            a.ID,
		Date:          a.Date,
		Time:          a.Time,
		Enabled:       &enabled,
		Sound:         a.Sound,
		Volume:        &volume,
		SnoozeMinutes: &snooze,
		CreatedAt:     &createdAt,
		UpdatedAt:     &updatedAt,
	}
}

func dtoToAlarm(dto AlarmDTO) Alarm {
	a := Alarm{
		ID:            dto.ID,
		Date:          dto.Date,
		Time:          dto.Time,
		Enabled:       true,
		Sound:         dto.Sound,
		Volume:        100,
		SnoozeMinutes: 5,
	}
	if dto.Enabled != nil {
		a.Enabled = *dto.Enabled
	}
	if a.Sound == "" {
		a.Sound = "default"
	}
	if dto.Volume != nil {
		a.Volume = *dto.Volume
	}
	if dto.SnoozeMinutes != nil {
		a.SnoozeMinutes = *dto.SnoozeMinutes
	}
	return a
}
