package pattern

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alario/alario/internal/event_bus"
	"github.com/alario/alario/internal/test_utils"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHandlerTest(t *testing.T) http.Handler {
	t.Helper()

	bus := event_bus.NewEventBus()
	service := NewService(NewStubPatternRepo(), bus)
	handler := NewHandler(service)

	r := mux.NewRouter()
	r.HandleFunc("/api/pattern", handler.ListPatterns).Methods("GET")
	r.HandleFunc("/api/pattern", handler.CreatePattern).Methods("POST")
	r.HandleFunc("/api/pattern/{patternId}", handler.GetPattern).Methods("GET")
	r.HandleFunc("/api/pattern/{patternId}", handler.UpdatePattern).Methods("PUT")
	r.HandleFunc("/api/pattern/{patternId}", handler.DeletePattern).Methods("DELETE")
	return r
}

func doRequest(t *testing.T, router http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req.WithContext(test_utils.ContextWithTestUser()))
	return w
}

func validPatternDTO() PatternDTO {
	return PatternDTO{
		Name:  "Workday",
		Color: "#3366ff",
		Times: []AlarmTimeDTO{
			{Time: "06:30", Sound: "chimes", Volume: 80, SnoozeMinutes: 10},
		},
	}
}

func TestHandler_CreateAndGetPattern(t *testing.T) {
	router := setupHandlerTest(t)

	w := doRequest(t, router, http.MethodPost, "/api/pattern", validPatternDTO())
	require.Equal(t, http.StatusCreated, w.Code)

	var created PatternDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
	require.NotEmpty(t, created.ID)

	w = doRequest(t, router, http.MethodGet, "/api/pattern/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var fetched PatternDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&fetched))
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, "Workday", fetched.Name)
	assert.Equal(t, validPatternDTO().Times, fetched.Times)
}

func TestHandler_CreatePattern_Invalid(t *testing.T) {
	router := setupHandlerTest(t)

	dto := validPatternDTO()
	dto.Color = "blue"
	w := doRequest(t, router, http.MethodPost, "/api/pattern", dto)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var errResponse struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&errResponse))
	assert.Equal(t, "Invalid pattern data", errResponse.Error)
}

func TestHandler_ListPatterns(t *testing.T) {
	router := setupHandlerTest(t)

	w := doRequest(t, router, http.MethodGet, "/api/pattern", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var dtos []PatternDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&dtos))
	assert.Empty(t, dtos)

	require.Equal(t, http.StatusCreated, doRequest(t, router, http.MethodPost, "/api/pattern", validPatternDTO()).Code)

	w = doRequest(t, router, http.MethodGet, "/api/pattern", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&dtos))
	assert.Len(t, dtos, 1)
}

func TestHandler_GetPattern_NotFound(t *testing.T) {
	router := setupHandlerTest(t)

	w := doRequest(t, router, http.MethodGet, "/api/pattern/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_UpdatePattern(t *testing.T) {
	router := setupHandlerTest(t)

	w := doRequest(t, router, http.MethodPost, "/api/pattern", validPatternDTO())
	require.Equal(t, http.StatusCreated, w.Code)
	var created PatternDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))

	update := validPatternDTO()
	update.Name = "Workday (late)"
	w = doRequest(t, router, http.MethodPut, "/api/pattern/"+created.ID, update)
	require.Equal(t, http.StatusOK, w.Code)

	var updated PatternDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&updated))
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Workday (late)", updated.Name)
}

func TestHandler_DeletePattern(t *testing.T) {
	router := setupHandlerTest(t)

	w := doRequest(t, router, http.MethodPost, "/api/pattern", validPatternDTO())
	require.Equal(t, http.StatusCreated, w.Code)
	var created PatternDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))

	assert.Equal(t, http.StatusNoContent, doRequest(t, router, http.MethodDelete, "/api/pattern/"+created.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, doRequest(t, router, http.MethodDelete, "/api/pattern/"+created.ID, nil).Code)
}
