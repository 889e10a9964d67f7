package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"

	"github.com/maxaizer/vacancy-service/internal/apperrors"
	"github.com/maxaizer/vacancy-service/internal/entities"
	"github.com/maxaizer/vacancy-service/internal/services"
)

const defaultListLimit = 100

type vacancyCreateRequest struct {
	Title          string     `json:"title" validate:"required"`
	CompanyName    string     `json:"company_name" validate:"required"`
	CompanyAddress string     `json:"company_address"`
	CompanyLogo    string     `json:"company_logo"`
	Description    string     `json:"description"`
	Status         string     `json:"status" validate:"required"`
	HhID           *string    `json:"hh_id"`
	PublishedAt    *time.Time `json:"published_at"`
}

type vacancyUpdateRequest struct {
	Title          *string    `json:"title"`
	CompanyName    *string    `json:"company_name"`
	CompanyAddress *string    `json:"company_address"`
	CompanyLogo    *string    `json:"company_logo"`
	Description    *string    `json:"description"`
	Status         *string    `json:"status"`
	HhID           *string    `json:"hh_id"`
}

type VacancyHandler struct {
	vacancies *services.VacancyService
	validate  *validator.Validate
}

func NewVacancyHandler(vacancies *services.VacancyService) *VacancyHandler {
	return &VacancyHandler{vacancies: vacancies, validate: validator.New()}
}

// Create builds a vacancy either from the request body or, when the
// hh_id query parameter is present, from a fetch against hh.ru.
func (h *VacancyHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	hhID := r.URL.Query().Get("hh_id")

	var data *services.VacancyCreate
	var payload vacancyCreateRequest
	err := json.NewDecoder(r.Body).Decode(&payload)
	switch {
	case errors.Is(err, io.EOF):
		// empty body is fine when hh_id is given
	case err != nil:
		writeError(w, apperrors.BadRequest("invalid JSON body"))
		return
	default:
		if err := h.validate.Struct(payload); err != nil {
			writeError(w, apperrors.BadRequest("invalid vacancy data: %v", err))
			return
		}
		data = &services.VacancyCreate{
			Title:          payload.Title,
			CompanyName:    payload.CompanyName,
			CompanyAddress: payload.CompanyAddress,
			CompanyLogo:    payload.CompanyLogo,
			Description:    payload.Description,
			Status:         payload.Status,
			HhID:           payload.HhID,
			PublishedAt:    payload.PublishedAt,
		}
	}

	vacancy, err := h.vacancies.Create(r.Context(), data, hhID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, vacancyResponseOf(vacancy))
}

func (h *VacancyHandler) Update(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	id, ok := vacancyID(w, r)
	if !ok {
		return
	}

	var payload vacancyUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apperrors.BadRequest("invalid JSON body"))
		return
	}

	vacancy, err := h.vacancies.Update(r.Context(), id, entities.VacancyUpdate{
		Title:          payload.Title,
		CompanyName:    payload.CompanyName,
		CompanyAddress: payload.CompanyAddress,
		CompanyLogo:    payload.CompanyLogo,
		Description:    payload.Description,
		Status:         payload.Status,
		HhID:           payload.HhID,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, vacancyResponseOf(vacancy))
}

func (h *VacancyHandler) Get(w http.ResponseWriter, r *http.Request) {

	id, ok := vacancyID(w, r)
	if !ok {
		return
	}

	vacancy, err := h.vacancies.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, vacancyResponseOf(vacancy))
}

func (h *VacancyHandler) Delete(w http.ResponseWriter, r *http.Request) {

	id, ok := vacancyID(w, r)
	if !ok {
		return
	}

	if err := h.vacancies.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *VacancyHandler) RefreshFromHh(w http.ResponseWriter, r *http.Request) {

	id, ok := vacancyID(w, r)
	if !ok {
		return
	}

	vacancy, err := h.vacancies.RefreshFromHh(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, vacancyResponseOf(vacancy))
}

func (h *VacancyHandler) List(w http.ResponseWriter, r *http.Request) {

	skip := queryInt(r, "skip", 0)
	limit := queryInt(r, "limit", defaultListLimit)

	vacancies, err := h.vacancies.GetList(r.Context(), skip, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	responses := lo.Map(vacancies, func(vacancy entities.Vacancy, _ int) vacancyResponse {
		return vacancyResponseOf(&vacancy)
	})
	writeJSON(w, http.StatusOK, responses)
}

func vacancyID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, apperrors.BadRequest("invalid vacancy id"))
		return 0, false
	}
	return id, true
}

func queryInt(r *http.Request, name string, fallback int) int {
	value := r.URL.Query().Get(name)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return fallback
	}
	return parsed
}
