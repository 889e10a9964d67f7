package server

import (
	"encoding/json"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/maxaizer/vacancy-service/internal/apperrors"
	"github.com/maxaizer/vacancy-service/internal/entities"
	"github.com/maxaizer/vacancy-service/internal/logger"
)

type errorResponse struct {
	Detail string `json:"detail"`
}

type vacancyResponse struct {
	ID             int        `json:"id"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	Status         string     `json:"status"`
	Title          string     `json:"title"`
	CompanyName    string     `json:"company_name"`
	CompanyAddress string     `json:"company_address"`
	CompanyLogo    string     `json:"company_logo"`
	Description    string     `json:"description"`
	HhID           *string    `json:"hh_id"`
	PublishedAt    *time.Time `json:"published_at"`
}

func vacancyResponseOf(vacancy *entities.Vacancy) vacancyResponse {
	return vacancyResponse{
		ID:             vacancy.ID,
		CreatedAt:      vacancy.CreatedAt,
		UpdatedAt:      vacancy.UpdatedAt,
		Status:         vacancy.Status,
		Title:          vacancy.Title,
		CompanyName:    vacancy.CompanyName,
		CompanyAddress: vacancy.CompanyAddress,
		CompanyLogo:    vacancy.CompanyLogo,
		Description:    vacancy.Description,
		HhID:           vacancy.HhID,
		PublishedAt:    vacancy.PublishedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeHttp).
			Errorf("failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {

	status := http.StatusInternalServerError
	detail := "internal server error"

	switch apperrors.KindOf(err) {
	case apperrors.KindNotFound:
		status = http.StatusNotFound
		detail = err.Error()
	case apperrors.KindConflict:
		status = http.StatusConflict
		detail = err.Error()
	case apperrors.KindBadRequest, apperrors.KindExternal:
		status = http.StatusBadRequest
		detail = err.Error()
	case apperrors.KindUnauthorized:
		status = http.StatusUnauthorized
		detail = err.Error()
		w.Header().Set("WWW-Authenticate", "Bearer")
	default:
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeHttp).
			Errorf("unhandled error: %v", err)
	}

	writeJSON(w, status, errorResponse{Detail: detail})
}
