package services

import (
	"context"
	"time"

	"github.com/maxaizer/vacancy-service/internal/apperrors"
	"github.com/maxaizer/vacancy-service/internal/clients/hh"
	"github.com/maxaizer/vacancy-service/internal/entities"
	"github.com/maxaizer/vacancy-service/internal/repositories"
)

type hhFetcher interface {
	GetVacancy(id string) (hh.Vacancy, error)
}

// VacancyCreate carries caller-supplied fields for a new vacancy.
type VacancyCreate struct {
	Title          string
	CompanyName    string
	CompanyAddress string
	CompanyLogo    string
	Description    string
	Status         string
	HhID           *string
	PublishedAt    *time.Time
}

type VacancyService struct {
	uow *repositories.Factory
	hh  hhFetcher
}

func NewVacancyService(uow *repositories.Factory, hhClient hhFetcher) *VacancyService {
	return &VacancyService{uow: uow, hh: hhClient}
}

// Create inserts a vacancy either from the supplied data or, when an
// hh.ru id is given, from a fresh fetch against the hh API.
func (s *VacancyService) Create(ctx context.Context, data *VacancyCreate, hhID string) (*entities.Vacancy, error) {

	if hhID != "" {
		fetched, err := s.hh.GetVacancy(hhID)
		if err != nil {
			return nil, apperrors.External(err, "failed to fetch vacancy %v from hh.ru", hhID)
		}
		data = vacancyCreateFromHh(fetched)
	}

	if data == nil {
		return nil, apperrors.BadRequest("either vacancy data or an hh.ru id must be provided")
	}

	var created *entities.Vacancy
	err := s.uow.Do(ctx, func(uow *repositories.UnitOfWork) error {
		vacancies, err := uow.Vacancies()
		if err != nil {
			return err
		}

		if data.HhID != nil {
			existing, err := vacancies.GetByHhID(*data.HhID)
			if err != nil {
				return err
			}
			if existing != nil {
				return apperrors.Conflict("vacancy with hh.ru id %v already exists", *data.HhID)
			}
		}

		created, err = vacancies.Create(entities.Vacancy{
			Status:         data.Status,
			Title:          data.Title,
			CompanyName:    data.CompanyName,
			CompanyAddress: data.CompanyAddress,
			CompanyLogo:    data.CompanyLogo,
			Description:    data.Description,
			HhID:           data.HhID,
			PublishedAt:    data.PublishedAt,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update applies a partial update. When the update carries an hh.ru id
// different from the stored one, the vacancy is re-fetched and fetched
// fields fill in whatever the caller left unset.
func (s *VacancyService) Update(ctx context.Context, id int, update entities.VacancyUpdate) (*entities.Vacancy, error) {

	var updated *entities.Vacancy
	err := s.uow.Do(ctx, func(uow *repositories.UnitOfWork) error {
		vacancies, err := uow.Vacancies()
		if err != nil {
			return err
		}

		vacancy, err := vacancies.GetByID(id)
		if err != nil {
			return err
		}
		if vacancy == nil {
			return apperrors.NotFound("vacancy with id %v not found", id)
		}

		if update.HhID != nil && (vacancy.HhID == nil || *update.HhID != *vacancy.HhID) {
			fetched, err := s.hh.GetVacancy(*update.HhID)
			if err != nil {
				return apperrors.External(err, "failed to fetch vacancy %v from hh.ru", *update.HhID)
			}
			update = update.Merge(vacancyUpdateFromHh(fetched))
		}

		updated, err = vacancies.Update(id, update)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *VacancyService) Get(ctx context.Context, id int) (*entities.Vacancy, error) {

	var vacancy *entities.Vacancy
	err := s.uow.Do(ctx, func(uow *repositories.UnitOfWork) error {
		vacancies, err := uow.Vacancies()
		if err != nil {
			return err
		}

		if vacancy, err = vacancies.GetByID(id); err != nil {
			return err
		}
		if vacancy == nil {
			return apperrors.NotFound("vacancy with id %v not found", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return vacancy, nil
}

func (s *VacancyService) Delete(ctx context.Context, id int) error {

	return s.uow.Do(ctx, func(uow *repositories.UnitOfWork) error {
		vacancies, err := uow.Vacancies()
		if err != nil {
			return err
		}

		deleted, err := vacancies.Delete(id)
		if err != nil {
			return err
		}
		if !deleted {
			return apperrors.NotFound("vacancy with id %v not found", id)
		}
		return nil
	})
}

// RefreshFromHh overwrites all hh-mapped fields from a fresh fetch.
func (s *VacancyService) RefreshFromHh(ctx context.Context, id int) (*entities.Vacancy, error) {

	var refreshed *entities.Vacancy
	err := s.uow.Do(ctx, func(uow *repositories.UnitOfWork) error {
		vacancies, err := uow.Vacancies()
		if err != nil {
			return err
		}

		vacancy, err := vacancies.GetByID(id)
		if err != nil {
			return err
		}
		if vacancy == nil {
			return apperrors.NotFound("vacancy with id %v not found", id)
		}
		if vacancy.HhID == nil {
			return apperrors.BadRequest("vacancy with id %v has no hh.ru id", id)
		}

		fetched, err := s.hh.GetVacancy(*vacancy.HhID)
		if err != nil {
			return apperrors.External(err, "failed to fetch vacancy %v from hh.ru", *vacancy.HhID)
		}

		refreshed, err = vacancies.Update(id, vacancyUpdateFromHh(fetched))
		return err
	})
	if err != nil {
		return nil, err
	}
	return refreshed, nil
}

func (s *VacancyService) GetList(ctx context.Context, skip int, limit int) ([]entities.Vacancy, error) {

	var list []entities.Vacancy
	err := s.uow.Do(ctx, func(uow *repositories.UnitOfWork) error {
		vacancies, err := uow.Vacancies()
		if err != nil {
			return err
		}

		list, err = vacancies.GetList(skip, limit)
		return err
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

func vacancyCreateFromHh(v hh.Vacancy) *VacancyCreate {
	hhID := string(v.ID)
	return &VacancyCreate{
		Title:          v.Name,
		CompanyName:    v.EmployerName(),
		CompanyAddress: v.AddressRaw(),
		CompanyLogo:    v.EmployerLogo(),
		Description:    v.Description,
		Status:         entities.VacancyStatusActive,
		HhID:           &hhID,
		PublishedAt:    publishedAtOf(v),
	}
}

func vacancyUpdateFromHh(v hh.Vacancy) entities.VacancyUpdate {
	hhID := string(v.ID)
	status := entities.VacancyStatusActive
	title := v.Name
	companyName := v.EmployerName()
	companyAddress := v.AddressRaw()
	companyLogo := v.EmployerLogo()
	description := v.Description
	return entities.VacancyUpdate{
		Status:         &status,
		Title:          &title,
		CompanyName:    &companyName,
		CompanyAddress: &companyAddress,
		CompanyLogo:    &companyLogo,
		Description:    &description,
		HhID:           &hhID,
		PublishedAt:    publishedAtOf(v),
	}
}

func publishedAtOf(v hh.Vacancy) *time.Time {
	if v.PublishedAt == nil || v.PublishedAt.IsZero() {
		return nil
	}
	publishedAt := v.PublishedAt.Time
	return &publishedAt
}
