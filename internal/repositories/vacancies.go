package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/maxaizer/vacancy-service/internal/entities"
)

type Vacancies struct {
	db *gorm.DB
}

func NewVacanciesRepository(db *gorm.DB) *Vacancies {
	return &Vacancies{db: db}
}

func (repo *Vacancies) GetByID(id int) (*entities.Vacancy, error) {

	var vacancy entities.Vacancy
	if err := repo.db.First(&vacancy, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vacancy, nil
}

func (repo *Vacancies) GetByHhID(hhID string) (*entities.Vacancy, error) {

	var vacancy entities.Vacancy
	if err := repo.db.First(&vacancy, "hh_id = ?", hhID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vacancy, nil
}

// Create inserts the vacancy and assigns its identifier. The surrounding
// unit of work is responsible for the commit.
func (repo *Vacancies) Create(vacancy entities.Vacancy) (*entities.Vacancy, error) {
	if err := repo.db.Create(&vacancy).Error; err != nil {
		return nil, err
	}
	return &vacancy, nil
}

// Update applies the non-nil fields of update and stamps updated_at to
// the current time regardless of what the caller supplied.
func (repo *Vacancies) Update(id int, update entities.VacancyUpdate) (*entities.Vacancy, error) {

	vacancy, err := repo.GetByID(id)
	if vacancy == nil || err != nil {
		return nil, err
	}

	fields := update.Fields()
	fields["updated_at"] = time.Now().UTC()

	if err = repo.db.Model(vacancy).Updates(fields).Error; err != nil {
		return nil, err
	}
	return vacancy, nil
}

func (repo *Vacancies) Delete(id int) (bool, error) {

	vacancy, err := repo.GetByID(id)
	if err != nil {
		return false, err
	}
	if vacancy == nil {
		return false, nil
	}

	if err = repo.db.Delete(vacancy).Error; err != nil {
		return false, err
	}
	return true, nil
}

func (repo *Vacancies) GetList(skip int, limit int) ([]entities.Vacancy, error) {

	var vacancies []entities.Vacancy
	if err := repo.db.
		Offset(skip).
		Limit(limit).
		Find(&vacancies).Error; err != nil {
		return nil, err
	}
	return vacancies, nil
}

// GetExternal pages through vacancies that carry an hh.ru identifier.
func (repo *Vacancies) GetExternal(skip int, limit int) ([]entities.Vacancy, error) {

	var vacancies []entities.Vacancy
	if err := repo.db.
		Where("hh_id IS NOT NULL").
		Offset(skip).
		Limit(limit).
		Find(&vacancies).Error; err != nil {
		return nil, err
	}
	return vacancies, nil
}
