package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/maxaizer/vacancy-service/internal/entities"
)

type Users struct {
	db *gorm.DB
}

func NewUsersRepository(db *gorm.DB) *Users {
	return &Users{db: db}
}

func (repo *Users) GetByID(id int) (*entities.User, error) {

	var user entities.User
	if err := repo.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (repo *Users) GetByUsername(username string) (*entities.User, error) {

	var user entities.User
	if err := repo.db.First(&user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Create inserts the user and assigns its identifier. The surrounding
// unit of work is responsible for the commit.
func (repo *Users) Create(user entities.User) (*entities.User, error) {
	if err := repo.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (repo *Users) Update(id int, update entities.UserUpdate) (*entities.User, error) {

	user, err := repo.GetByID(id)
	if user == nil || err != nil {
		return nil, err
	}

	fields := update.Fields()
	if len(fields) == 0 {
		return user, nil
	}

	if err = repo.db.Model(user).Updates(fields).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (repo *Users) Delete(id int) (*entities.User, error) {

	user, err := repo.GetByID(id)
	if user == nil || err != nil {
		return nil, err
	}

	if err = repo.db.Delete(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}
