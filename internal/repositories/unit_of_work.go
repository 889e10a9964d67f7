package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrSessionNotStarted is returned when a unit of work is used outside
// of a Factory.Do scope.
var ErrSessionNotStarted = errors.New("unit of work session not started")

// UnitOfWork owns one open transaction and hands out repositories bound
// to it. Repositories are constructed on first request and reused for
// the lifetime of the unit.
type UnitOfWork struct {
	tx        *gorm.DB
	users     *Users
	vacancies *Vacancies
}

func (u *UnitOfWork) Session() (*gorm.DB, error) {
	if u.tx == nil {
		return nil, ErrSessionNotStarted
	}
	return u.tx, nil
}

func (u *UnitOfWork) Users() (*Users, error) {
	if u.users == nil {
		session, err := u.Session()
		if err != nil {
			return nil, err
		}
		u.users = NewUsersRepository(session)
	}
	return u.users, nil
}

func (u *UnitOfWork) Vacancies() (*Vacancies, error) {
	if u.vacancies == nil {
		session, err := u.Session()
		if err != nil {
			return nil, err
		}
		u.vacancies = NewVacanciesRepository(session)
	}
	return u.vacancies, nil
}

// Factory produces a fresh unit of work per Do call. The scope commits
// when fn returns nil and rolls back when it returns an error; either
// way the session is closed and the unit is not reusable.
type Factory struct {
	db *gorm.DB
}

func NewFactory(db *gorm.DB) *Factory {
	return &Factory{db: db}
}

func (f *Factory) Do(ctx context.Context, fn func(uow *UnitOfWork) error) error {
	return f.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		uow := &UnitOfWork{tx: tx}
		err := fn(uow)
		uow.tx = nil
		return err
	})
}
