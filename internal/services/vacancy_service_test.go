package services

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/maxaizer/vacancy-service/internal/apperrors"
	"github.com/maxaizer/vacancy-service/internal/clients/hh"
	"github.com/maxaizer/vacancy-service/internal/entities"
)

type mockHhFetcher struct {
	mock.Mock
}

func (m *mockHhFetcher) GetVacancy(id string) (hh.Vacancy, error) {
	args := m.Called(id)
	return args.Get(0).(hh.Vacancy), args.Error(1)
}

func hhVacancyFixture(id string) hh.Vacancy {
	return hh.Vacancy{
		ID:          hh.ID(id),
		Name:        "Go developer",
		Description: "Backend role",
		Employer: &hh.Employer{
			Name:     "Acme",
			LogoURLs: &hh.LogoURLs{Original: "https://example.com/logo.png"},
		},
		Address:     &hh.Address{Raw: "Moscow, Tverskaya 1"},
		PublishedAt: &hh.CustomTime{Time: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)},
	}
}

func newTestVacancyService(t *testing.T) (*VacancyService, *mockHhFetcher) {
	t.Helper()

	fetcher := &mockHhFetcher{}
	return NewVacancyService(newTestFactory(t), fetcher), fetcher
}

func Test_VacancyService_CreateFromData(t *testing.T) {

	service, _ := newTestVacancyService(t)

	created, err := service.Create(context.Background(), &VacancyCreate{
		Title:       "Go developer",
		CompanyName: "Acme",
		Status:      entities.VacancyStatusActive,
	}, "")
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Nil(t, created.HhID)
}

func Test_VacancyService_CreateFromHh(t *testing.T) {

	service, fetcher := newTestVacancyService(t)
	fetcher.On("GetVacancy", "123").Return(hhVacancyFixture("123"), nil)

	created, err := service.Create(context.Background(), nil, "123")
	require.NoError(t, err)

	assert.Equal(t, "Go developer", created.Title)
	assert.Equal(t, "Acme", created.CompanyName)
	assert.Equal(t, "Moscow, Tverskaya 1", created.CompanyAddress)
	assert.Equal(t, "https://example.com/logo.png", created.CompanyLogo)
	assert.Equal(t, entities.VacancyStatusActive, created.Status)
	require.NotNil(t, created.HhID)
	assert.Equal(t, "123", *created.HhID)
	require.NotNil(t, created.PublishedAt)
	assert.Equal(t, 2024, created.PublishedAt.Year())
}

func Test_VacancyService_CreateFailedFetchLeavesNoRow(t *testing.T) {

	service, fetcher := newTestVacancyService(t)
	fetcher.On("GetVacancy", "404").Return(hh.Vacancy{}, errors.New("not found"))

	_, err := service.Create(context.Background(), nil, "404")
	assert.True(t, apperrors.IsKind(err, apperrors.KindExternal))

	list, err := service.GetList(context.Background(), 0, 10)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func Test_VacancyService_CreateWithoutDataOrIDIsBadRequest(t *testing.T) {

	service, _ := newTestVacancyService(t)

	_, err := service.Create(context.Background(), nil, "")
	assert.True(t, apperrors.IsKind(err, apperrors.KindBadRequest))
}

func Test_VacancyService_CreateDuplicateHhIDIsConflict(t *testing.T) {

	service, fetcher := newTestVacancyService(t)
	fetcher.On("GetVacancy", "123").Return(hhVacancyFixture("123"), nil)

	_, err := service.Create(context.Background(), nil, "123")
	require.NoError(t, err)

	_, err = service.Create(context.Background(), nil, "123")
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func Test_VacancyService_PartialUpdateLeavesOtherFields(t *testing.T) {

	service, _ := newTestVacancyService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, &VacancyCreate{
		Title:       "old title",
		CompanyName: "Acme",
		Status:      entities.VacancyStatusActive,
	}, "")
	require.NoError(t, err)

	updated, err := service.Update(ctx, created.ID, entities.VacancyUpdate{
		Title: lo.ToPtr("new title"),
	})
	require.NoError(t, err)
	assert.Equal(t, "new title", updated.Title)
	assert.Equal(t, "Acme", updated.CompanyName)
	assert.Equal(t, entities.VacancyStatusActive, updated.Status)
}

func Test_VacancyService_UpdateWithNewHhIDMergesFetchedFields(t *testing.T) {

	service, fetcher := newTestVacancyService(t)
	fetcher.On("GetVacancy", "123").Return(hhVacancyFixture("123"), nil)
	ctx := context.Background()

	created, err := service.Create(ctx, &VacancyCreate{
		Title:       "caller title",
		CompanyName: "old company",
		Status:      entities.VacancyStatusActive,
	}, "")
	require.NoError(t, err)

	updated, err := service.Update(ctx, created.ID, entities.VacancyUpdate{
		Title: lo.ToPtr("caller title wins"),
		HhID:  lo.ToPtr("123"),
	})
	require.NoError(t, err)

	// caller-supplied fields keep priority, fetched ones fill the rest
	assert.Equal(t, "caller title wins", updated.Title)
	assert.Equal(t, "Acme", updated.CompanyName)
	require.NotNil(t, updated.HhID)
	assert.Equal(t, "123", *updated.HhID)
}

func Test_VacancyService_UpdateSameHhIDSkipsFetch(t *testing.T) {

	service, fetcher := newTestVacancyService(t)
	fetcher.On("GetVacancy", "123").Return(hhVacancyFixture("123"), nil).Once()
	ctx := context.Background()

	created, err := service.Create(ctx, nil, "123")
	require.NoError(t, err)

	_, err = service.Update(ctx, created.ID, entities.VacancyUpdate{
		Title: lo.ToPtr("new title"),
		HhID:  lo.ToPtr("123"),
	})
	require.NoError(t, err)

	fetcher.AssertNumberOfCalls(t, "GetVacancy", 1)
}

func Test_VacancyService_UpdateMissingIsNotFound(t *testing.T) {

	service, _ := newTestVacancyService(t)

	_, err := service.Update(context.Background(), 42, entities.VacancyUpdate{
		Title: lo.ToPtr("title"),
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func Test_VacancyService_GetMissingIsNotFound(t *testing.T) {

	service, _ := newTestVacancyService(t)

	_, err := service.Get(context.Background(), 42)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func Test_VacancyService_Delete(t *testing.T) {

	service, _ := newTestVacancyService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, &VacancyCreate{Title: "to delete"}, "")
	require.NoError(t, err)

	require.NoError(t, service.Delete(ctx, created.ID))

	err = service.Delete(ctx, created.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func Test_VacancyService_RefreshFromHh(t *testing.T) {

	service, fetcher := newTestVacancyService(t)
	ctx := context.Background()

	fixture := hhVacancyFixture("123")
	fetcher.On("GetVacancy", "123").Return(fixture, nil).Once()

	created, err := service.Create(ctx, nil, "123")
	require.NoError(t, err)

	fixture.Name = "renamed on hh"
	fetcher.On("GetVacancy", "123").Return(fixture, nil).Once()

	refreshed, err := service.RefreshFromHh(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed on hh", refreshed.Title)
}

func Test_VacancyService_RefreshWithoutHhIDIsBadRequest(t *testing.T) {

	service, _ := newTestVacancyService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, &VacancyCreate{Title: "local only"}, "")
	require.NoError(t, err)

	_, err = service.RefreshFromHh(ctx, created.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindBadRequest))
}

func Test_VacancyService_RefreshMissingIsNotFound(t *testing.T) {

	service, _ := newTestVacancyService(t)

	_, err := service.RefreshFromHh(context.Background(), 42)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}
