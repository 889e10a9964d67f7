package services

import (
	"context"
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxaizer/vacancy-service/internal/clients/hh"
	"github.com/maxaizer/vacancy-service/internal/config"
	"github.com/maxaizer/vacancy-service/internal/entities"
	"github.com/maxaizer/vacancy-service/internal/events"
	"github.com/maxaizer/vacancy-service/internal/repositories"
)

func newTestVacancySync(t *testing.T, factory *repositories.Factory,
	fetcher *mockHhFetcher) (*VacancySync, EventBus.Bus) {
	t.Helper()

	bus := EventBus.New()
	sync, err := NewVacancySync(factory, fetcher, bus, config.SyncConfig{
		RefreshCron:   "0 */4 * * *",
		StalenessCron: "0 0 * * *",
		StalenessDays: 14,
	})
	require.NoError(t, err)
	return sync, bus
}

func seedVacancy(t *testing.T, factory *repositories.Factory, vacancy entities.Vacancy) *entities.Vacancy {
	t.Helper()

	var created *entities.Vacancy
	err := factory.Do(context.Background(), func(uow *repositories.UnitOfWork) error {
		vacancies, err := uow.Vacancies()
		if err != nil {
			return err
		}
		created, err = vacancies.Create(vacancy)
		return err
	})
	require.NoError(t, err)
	return created
}

func getVacancy(t *testing.T, factory *repositories.Factory, id int) *entities.Vacancy {
	t.Helper()

	var vacancy *entities.Vacancy
	err := factory.Do(context.Background(), func(uow *repositories.UnitOfWork) error {
		vacancies, err := uow.Vacancies()
		if err != nil {
			return err
		}
		vacancy, err = vacancies.GetByID(id)
		return err
	})
	require.NoError(t, err)
	require.NotNil(t, vacancy)
	return vacancy
}

func Test_VacancySync_RefreshAllUpdatesExternalVacancies(t *testing.T) {

	factory := newTestFactory(t)
	fetcher := &mockHhFetcher{}
	sync, bus := newTestVacancySync(t, factory, fetcher)

	external := seedVacancy(t, factory, entities.Vacancy{
		Title: "stale title", HhID: lo.ToPtr("123"), Status: entities.VacancyStatusActive,
	})
	local := seedVacancy(t, factory, entities.Vacancy{Title: "local"})

	fetcher.On("GetVacancy", "123").Return(hhVacancyFixture("123"), nil)

	var refreshedEvents []events.VacancyRefreshed
	require.NoError(t, bus.Subscribe(events.VacancyRefreshedTopic, func(e events.VacancyRefreshed) {
		refreshedEvents = append(refreshedEvents, e)
	}))

	sync.RefreshAll()

	assert.Equal(t, "Go developer", getVacancy(t, factory, external.ID).Title)
	assert.Equal(t, "local", getVacancy(t, factory, local.ID).Title)

	require.Len(t, refreshedEvents, 1)
	assert.Equal(t, external.ID, refreshedEvents[0].VacancyID)
	assert.Equal(t, "123", refreshedEvents[0].HhID)
}

func Test_VacancySync_RefreshAllSkipsFailedRecords(t *testing.T) {

	factory := newTestFactory(t)
	fetcher := &mockHhFetcher{}
	sync, _ := newTestVacancySync(t, factory, fetcher)

	broken := seedVacancy(t, factory, entities.Vacancy{Title: "broken", HhID: lo.ToPtr("404")})
	healthy := seedVacancy(t, factory, entities.Vacancy{Title: "healthy", HhID: lo.ToPtr("123")})

	fetcher.On("GetVacancy", "404").Return(hh.Vacancy{}, errors.New("not found"))
	fetcher.On("GetVacancy", "123").Return(hhVacancyFixture("123"), nil)

	sync.RefreshAll()

	assert.Equal(t, "broken", getVacancy(t, factory, broken.ID).Title)
	assert.Equal(t, "Go developer", getVacancy(t, factory, healthy.ID).Title)
}

func Test_VacancySync_MarkOutdatedFlagsStaleVacancies(t *testing.T) {

	factory := newTestFactory(t)
	fetcher := &mockHhFetcher{}
	sync, bus := newTestVacancySync(t, factory, fetcher)

	stale := seedVacancy(t, factory, entities.Vacancy{
		Title:       "stale",
		HhID:        lo.ToPtr("1"),
		Status:      entities.VacancyStatusActive,
		PublishedAt: lo.ToPtr(time.Now().UTC().Add(-30 * 24 * time.Hour)),
	})
	fresh := seedVacancy(t, factory, entities.Vacancy{
		Title:       "fresh",
		HhID:        lo.ToPtr("2"),
		Status:      entities.VacancyStatusActive,
		PublishedAt: lo.ToPtr(time.Now().UTC().Add(-2 * 24 * time.Hour)),
	})

	var outdatedEvents []events.VacancyMarkedOutdated
	require.NoError(t, bus.Subscribe(events.VacancyMarkedOutdatedTopic, func(e events.VacancyMarkedOutdated) {
		outdatedEvents = append(outdatedEvents, e)
	}))

	sync.MarkOutdated()

	assert.Equal(t, entities.VacancyStatusOutdated, getVacancy(t, factory, stale.ID).Status)
	assert.Equal(t, entities.VacancyStatusActive, getVacancy(t, factory, fresh.ID).Status)

	require.Len(t, outdatedEvents, 1)
	assert.Equal(t, stale.ID, outdatedEvents[0].VacancyID)
}

func Test_VacancySync_MarkOutdatedStampsMissingPublishDate(t *testing.T) {

	factory := newTestFactory(t)
	fetcher := &mockHhFetcher{}
	sync, _ := newTestVacancySync(t, factory, fetcher)

	unstamped := seedVacancy(t, factory, entities.Vacancy{
		Title:  "no publish date",
		HhID:   lo.ToPtr("1"),
		Status: entities.VacancyStatusActive,
	})

	sync.MarkOutdated()

	got := getVacancy(t, factory, unstamped.ID)
	require.NotNil(t, got.PublishedAt)
	assert.WithinDuration(t, time.Now().UTC(), *got.PublishedAt, time.Minute)
	assert.Equal(t, entities.VacancyStatusActive, got.Status)
}

func Test_VacancySync_MarkOutdatedIsIdempotent(t *testing.T) {

	factory := newTestFactory(t)
	fetcher := &mockHhFetcher{}
	sync, bus := newTestVacancySync(t, factory, fetcher)

	seedVacancy(t, factory, entities.Vacancy{
		Title:       "stale",
		HhID:        lo.ToPtr("1"),
		Status:      entities.VacancyStatusActive,
		PublishedAt: lo.ToPtr(time.Now().UTC().Add(-30 * 24 * time.Hour)),
	})

	var eventCount int
	require.NoError(t, bus.Subscribe(events.VacancyMarkedOutdatedTopic, func(events.VacancyMarkedOutdated) {
		eventCount++
	}))

	sync.MarkOutdated()
	sync.MarkOutdated()

	assert.Equal(t, 1, eventCount)
}

func Test_VacancySync_RejectsInvalidCronExpression(t *testing.T) {

	factory := newTestFactory(t)

	_, err := NewVacancySync(factory, &mockHhFetcher{}, EventBus.New(), config.SyncConfig{
		RefreshCron:   "not a cron expression",
		StalenessCron: "0 0 * * *",
		StalenessDays: 14,
	})
	assert.Error(t, err)
}
