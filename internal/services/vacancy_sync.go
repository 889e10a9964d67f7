package services

import (
	"context"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"github.com/maxaizer/vacancy-service/internal/config"
	"github.com/maxaizer/vacancy-service/internal/entities"
	"github.com/maxaizer/vacancy-service/internal/events"
	"github.com/maxaizer/vacancy-service/internal/logger"
	"github.com/maxaizer/vacancy-service/internal/metrics"
	"github.com/maxaizer/vacancy-service/internal/repositories"
)

const syncPageSize = 20

// VacancySync periodically re-fetches externally-sourced vacancies and
// marks stale ones as outdated. Each record gets its own unit of work,
// so one failure never aborts the whole run.
type VacancySync struct {
	uow             *repositories.Factory
	hh              hhFetcher
	bus             EventBus.Bus
	cron            *cron.Cron
	stalenessWindow time.Duration
}

func NewVacancySync(uow *repositories.Factory, hhClient hhFetcher, bus EventBus.Bus,
	cfg config.SyncConfig) (*VacancySync, error) {

	s := &VacancySync{
		uow:             uow,
		hh:              hhClient,
		bus:             bus,
		cron:            cron.New(),
		stalenessWindow: time.Duration(cfg.StalenessDays) * 24 * time.Hour,
	}

	_, err := s.cron.AddFunc(cfg.RefreshCron, s.RefreshAll)
	if err != nil {
		return nil, err
	}

	_, err = s.cron.AddFunc(cfg.StalenessCron, s.MarkOutdated)
	if err != nil {
		return nil, err
	}

	return s, nil
}

func (s *VacancySync) Start() {
	s.cron.Start()
	log.Infof("vacancy sync started, staleness window: %v", s.stalenessWindow)
}

func (s *VacancySync) Stop() {
	s.cron.Stop()
}

// RefreshAll re-fetches every vacancy with an hh.ru id. Per-record
// failures are logged and skipped.
func (s *VacancySync) RefreshAll() {

	var refreshed, failed int

	s.forEachExternal(func(vacancy entities.Vacancy) {
		if err := s.refreshOne(vacancy); err != nil {
			failed++
			metrics.FailedRefreshesCounter.Inc()
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeHhApi).
				Errorf("failed to refresh vacancy %v: %v", vacancy.ID, err)
			return
		}
		refreshed++
		metrics.RefreshedVacanciesCounter.Inc()
	})

	log.Infof("vacancy refresh finished, refreshed: %v, failed: %v", refreshed, failed)
}

// MarkOutdated stamps a missing publish date to now and marks vacancies
// published more than the staleness window ago as outdated.
func (s *VacancySync) MarkOutdated() {

	now := time.Now().UTC()
	cutoff := now.Add(-s.stalenessWindow)
	var marked int

	s.forEachExternal(func(vacancy entities.Vacancy) {
		err := s.uow.Do(context.Background(), func(uow *repositories.UnitOfWork) error {
			vacancies, err := uow.Vacancies()
			if err != nil {
				return err
			}

			update := entities.VacancyUpdate{}
			if vacancy.PublishedAt == nil {
				update.PublishedAt = &now
			} else if vacancy.PublishedAt.Before(cutoff) && vacancy.Status != entities.VacancyStatusOutdated {
				outdated := entities.VacancyStatusOutdated
				update.Status = &outdated
			} else {
				return nil
			}

			if _, err = vacancies.Update(vacancy.ID, update); err != nil {
				return err
			}

			if update.Status != nil {
				marked++
				metrics.OutdatedVacanciesCounter.Inc()
				s.bus.Publish(events.VacancyMarkedOutdatedTopic, events.VacancyMarkedOutdated{
					VacancyID: vacancy.ID,
					HhID:      *vacancy.HhID,
				})
			}
			return nil
		})
		if err != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
				Errorf("failed to sweep vacancy %v: %v", vacancy.ID, err)
		}
	})

	log.Infof("staleness sweep finished, marked outdated: %v", marked)
}

func (s *VacancySync) refreshOne(vacancy entities.Vacancy) error {

	fetched, err := s.hh.GetVacancy(*vacancy.HhID)
	if err != nil {
		return err
	}

	err = s.uow.Do(context.Background(), func(uow *repositories.UnitOfWork) error {
		vacancies, err := uow.Vacancies()
		if err != nil {
			return err
		}

		_, err = vacancies.Update(vacancy.ID, vacancyUpdateFromHh(fetched))
		return err
	})
	if err != nil {
		return err
	}

	s.bus.Publish(events.VacancyRefreshedTopic, events.VacancyRefreshed{
		VacancyID: vacancy.ID,
		HhID:      *vacancy.HhID,
	})
	return nil
}

func (s *VacancySync) forEachExternal(handle func(vacancy entities.Vacancy)) {

	for skip := 0; ; skip += syncPageSize {

		var page []entities.Vacancy
		err := s.uow.Do(context.Background(), func(uow *repositories.UnitOfWork) error {
			vacancies, err := uow.Vacancies()
			if err != nil {
				return err
			}

			page, err = vacancies.GetExternal(skip, syncPageSize)
			return err
		})
		if err != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
				Errorf("failed to get vacancies page: %v", err)
			return
		}
		if len(page) == 0 {
			return
		}

		for _, vacancy := range page {
			handle(vacancy)
		}
	}
}
