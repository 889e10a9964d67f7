package events

var VacancyRefreshedTopic = "VacancyRefreshedEvent"

type VacancyRefreshed struct {
	VacancyID int
	HhID      string
}

var VacancyMarkedOutdatedTopic = "VacancyMarkedOutdatedEvent"

type VacancyMarkedOutdated struct {
	VacancyID int
	HhID      string
}
