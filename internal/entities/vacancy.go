package entities

import "time"

const (
	VacancyStatusActive   = "active"
	VacancyStatusOutdated = "outdated"
)

type Vacancy struct {
	ID             int `gorm:"primaryKey"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Status         string
	Title          string
	CompanyName    string
	CompanyAddress string
	CompanyLogo    string
	Description    string  `gorm:"type:text"`
	HhID           *string `gorm:"column:hh_id;uniqueIndex"`
	PublishedAt    *time.Time
}

// VacancyUpdate describes a partial update; nil fields are left untouched.
// UpdatedAt is always stamped by the repository, never by the caller.
type VacancyUpdate struct {
	Status         *string
	Title          *string
	CompanyName    *string
	CompanyAddress *string
	CompanyLogo    *string
	Description    *string
	HhID           *string
	PublishedAt    *time.Time
}

func (u VacancyUpdate) Fields() map[string]any {
	fields := map[string]any{}
	if u.Status != nil {
		fields["status"] = *u.Status
	}
	if u.Title != nil {
		fields["title"] = *u.Title
	}
	if u.CompanyName != nil {
		fields["company_name"] = *u.CompanyName
	}
	if u.CompanyAddress != nil {
		fields["company_address"] = *u.CompanyAddress
	}
	if u.CompanyLogo != nil {
		fields["company_logo"] = *u.CompanyLogo
	}
	if u.Description != nil {
		fields["description"] = *u.Description
	}
	if u.HhID != nil {
		fields["hh_id"] = *u.HhID
	}
	if u.PublishedAt != nil {
		fields["published_at"] = *u.PublishedAt
	}
	return fields
}

// Merge fills the receiver's nil fields from other, so caller-supplied
// values keep priority over fetched ones.
func (u VacancyUpdate) Merge(other VacancyUpdate) VacancyUpdate {
	if u.Status == nil {
		u.Status = other.Status
	}
	if u.Title == nil {
		u.Title = other.Title
	}
	if u.CompanyName == nil {
		u.CompanyName = other.CompanyName
	}
	if u.CompanyAddress == nil {
		u.CompanyAddress = other.CompanyAddress
	}
	if u.CompanyLogo == nil {
		u.CompanyLogo = other.CompanyLogo
	}
	if u.Description == nil {
		u.Description = other.Description
	}
	if u.HhID == nil {
		u.HhID = other.HhID
	}
	if u.PublishedAt == nil {
		u.PublishedAt = other.PublishedAt
	}
	return u
}
