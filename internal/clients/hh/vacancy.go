package hh

import (
	"encoding/json"
	"fmt"
	"time"
)

type Vacancy struct {
	ID          ID          `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Employer    *Employer   `json:"employer"`
	Address     *Address    `json:"address"`
	PublishedAt *CustomTime `json:"published_at"`
}

type Employer struct {
	Name     string    `json:"name"`
	LogoURLs *LogoURLs `json:"logo_urls"`
}

type LogoURLs struct {
	Original string `json:"original"`
}

type Address struct {
	Raw string `json:"raw"`
}

func (v Vacancy) EmployerName() string {
	if v.Employer == nil {
		return ""
	}
	return v.Employer.Name
}

func (v Vacancy) EmployerLogo() string {
	if v.Employer == nil || v.Employer.LogoURLs == nil {
		return ""
	}
	return v.Employer.LogoURLs.Original
}

func (v Vacancy) AddressRaw() string {
	if v.Address == nil {
		return ""
	}
	return v.Address.Raw
}

// ID tolerates both string and numeric identifiers in hh responses.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		*id = ID(str)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return fmt.Errorf("parsing vacancy id %s: %v", string(b), err)
	}
	*id = ID(num.String())
	return nil
}

type CustomTime struct {
	time.Time
}

func (dt *CustomTime) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}

	// hh occasionally returns an empty published_at; treat it as absent
	if str == "" {
		return nil
	}

	t, err := time.Parse("2006-01-02T15:04:05-0700", str)
	if err != nil {
		return fmt.Errorf("parsing time %s: %v", str, err)
	}
	dt.Time = t
	return nil
}
