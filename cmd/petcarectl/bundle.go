package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"pet-care-records/internal/calendar"
)

// bundle es el formato YAML de `feed render`: el mismo FeedData que arma la
// API, escrito a mano o exportado para depurar un feed.
type bundle struct {
	Name string      `yaml:"name"`
	Pets []bundlePet `yaml:"pets"`
}

type bundlePet struct {
	ID           string              `yaml:"id"`
	Name         string              `yaml:"name"`
	CareEvents   []bundleCareEvent   `yaml:"care_events"`
	Vaccinations []bundleVaccination `yaml:"vaccinations"`
}

type bundleCareEvent struct {
	ID          string            `yaml:"id"`
	Type        string            `yaml:"type"`
	Title       string            `yaml:"title"`
	Description string            `yaml:"description"`
	Date        string            `yaml:"date"`
	Time        string            `yaml:"time"`
	Recurrence  *bundleRecurrence `yaml:"recurrence"`
	Location    string            `yaml:"location"`
	Notes       string            `yaml:"notes"`
}

type bundleRecurrence struct {
	Pattern    string `yaml:"pattern"`
	DayOfMonth int    `yaml:"day_of_month"`
	DayOfWeek  string `yaml:"day_of_week"`
	StartDate  string `yaml:"start_date"`
	EndDate    string `yaml:"end_date"`
}

type bundleVaccination struct {
	ID             string `yaml:"id"`
	VaccineName    string `yaml:"vaccine_name"`
	ExpirationDate string `yaml:"expiration_date"`
	Notes          string `yaml:"notes"`
}

func loadBundle(path string) (bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return bundle{}, err
	}
	var b bundle
	if err := yaml.Unmarshal(data, &b); err != nil {
		return bundle{}, fmt.Errorf("parse bundle %s: %w", path, err)
	}
	return b, nil
}

func (b bundle) feedData() calendar.FeedData {
	out := calendar.FeedData{Name: b.Name}
	for _, p := range b.Pets {
		out.Pets = append(out.Pets, calendar.PetRef{ID: p.ID, Name: p.Name})

		for _, e := range p.CareEvents {
			ev := calendar.CareEvent{
				ID:          e.ID,
				PetID:       p.ID,
				PetName:     p.Name,
				Type:        calendar.EventType(e.Type),
				Title:       e.Title,
				Description: e.Description,
				Date:        e.Date,
				Time:        e.Time,
				Location:    e.Location,
				Notes:       e.Notes,
			}
			if r := e.Recurrence; r != nil {
				ev.IsRecurring = true
				ev.Recurrence = calendar.Recurrence{
					Pattern:    calendar.Pattern(r.Pattern),
					DayOfMonth: r.DayOfMonth,
					DayOfWeek:  r.DayOfWeek,
					StartDate:  r.StartDate,
					EndDate:    r.EndDate,
				}
			}
			out.CareEvents = append(out.CareEvents, ev)
		}

		for _, v := range p.Vaccinations {
			out.Vaccinations = append(out.Vaccinations, calendar.VaccinationExpiry{
				ID:             v.ID,
				PetID:          p.ID,
				PetName:        p.Name,
				VaccineName:    v.VaccineName,
				ExpirationDate: v.ExpirationDate,
				Notes:          v.Notes,
			})
		}
	}
	return out
}
