// Package jobs agrupa las tareas periódicas del servicio.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"pet-care-records/internal/domain/vaccinations"
	"pet-care-records/internal/platform/logger"
	"pet-care-records/internal/ports/changes"
)

type ExpiringSource interface {
	ListExpiring(ctx context.Context, days int) ([]vaccinations.Vaccination, error)
}

// ExpiryReminder busca vacunas que vencen dentro de la ventana y publica un
// evento "expiring" por cada una.
type ExpiryReminder struct {
	source     ExpiringSource
	events     changes.Publisher
	log        logger.Logger
	windowDays int

	now     func() time.Time
	timeout time.Duration
}

func NewExpiryReminder(source ExpiringSource, events changes.Publisher, log logger.Logger, windowDays int) *ExpiryReminder {
	if log == nil {
		log = logger.Nop()
	}
	return &ExpiryReminder{
		source:     source,
		events:     events,
		log:        log.With(map[string]any{"job": "vaccination_expiry"}),
		windowDays: windowDays,
		now:        time.Now,
		timeout:    time.Minute,
	}
}

// Run hace una pasada y devuelve cuántas vacunas notificó.
// Un fallo al publicar no corta la pasada; se reporta al final.
func (j *ExpiryReminder) Run(ctx context.Context) (int, error) {
	items, err := j.source.ListExpiring(ctx, j.windowDays)
	if err != nil {
		return 0, fmt.Errorf("list expiring vaccinations: %w", err)
	}

	at := j.now().UTC()
	var errs []error
	sent := 0
	for _, v := range items {
		j.log.Info("vaccination expiring", map[string]any{
			"vaccination_id":  v.ID,
			"pet_id":          v.PetID,
			"vaccine":         v.VaccineName,
			"expiration_date": v.ExpirationDate,
		})
		if j.events == nil {
			continue
		}
		err := j.events.Publish(ctx, changes.ChangeEvent{
			Entity: changes.EntityVaccination,
			Op:     changes.OpExpiring,
			ID:     v.ID,
			PetID:  v.PetID,
			At:     at,
		})
		if err != nil {
			errs = append(errs, err)
			continue
		}
		sent++
	}
	return sent, errors.Join(errs...)
}

func (j *ExpiryReminder) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	n, err := j.Run(ctx)
	if err != nil {
		j.log.Error("expiry run failed", map[string]any{"error": err.Error(), "sent": n})
		return
	}
	j.log.Debug("expiry run done", map[string]any{"sent": n})
}

// Schedule registra el job con una expresión cron de 5 campos y arranca el
// scheduler. El caller debe llamar Stop() al apagar.
func Schedule(spec string, job *ExpiryReminder) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(spec, job.tick); err != nil {
		return nil, fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}
	c.Start()
	return c, nil
}
