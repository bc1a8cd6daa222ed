package model

import (
	"time"

	"github.com/google/uuid"
)

// Run описывает один запуск отрисовки
type Run struct {
	ID        string
	Variant   string
	Seed      uint64
	Lang      string
	Output    string
	StartedAt time.Time
}

func NewRun(variant string, seed uint64, lang string) *Run {
	return &Run{
		ID:        uuid.New().String(),
		Variant:   variant,
		Seed:      seed,
		Lang:      lang,
		StartedAt: time.Now(),
	}
}
