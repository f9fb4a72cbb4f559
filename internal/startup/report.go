// Package startup records what happened while the process booted.
package startup

import (
	"time"

	"github.com/newsroom-api/internal/database"
)

// Report is produced once in main and handed to the debug handler.
// It is a value: nothing mutates it after Build.
type Report struct {
	StartedAt      time.Time               `json:"started_at"`
	Version        string                  `json:"version"`
	Migrations     database.MigrationState `json:"migrations"`
	MigrationError string                  `json:"migration_error,omitempty"`
	Cache          string                  `json:"cache"`
	CacheError     string                  `json:"cache_error,omitempty"`
	Checks         map[string]string       `json:"checks"`
}

// Builder accumulates boot results before they are frozen into a Report
type Builder struct {
	report Report
}

// NewBuilder starts a report stamped with the boot time
func NewBuilder(version string, startedAt time.Time) *Builder {
	return &Builder{report: Report{
		StartedAt: startedAt.UTC(),
		Version:   version,
		Cache:     "disabled",
		Checks:    map[string]string{},
	}}
}

// Migrations records the migration outcome
func (b *Builder) Migrations(state database.MigrationState, err error) *Builder {
	b.report.Migrations = state
	if err != nil {
		b.report.MigrationError = err.Error()
	}
	return b
}

// Cache records whether the image validation cache is in use
func (b *Builder) Cache(mode string, err error) *Builder {
	b.report.Cache = mode
	if err != nil {
		b.report.CacheError = err.Error()
	}
	return b
}

// Check records a named check result, "ok" when err is nil
func (b *Builder) Check(name string, err error) *Builder {
	if err != nil {
		b.report.Checks[name] = err.Error()
	} else {
		b.report.Checks[name] = "ok"
	}
	return b
}

// Build returns the finished report. The checks map is copied so later
// Builder calls can not reach it.
func (b *Builder) Build() Report {
	r := b.report
	r.Checks = make(map[string]string, len(b.report.Checks))
	for k, v := range b.report.Checks {
		r.Checks[k] = v
	}
	return r
}

// Healthy reports whether every recorded step succeeded
func (r Report) Healthy() bool {
	if r.MigrationError != "" || r.Migrations.Dirty {
		return false
	}
	for _, v := range r.Checks {
		if v != "ok" {
			return false
		}
	}
	return true
}
