package entities

import (
	"fmt"
	"time"
)

// Clock returns the current time. Injected so that age derivation is deterministic in tests.
type Clock func() time.Time

// BuilderOption configures a PatientFileBuilder.
type BuilderOption func(*PatientFileBuilder)

// WithClock sets the time source used to derive the age of a living patient.
func WithClock(clock Clock) BuilderOption {
	return func(b *PatientFileBuilder) {
		if clock != nil {
			b.clock = clock
		}
	}
}

// WithoutDateOrderCheck lets Build accept a death date earlier than the birth
// date. Meant for rehydrating stored files that predate the check.
func WithoutDateOrderCheck() BuilderOption {
	return func(b *PatientFileBuilder) {
		b.skipDateOrder = true
	}
}

// PatientFileBuilder collects field values and produces a validated PatientFile.
// Setters return the builder so calls can be chained.
type PatientFileBuilder struct {
	id         int64
	firstName  string
	secondName *string
	lastName   string
	gender     Gender
	race       Race

	birthDate time.Time
	deathDate *time.Time

	occupation *string

	history     []HistoryRecord
	historyInit bool

	err           error
	clock         Clock
	skipDateOrder bool
}

func NewPatientFileBuilder(opts ...BuilderOption) *PatientFileBuilder {
	b := &PatientFileBuilder{clock: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

func (b *PatientFileBuilder) ID(id int64) *PatientFileBuilder {
	b.id = id
	return b
}

func (b *PatientFileBuilder) FirstName(name string) *PatientFileBuilder {
	b.firstName = name
	return b
}

func (b *PatientFileBuilder) SecondName(name *string) *PatientFileBuilder {
	b.secondName = copyString(name)
	return b
}

func (b *PatientFileBuilder) LastName(name string) *PatientFileBuilder {
	b.lastName = name
	return b
}

func (b *PatientFileBuilder) Gender(gender Gender) *PatientFileBuilder {
	b.gender = gender
	return b
}

func (b *PatientFileBuilder) Race(race Race) *PatientFileBuilder {
	b.race = race
	return b
}

func (b *PatientFileBuilder) BirthDate(t time.Time) *PatientFileBuilder {
	b.birthDate = t
	return b
}

// DeathDate sets the date of death; nil means the patient is alive.
func (b *PatientFileBuilder) DeathDate(t *time.Time) *PatientFileBuilder {
	b.deathDate = copyTime(t)
	return b
}

func (b *PatientFileBuilder) Occupation(occupation *string) *PatientFileBuilder {
	b.occupation = copyString(occupation)
	return b
}

// ResetHistory initializes the pending history to an empty sequence.
func (b *PatientFileBuilder) ResetHistory() *PatientFileBuilder {
	b.history = []HistoryRecord{}
	b.historyInit = true
	return b
}

// SetHistory replaces the pending history. The records are copied, so the
// caller keeps no alias into the built file.
func (b *PatientFileBuilder) SetHistory(records []HistoryRecord) *PatientFileBuilder {
	b.history = make([]HistoryRecord, len(records))
	copy(b.history, records)
	b.historyInit = true
	return b
}

// AppendHistory adds a record to the pending history. Calling it before
// ResetHistory or SetHistory makes Build fail with ErrHistoryNotInitialized.
func (b *PatientFileBuilder) AppendHistory(record HistoryRecord) *PatientFileBuilder {
	if !b.historyInit {
		if b.err == nil {
			b.err = ErrHistoryNotInitialized
		}
		return b
	}
	b.history = append(b.history, record)
	return b
}

// Build validates the collected fields, derives the age and returns a new
// PatientFile. The builder may be reused; each file gets its own copy of the history.
func (b *PatientFileBuilder) Build() (*PatientFile, error) {
	if b.err != nil {
		return nil, fmt.Errorf("cannot build patient file %d: %w", b.id, b.err)
	}

	var missing []string
	if b.firstName == "" {
		missing = append(missing, "first_name")
	}
	if b.lastName == "" {
		missing = append(missing, "last_name")
	}
	if b.birthDate.IsZero() {
		missing = append(missing, "birth_date")
	}
	if !b.race.Valid() {
		missing = append(missing, "race")
	}
	if !b.historyInit {
		missing = append(missing, "history")
	}
	if len(missing) > 0 {
		return nil, &BuildError{Missing: missing}
	}

	if !b.skipDateOrder && b.deathDate != nil && b.deathDate.Before(b.birthDate) {
		return nil, fmt.Errorf("cannot build patient file %d: %w", b.id, ErrDeathBeforeBirth)
	}

	end := b.clock().UTC()
	if b.deathDate != nil {
		end = *b.deathDate
	}

	history := make([]HistoryRecord, len(b.history))
	copy(history, b.history)

	return &PatientFile{
		id:         b.id,
		firstName:  b.firstName,
		secondName: copyString(b.secondName),
		lastName:   b.lastName,
		gender:     b.gender,
		race:       b.race,
		birthDate:  b.birthDate,
		deathDate:  copyTime(b.deathDate),
		age:        yearsBetween(b.birthDate, end),
		occupation: copyString(b.occupation),
		history:    history,
	}, nil
}

// yearsBetween counts whole years from start to end, evaluated in start's location.
func yearsBetween(start, end time.Time) int {
	end = end.In(start.Location())
	years := end.Year() - start.Year()
	if end.Month() < start.Month() ||
		(end.Month() == start.Month() && clockOfMonth(end) < clockOfMonth(start)) {
		years--
	}
	return years
}

// clockOfMonth is the offset from the start of the month, used to compare
// day and time of day in one step.
func clockOfMonth(t time.Time) time.Duration {
	h, m, s := t.Clock()
	return time.Duration(t.Day()-1)*24*time.Hour +
		time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(t.Nanosecond())
}
