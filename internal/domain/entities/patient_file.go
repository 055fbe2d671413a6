package entities

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// PatientFile stores a patient's demographics, vital-status dates and
// clinical history. Instances are created with PatientFileBuilder.
//
// A PatientFile is not safe for concurrent use.
type PatientFile struct {
	id         int64
	firstName  string
	secondName *string
	lastName   string
	gender     Gender
	race       Race

	birthDate time.Time
	deathDate *time.Time
	age       int

	occupation *string

	history []HistoryRecord

	changed bool
}

// ID is the caller-assigned identity of the file, usually a database key.
func (f *PatientFile) ID() int64 { return f.id }

func (f *PatientFile) FirstName() string { return f.firstName }

// SecondName returns nil if the patient has none.
func (f *PatientFile) SecondName() *string { return copyString(f.secondName) }

func (f *PatientFile) LastName() string { return f.lastName }

func (f *PatientFile) Gender() Gender { return f.gender }

func (f *PatientFile) Race() Race { return f.race }

func (f *PatientFile) BirthDate() time.Time { return f.birthDate }

// DeathDate returns nil while the patient is alive.
func (f *PatientFile) DeathDate() *time.Time { return copyTime(f.deathDate) }

// IsDeceased reports whether a death date is recorded.
func (f *PatientFile) IsDeceased() bool { return f.deathDate != nil }

// Age is the number of whole years between the birth date and the death date
// (or the current UTC date for a living patient), fixed when the file was built.
// It is not recomputed when SetDeathDate is called later; reload the file
// through the builder to refresh it.
func (f *PatientFile) Age() int { return f.age }

// Occupation returns nil if none is recorded.
func (f *PatientFile) Occupation() *string { return copyString(f.occupation) }

// History returns the records in insertion order. The returned slice is a
// copy; use AppendHistory to add records.
func (f *PatientFile) History() []HistoryRecord {
	out := make([]HistoryRecord, len(f.history))
	copy(out, f.history)
	return out
}

func (f *PatientFile) HistoryLen() int { return len(f.history) }

// AppendHistory adds a record to the end of the history. The record is only
// held by this instance until a repository persists it.
func (f *PatientFile) AppendHistory(record HistoryRecord) {
	f.changed = true
	f.history = append(f.history, record)
}

func (f *PatientFile) SetGender(gender Gender) {
	f.changed = true
	f.gender = gender
}

// SetDeathDate records the date of death, or clears it when deathDate is nil.
func (f *PatientFile) SetDeathDate(deathDate *time.Time) {
	f.changed = true
	f.deathDate = copyTime(deathDate)
}

func (f *PatientFile) SetOccupation(occupation *string) {
	f.changed = true
	f.occupation = copyString(occupation)
}

// IsChanged reports whether any mutator ran since the last call to
// AcknowledgeChanges.
func (f *PatientFile) IsChanged() bool { return f.changed }

// AcknowledgeChanges clears the changed flag. Repositories call it after the
// current state has been durably saved.
func (f *PatientFile) AcknowledgeChanges() { f.changed = false }

// Equal compares files by ID only.
func (f *PatientFile) Equal(other *PatientFile) bool {
	if f == nil || other == nil {
		return f == other
	}
	return f.id == other.id
}

// Hash is derived from the ID, consistent with Equal.
func (f *PatientFile) Hash() uint64 {
	return uint64(f.id)
}

// String gives a short description for diagnostics. Its format is not stable.
func (f *PatientFile) String() string {
	return fmt.Sprintf("PatientFile{id=%d, name=%q, lastName=%q, age=%d, gender=%s}",
		f.id, f.firstName, f.lastName, f.age, f.gender)
}

// MarshalZerologObject logs non-identifying fields only.
func (f *PatientFile) MarshalZerologObject(e *zerolog.Event) {
	e.Int64("id", f.id).
		Int("age", f.age).
		Str("gender", f.gender.String()).
		Bool("deceased", f.IsDeceased()).
		Bool("changed", f.changed).
		Int("history_len", len(f.history))
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
