package postgres

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patient-file-service/internal/domain/entities"
)

func ptrStr(s string) *string { return &s }

func fixedClock(t time.Time) entities.Clock {
	return func() time.Time { return t }
}

func TestToHistoryRows_PositionsFollowInsertionOrder(t *testing.T) {
	base := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	f, err := entities.NewPatientFileBuilder().
		ID(9).FirstName("Ana").LastName("Lima").Race(entities.RaceOther).
		BirthDate(time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)).
		ResetHistory().
		AppendHistory(entities.NewHistoryRecord("encounter", json.RawMessage(`{"a":1}`), base)).
		AppendHistory(entities.NewHistoryRecord("note", nil, base.Add(time.Hour))).
		Build()
	require.NoError(t, err)

	rows := toHistoryRows(f)
	require.Len(t, rows, 2)
	assert.Equal(t, 0, rows[0].Position)
	assert.Equal(t, 1, rows[1].Position)
	assert.Equal(t, int64(9), rows[1].PatientFileID)
	require.NotNil(t, rows[0].RecordData)
	assert.JSONEq(t, `{"a":1}`, *rows[0].RecordData)
	assert.Nil(t, rows[1].RecordData, "empty record data is stored as NULL")
}

func TestToPatientFile_RebuildsWithRepositoryClock(t *testing.T) {
	death := time.Date(2015, 6, 1, 0, 0, 0, 0, time.UTC)
	data := `{"code":"J45"}`
	row := patientFileRow{
		ID:         3,
		FirstName:  "Rui",
		SecondName: ptrStr("Miguel"),
		LastName:   "Costa",
		Gender:     "MALE",
		Race:       "WHITE",
		BirthDate:  time.Date(1950, 1, 1, 0, 0, 0, 0, time.UTC),
		DeathDate:  &death,
		Occupation: ptrStr("farmer"),
		History: []historyRecordRow{
			{Kind: "diagnosis", RecordData: &data, Position: 0},
		},
	}

	f, err := toPatientFile(row, fixedClock(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	assert.Equal(t, int64(3), f.ID())
	assert.Equal(t, entities.GenderMale, f.Gender())
	assert.Equal(t, entities.RaceWhite, f.Race())
	assert.Equal(t, 65, f.Age(), "age runs until death, not the clock")
	assert.Equal(t, "Miguel", *f.SecondName())
	assert.Equal(t, "farmer", *f.Occupation())
	require.Equal(t, 1, f.HistoryLen())
	assert.JSONEq(t, data, string(f.History()[0].RecordData))
	assert.False(t, f.IsChanged())

	back := toPatientFileRow(f)
	assert.Equal(t, row.Gender, back.Gender)
	assert.Equal(t, row.Race, back.Race)
}

func TestToPatientFile_UnknownEnumValues(t *testing.T) {
	row := patientFileRow{ID: 1, FirstName: "A", LastName: "B", Gender: "X", Race: "WHITE", BirthDate: time.Now()}
	_, err := toPatientFile(row, time.Now)
	assert.Error(t, err)

	row.Gender = "FEMALE"
	row.Race = "MARTIAN"
	_, err = toPatientFile(row, time.Now)
	assert.Error(t, err)
}

func TestToPatientFile_LoadsDeathDateBeforeBirthDate(t *testing.T) {
	f, err := entities.NewPatientFileBuilder().
		ID(5).FirstName("Maria").LastName("Silva").Race(entities.RaceOther).
		BirthDate(time.Date(1985, 4, 2, 0, 0, 0, 0, time.UTC)).
		ResetHistory().
		Build()
	require.NoError(t, err)
	death := time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)
	f.SetDeathDate(&death)

	loaded, err := toPatientFile(toPatientFileRow(f), time.Now)
	require.NoError(t, err, "stored rows must stay loadable")
	require.NotNil(t, loaded.DeathDate())
	assert.True(t, death.Equal(*loaded.DeathDate()))
}

func TestToHistoryRows_DuplicateRecordsKeepDistinctKeys(t *testing.T) {
	rec := entities.NewHistoryRecord("note", nil, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC))
	f, err := entities.NewPatientFileBuilder().
		ID(2).FirstName("A").LastName("B").Race(entities.RaceOther).
		BirthDate(time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)).
		ResetHistory().
		Build()
	require.NoError(t, err)
	f.AppendHistory(rec)
	f.AppendHistory(rec)

	rows := toHistoryRows(f)
	require.Len(t, rows, 2)
	assert.Equal(t, rows[0].ID, rows[1].ID)
	assert.NotEqual(t, rows[0].Position, rows[1].Position)
}

func TestPendingHistoryRows(t *testing.T) {
	rows := []historyRecordRow{{Position: 0}, {Position: 1}, {Position: 2}}

	assert.Equal(t, rows, pendingHistoryRows(rows, 0))
	assert.Equal(t, []historyRecordRow{{Position: 2}}, pendingHistoryRows(rows, 2))
	assert.Empty(t, pendingHistoryRows(rows, 3))
	assert.Empty(t, pendingHistoryRows(rows, 7))
	assert.Equal(t, rows, pendingHistoryRows(rows, -1))
}
