package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Steffany-Martins/botCheckin/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkedHours(t *testing.T) {
	base := time.Date(2026, 8, 10, 8, 0, 0, 0, time.UTC)
	recs := []model.CheckinRecord{
		{Type: model.CheckinIn, Timestamp: base},
		{Type: model.CheckinBreak, Timestamp: base.Add(4 * time.Hour)},
		{Type: model.CheckinReturn, Timestamp: base.Add(5 * time.Hour)},
		{Type: model.CheckinOut, Timestamp: base.Add(9 * time.Hour)},
	}
	assert.Equal(t, "8", workedHours(recs).String())

	// An open interval at the end of the period does not count.
	open := []model.CheckinRecord{
		{Type: model.CheckinIn, Timestamp: base},
	}
	assert.True(t, workedHours(open).IsZero())

	// Double checkins collapse into one interval.
	doubled := []model.CheckinRecord{
		{Type: model.CheckinIn, Timestamp: base},
		{Type: model.CheckinIn, Timestamp: base.Add(time.Hour)},
		{Type: model.CheckinOut, Timestamp: base.Add(2 * time.Hour)},
	}
	assert.Equal(t, "2", workedHours(doubled).String())
}

func TestGeneratePeriodReport(t *testing.T) {
	dir := t.TempDir()
	f := newFixture(dir)
	staff := f.seedStaff(staffPhone, "Joao Silva")

	now := time.Now()
	require.NoError(t, f.checkins.Create(context.Background(), &model.CheckinRecord{
		UserID: staff.ID, Type: model.CheckinIn, Timestamp: now.Add(-8 * time.Hour),
	}))
	require.NoError(t, f.checkins.Create(context.Background(), &model.CheckinRecord{
		UserID: staff.ID, Type: model.CheckinOut, Timestamp: now,
	}))

	path, from, to, err := f.report.GeneratePeriodReport(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, from.Before(to))
	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "relatorio_"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestReportCommandForManager(t *testing.T) {
	f := newFixture(t.TempDir())
	f.seedManager(managerPhone, "Maria Santos", "senha-gerente")
	f.seedStaff(staffPhone, "Joao Silva")

	f.send(staffPhone, "1")
	f.send(staffPhone, "4")

	reply := f.send(managerPhone, "RELATORIO")
	assert.Contains(t, reply, "Relatório gerado")
}

func TestReportCommandDeniedForStaff(t *testing.T) {
	f := newFixture(t.TempDir())
	f.seedStaff(staffPhone, "Joao Silva")

	reply := f.send(staffPhone, "RELATORIO")
	assert.Contains(t, reply, "Não entendi")
}
