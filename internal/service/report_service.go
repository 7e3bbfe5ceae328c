package service

import (
	"context"
	"sort"
	"time"

	"github.com/Steffany-Martins/botCheckin/internal/config"
	"github.com/Steffany-Martins/botCheckin/internal/infra"
	"github.com/Steffany-Martins/botCheckin/internal/model"
	"github.com/Steffany-Martins/botCheckin/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type ReportService interface {
	// GeneratePeriodReport aggregates worked hours per employee over the last
	// n days and writes a PDF. Returns the file path.
	GeneratePeriodReport(ctx context.Context, days int) (string, time.Time, time.Time, error)
}

type reportService struct {
	checkins repository.CheckinRepository
	users    repository.UserRepository
	cfg      *config.Config
	log      zerolog.Logger
}

func NewReportService(checkins repository.CheckinRepository, users repository.UserRepository, cfg *config.Config, log zerolog.Logger) ReportService {
	return &reportService{
		checkins: checkins,
		users:    users,
		cfg:      cfg,
		log:      log.With().Str("component", "report").Logger(),
	}
}

func (s *reportService) GeneratePeriodReport(ctx context.Context, days int) (string, time.Time, time.Time, error) {
	to := time.Now()
	from := startOfVenueDay(to).AddDate(0, 0, -days)

	records, err := s.checkins.AllSince(ctx, from)
	if err != nil {
		return "", time.Time{}, time.Time{}, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return "", time.Time{}, time.Time{}, err
	}

	byUser := make(map[string][]model.CheckinRecord)
	for _, r := range records {
		byUser[r.UserID] = append(byUser[r.UserID], r)
	}

	rows := make([]infra.TimesheetRow, 0, len(users))
	for _, u := range users {
		recs := byUser[u.ID]
		if len(recs) == 0 {
			continue
		}
		rows = append(rows, infra.TimesheetRow{
			Name:          u.Name,
			PunchCount:    len(recs),
			WorkedHours:   workedHours(recs),
			ExpectedHours: decimal.NewFromFloat(u.ExpectedWeeklyHours),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })

	path, err := infra.GenerateTimesheetPDF(rows, from, to, s.cfg.PDFStoragePath)
	if err != nil {
		return "", time.Time{}, time.Time{}, err
	}
	s.log.Info().Str("path", path).Int("employees", len(rows)).Msg("timesheet report generated")
	return path, from, to, nil
}

// workedHours sums the on-the-clock intervals of a user's punches. Work
// accumulates from checkin/return until the next break/checkout; an open
// interval at the end of the period is ignored.
func workedHours(recs []model.CheckinRecord) decimal.Decimal {
	sorted := make([]model.CheckinRecord, len(recs))
	copy(sorted, recs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Timestamp.Before(sorted[j].Timestamp) })

	total := decimal.Zero
	var openSince *time.Time
	for _, r := range sorted {
		switch r.Type {
		case model.CheckinIn, model.CheckinReturn:
			if openSince == nil {
				ts := r.Timestamp
				openSince = &ts
			}
		case model.CheckinBreak, model.CheckinOut:
			if openSince != nil {
				elapsed := r.Timestamp.Sub(*openSince).Hours()
				total = total.Add(decimal.NewFromFloat(elapsed))
				openSince = nil
			}
		}
	}
	return total
}
