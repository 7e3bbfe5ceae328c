package service

import (
	"context"
	"time"

	"github.com/Steffany-Martins/botCheckin/internal/config"
	"github.com/Steffany-Martins/botCheckin/internal/model"
	"github.com/Steffany-Martins/botCheckin/internal/repository"
	"github.com/Steffany-Martins/botCheckin/internal/template"
	"github.com/Steffany-Martins/botCheckin/internal/util"

	"github.com/rs/zerolog"
)

const historyLimit = 10

// Notifier pushes one outbound WhatsApp message without blocking the webhook.
type Notifier interface {
	Notify(ctx context.Context, to, body string) error
}

// RecordOutcome describes the result of a punch attempt.
type RecordOutcome struct {
	Record     *model.CheckinRecord
	Conflict   *model.CheckinRecord
	OutOfRange bool
	Distance   int
}

type CheckinService interface {
	// Record stores a punch. A same-type punch on the same venue day comes
	// back as Conflict instead of a new record; a GPS reading outside the
	// geofence comes back as OutOfRange.
	Record(ctx context.Context, user *model.User, typ model.CheckinType, location string, lat, lng *float64) (*RecordOutcome, error)
	// AddManual stores a back-dated punch on an admin's behalf. No geofence
	// or duplicate checks apply; the record is flagged as manual.
	AddManual(ctx context.Context, user *model.User, typ model.CheckinType, ts time.Time, location string) (*model.CheckinRecord, error)
	DeleteRecord(ctx context.Context, recordID string) (bool, error)
	// EditRecord moves a record's timestamp and returns the record before and
	// after the edit. Both are nil when the id matches nothing.
	EditRecord(ctx context.Context, recordID string, ts time.Time, editorID string) (*model.CheckinRecord, *model.CheckinRecord, error)
	History(ctx context.Context, userID string) ([]model.CheckinRecord, bool, error)
	AllSchedules(ctx context.Context) ([]model.CheckinRecord, error)
	TeamActive(ctx context.Context) ([]template.TeamEntry, error)
	TeamHistory(ctx context.Context, days int) ([]model.CheckinRecord, error)
	VenueRadius() int
}

type checkinService struct {
	checkins repository.CheckinRepository
	users    repository.UserRepository
	notifier Notifier
	cfg      *config.Config
	log      zerolog.Logger
}

func NewCheckinService(checkins repository.CheckinRepository, users repository.UserRepository, notifier Notifier, cfg *config.Config, log zerolog.Logger) CheckinService {
	return &checkinService{
		checkins: checkins,
		users:    users,
		notifier: notifier,
		cfg:      cfg,
		log:      log.With().Str("component", "checkin").Logger(),
	}
}

func (s *checkinService) Record(ctx context.Context, user *model.User, typ model.CheckinType, location string, lat, lng *float64) (*RecordOutcome, error) {
	now := time.Now()

	if lat != nil && lng != nil {
		inRange, distance := util.VerifyLocation(*lat, *lng, s.cfg.VenueLat, s.cfg.VenueLng, s.cfg.VenueRadiusM)
		if !inRange {
			s.log.Info().
				Str("user_id", user.ID).
				Int("distance_m", distance).
				Msg("punch rejected outside geofence")
			return &RecordOutcome{OutOfRange: true, Distance: distance}, nil
		}
	}

	existing, err := s.checkins.LatestOfTypeSince(ctx, user.ID, typ, startOfVenueDay(now))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &RecordOutcome{Conflict: existing}, nil
	}

	rec := &model.CheckinRecord{
		UserID:    user.ID,
		Type:      typ,
		Timestamp: now,
		Latitude:  lat,
		Longitude: lng,
	}
	if location != "" {
		rec.Location = &location
	}
	if lat != nil && lng != nil {
		d := util.HaversineMeters(*lat, *lng, s.cfg.VenueLat, s.cfg.VenueLng)
		rec.DistanceMeters = &d
		rec.LocationVerified = true
	}
	if err := s.checkins.Create(ctx, rec); err != nil {
		return nil, err
	}
	s.log.Info().
		Str("user_id", user.ID).
		Str("type", string(typ)).
		Msg("punch recorded")

	s.notifySupervisor(ctx, user, typ, now)
	return &RecordOutcome{Record: rec}, nil
}

func (s *checkinService) AddManual(ctx context.Context, user *model.User, typ model.CheckinType, ts time.Time, location string) (*model.CheckinRecord, error) {
	rec := &model.CheckinRecord{
		UserID:    user.ID,
		Type:      typ,
		Timestamp: ts,
		Manual:    true,
	}
	if location != "" {
		rec.Location = &location
	}
	if err := s.checkins.Create(ctx, rec); err != nil {
		return nil, err
	}
	s.log.Info().
		Str("user_id", user.ID).
		Str("type", string(typ)).
		Time("timestamp", ts).
		Msg("manual punch recorded")
	return rec, nil
}

func (s *checkinService) DeleteRecord(ctx context.Context, recordID string) (bool, error) {
	rows, err := s.checkins.Delete(ctx, recordID)
	if err != nil {
		return false, err
	}
	if rows > 0 {
		s.log.Info().Str("record_id", recordID).Msg("punch deleted")
	}
	return rows > 0, nil
}

func (s *checkinService) EditRecord(ctx context.Context, recordID string, ts time.Time, editorID string) (*model.CheckinRecord, *model.CheckinRecord, error) {
	before, err := s.checkins.FindByID(ctx, recordID)
	if err != nil || before == nil {
		return nil, nil, err
	}
	after, err := s.checkins.EditTimestamp(ctx, recordID, ts, editorID)
	if err != nil {
		return nil, nil, err
	}
	return before, after, nil
}

// notifySupervisor enqueues one message to the punching user's linked
// supervisor. Users without a supervisor notify nobody. Delivery problems
// never fail the punch.
func (s *checkinService) notifySupervisor(ctx context.Context, user *model.User, typ model.CheckinType, at time.Time) {
	if s.notifier == nil || user.SupervisorID == nil {
		return
	}
	supervisor, err := s.users.FindByID(ctx, *user.SupervisorID)
	if err != nil {
		s.log.Error().Err(err).Str("supervisor_id", *user.SupervisorID).Msg("supervisor lookup failed")
		return
	}
	if supervisor == nil {
		return
	}
	text := template.SupervisorNotification(user.Name, typ, at)
	if err := s.notifier.Notify(ctx, supervisor.Phone, text); err != nil {
		s.log.Error().Err(err).Str("to", supervisor.Phone).Msg("supervisor notification enqueue failed")
	}
}

func (s *checkinService) History(ctx context.Context, userID string) ([]model.CheckinRecord, bool, error) {
	recs, err := s.checkins.RecentByUser(ctx, userID, historyLimit+1)
	if err != nil {
		return nil, false, err
	}
	if len(recs) > historyLimit {
		return recs[:historyLimit], true, nil
	}
	return recs, false, nil
}

func (s *checkinService) AllSchedules(ctx context.Context) ([]model.CheckinRecord, error) {
	return s.checkins.AllSince(ctx, startOfVenueDay(time.Now()))
}

func (s *checkinService) TeamActive(ctx context.Context) ([]template.TeamEntry, error) {
	staff, err := s.users.ListByRole(ctx, model.RoleStaff)
	if err != nil {
		return nil, err
	}
	dayStart := startOfVenueDay(time.Now())
	var entries []template.TeamEntry
	for _, u := range staff {
		if !u.Active {
			continue
		}
		last, err := s.checkins.LatestByUser(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		if last == nil || last.Timestamp.Before(dayStart) || last.Type == model.CheckinOut {
			continue
		}
		entries = append(entries, template.TeamEntry{
			Name:     u.Name,
			LastType: last.Type,
			Since:    last.Timestamp,
		})
	}
	return entries, nil
}

func (s *checkinService) TeamHistory(ctx context.Context, days int) ([]model.CheckinRecord, error) {
	since := startOfVenueDay(time.Now()).AddDate(0, 0, -days)
	return s.checkins.AllSince(ctx, since)
}

func (s *checkinService) VenueRadius() int { return s.cfg.VenueRadiusM }

// startOfVenueDay returns midnight of the given instant in venue time.
func startOfVenueDay(t time.Time) time.Time {
	local := t.In(util.SaoPaulo())
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, util.SaoPaulo())
}
