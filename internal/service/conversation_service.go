package service

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Steffany-Martins/botCheckin/internal/config"
	"github.com/Steffany-Martins/botCheckin/internal/model"
	"github.com/Steffany-Martins/botCheckin/internal/repository"
	"github.com/Steffany-Martins/botCheckin/internal/template"
	"github.com/Steffany-Martins/botCheckin/internal/util"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Flow identifies one multi-step conversation.
type Flow string

const (
	FlowSearchUser   Flow = "search_user"
	FlowSetHours     Flow = "set_hours"
	FlowEditCategory Flow = "edit_category"
	FlowEditHours    Flow = "edit_hours"
	FlowReplace      Flow = "replace_checkin"
)

// Conversation steps. Every flow starts at convStepQuery except the replace
// prompt, which is a single yes/no step.
const (
	convStepQuery = iota
	convStepSelectUser
	convStepValue
	convStepPickRecord
	convStepNewTime
	convStepReplaceChoice
)

const (
	editHoursRecordLimit = 10
	searchResultLimit    = 10
)

type conversationState struct {
	Flow      Flow
	Step      int
	Query     string
	Matches   []model.User
	Selected  *model.User
	Records   []model.CheckinRecord
	Pending   *model.CheckinRecord
	UpdatedAt time.Time
}

// ConversationService drives the admin multi-step flows and the duplicate
// punch replacement prompt. State is in memory, one flow per phone; callers
// hold the per-phone lock.
type ConversationService struct {
	mu     sync.Mutex
	states map[string]*conversationState

	users    repository.UserRepository
	checkins repository.CheckinRepository
	timeout  time.Duration
	log      zerolog.Logger
}

func NewConversationService(users repository.UserRepository, checkins repository.CheckinRepository, cfg *config.Config, log zerolog.Logger) *ConversationService {
	return &ConversationService{
		states:   make(map[string]*conversationState),
		users:    users,
		checkins: checkins,
		timeout:  time.Duration(cfg.ConversationTimeoutMinutes) * time.Minute,
		log:      log.With().Str("component", "conversation").Logger(),
	}
}

// Active reports whether the phone has a flow in progress.
func (s *ConversationService) Active(phone string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.states[phone]
	return ok
}

// Start opens one of the search-first flows.
func (s *ConversationService) Start(phone string, flow Flow) string {
	s.mu.Lock()
	s.states[phone] = &conversationState{Flow: flow, Step: convStepQuery, UpdatedAt: time.Now()}
	s.mu.Unlock()

	switch flow {
	case FlowSetHours:
		return template.SetHoursStart()
	case FlowEditCategory:
		return template.EditCategoryStart()
	case FlowEditHours:
		return template.EditHoursStart()
	default:
		return template.SearchUserStart()
	}
}

// StartReplace opens the duplicate punch prompt. The pending record is the
// existing punch that would be overwritten.
func (s *ConversationService) StartReplace(phone string, existing *model.CheckinRecord) string {
	s.mu.Lock()
	s.states[phone] = &conversationState{
		Flow:      FlowReplace,
		Step:      convStepReplaceChoice,
		Pending:   existing,
		UpdatedAt: time.Now(),
	}
	s.mu.Unlock()
	return template.CheckinDuplicate(existing.Type, existing.Timestamp)
}

// Cancel drops the flow unconditionally.
func (s *ConversationService) Cancel(phone string) {
	s.mu.Lock()
	delete(s.states, phone)
	s.mu.Unlock()
}

// Handle advances the active flow with the user's answer. editor is the
// authenticated user driving the flow. A failed step re-prompts without
// advancing; "0" cancels back to the menu.
func (s *ConversationService) Handle(ctx context.Context, phone string, editor *model.User, body string) (string, error) {
	s.mu.Lock()
	st, ok := s.states[phone]
	s.mu.Unlock()
	if !ok {
		return "", ErrNoActiveFlow
	}

	if time.Since(st.UpdatedAt) > s.timeout {
		s.Cancel(phone)
		return template.ConversationExpired(), nil
	}

	input := strings.TrimSpace(body)
	if input == "0" || strings.EqualFold(input, "CANCELAR") || strings.EqualFold(input, "CANCEL") {
		s.Cancel(phone)
		return template.ConversationCancelled() + "\n\n" +
			template.MenuForRole(editor.Role, editor.Name), nil
	}

	switch st.Step {
	case convStepQuery:
		return s.handleQuery(ctx, phone, st, input)
	case convStepSelectUser:
		return s.handleSelectUser(ctx, phone, editor, st, input)
	case convStepValue:
		return s.handleValue(ctx, phone, st, input)
	case convStepPickRecord:
		return s.handlePickRecord(phone, st, input)
	case convStepNewTime:
		return s.handleNewTime(ctx, phone, editor, st, input)
	case convStepReplaceChoice:
		return s.handleReplaceChoice(ctx, phone, editor, st, input)
	}

	s.log.Warn().Str("phone", phone).Str("flow", string(st.Flow)).Int("step", st.Step).Msg("unknown conversation step")
	s.Cancel(phone)
	return template.MenuForRole(editor.Role, editor.Name), nil
}

func (s *ConversationService) handleQuery(ctx context.Context, phone string, st *conversationState, input string) (string, error) {
	if len([]rune(input)) < 2 {
		return template.SearchUserNoResults(input), nil
	}
	matches, err := s.users.SearchByName(ctx, input, searchResultLimit)
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		// Flow stays open so the admin can retype the name.
		return template.SearchUserNoResults(input), nil
	}
	st.Query = input
	st.Matches = matches
	st.Step = convStepSelectUser
	st.UpdatedAt = time.Now()
	return template.SearchUserResults(matches, input), nil
}

func (s *ConversationService) handleSelectUser(ctx context.Context, phone string, editor *model.User, st *conversationState, input string) (string, error) {
	idx, err := strconv.Atoi(input)
	if err != nil || idx < 1 || idx > len(st.Matches) {
		return template.InvalidSelection(len(st.Matches)), nil
	}
	selected := st.Matches[idx-1]
	st.Selected = &selected
	st.UpdatedAt = time.Now()

	switch st.Flow {
	case FlowSearchUser:
		// Selection is the terminal step of a plain search.
		s.Cancel(phone)
		return template.SearchUserSelected(&selected) + "\n\n" +
			template.MenuForRole(editor.Role, editor.Name), nil
	case FlowSetHours:
		st.Step = convStepValue
		return template.SetHoursAskHours(selected.Name), nil
	case FlowEditCategory:
		st.Step = convStepValue
		return template.EditCategoryAskCategories(selected.Name, selected.CategoryList()), nil
	case FlowEditHours:
		records, err := s.checkins.RecentByUser(ctx, selected.ID, editHoursRecordLimit)
		if err != nil {
			return "", err
		}
		if len(records) == 0 {
			s.Cancel(phone)
			return template.EditHoursNoRecords(selected.Name), nil
		}
		st.Records = records
		st.Step = convStepPickRecord
		return template.EditHoursShowCheckins(selected.Name, records), nil
	}
	return "", ErrInvalidSelection
}

func (s *ConversationService) handleValue(ctx context.Context, phone string, st *conversationState, input string) (string, error) {
	switch st.Flow {
	case FlowSetHours:
		hours, ok := parseHours(input)
		if !ok {
			return template.InvalidHours(), nil
		}
		n, err := s.users.UpdateExpectedHours(ctx, st.Selected.ID, hours)
		if err != nil {
			return "", err
		}
		if n == 0 {
			s.Cancel(phone)
			return "", ErrUserNotFound
		}
		s.Cancel(phone)
		s.log.Info().Str("user_id", st.Selected.ID).Float64("hours", hours).Msg("weekly hours updated")
		return template.SetHoursSuccess(st.Selected.Name, hours), nil

	case FlowEditCategory:
		cats, ok := model.ParseCategories(input)
		if !ok {
			return template.RegistrationInvalidCategory(), nil
		}
		n, err := s.users.UpdateCategories(ctx, st.Selected.ID, strings.Join(cats, ","))
		if err != nil {
			return "", err
		}
		if n == 0 {
			s.Cancel(phone)
			return "", ErrUserNotFound
		}
		s.Cancel(phone)
		s.log.Info().Str("user_id", st.Selected.ID).Strs("categories", cats).Msg("categories updated")
		return template.EditCategorySuccess(st.Selected.Name, cats), nil
	}
	return "", ErrInvalidSelection
}

func (s *ConversationService) handlePickRecord(phone string, st *conversationState, input string) (string, error) {
	idx, err := strconv.Atoi(input)
	if err != nil || idx < 1 || idx > len(st.Records) {
		return template.InvalidSelection(len(st.Records)), nil
	}
	st.Pending = &st.Records[idx-1]
	st.Step = convStepNewTime
	st.UpdatedAt = time.Now()
	return template.EditHoursAskNewTime(st.Selected.Name, st.Pending), nil
}

func (s *ConversationService) handleNewTime(ctx context.Context, phone string, editor *model.User, st *conversationState, input string) (string, error) {
	newTS, ok := applyClockTime(st.Pending.Timestamp, input)
	if !ok {
		return template.InvalidTimeFormat(), nil
	}
	oldTime := util.FormatTime(st.Pending.Timestamp, false)

	updated, err := s.checkins.EditTimestamp(ctx, st.Pending.ID, newTS, editor.ID)
	if err != nil {
		return "", err
	}
	if updated == nil {
		s.Cancel(phone)
		return "", ErrRecordNotFound
	}
	s.Cancel(phone)
	s.log.Info().
		Str("record_id", updated.ID).
		Str("editor_id", editor.ID).
		Time("new_ts", newTS).
		Msg("checkin timestamp edited")
	return template.EditHoursSuccess(
		st.Selected.Name, updated.Type, oldTime, util.FormatTime(newTS, false), editor.Name), nil
}

func (s *ConversationService) handleReplaceChoice(ctx context.Context, phone string, editor *model.User, st *conversationState, input string) (string, error) {
	switch input {
	case "1":
		now := time.Now()
		updated, err := s.checkins.EditTimestamp(ctx, st.Pending.ID, now, editor.ID)
		if err != nil {
			return "", err
		}
		s.Cancel(phone)
		if updated == nil {
			return "", ErrRecordNotFound
		}
		return template.CheckinReplaced(updated.Type, now), nil
	case "2":
		s.Cancel(phone)
		return template.CheckinKept(st.Pending.Type, st.Pending.Timestamp), nil
	}
	return template.InvalidSelection(2), nil
}

// ExpiredPhones returns phones whose flow sat idle past the timeout.
func (s *ConversationService) ExpiredPhones(now time.Time) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for phone, st := range s.states {
		if now.Sub(st.UpdatedAt) > s.timeout {
			out = append(out, phone)
		}
	}
	return out
}

// CancelIfExpired destroys an idle flow. Used by the background sweep.
func (s *ConversationService) CancelIfExpired(phone string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[phone]
	if !ok || now.Sub(st.UpdatedAt) <= s.timeout {
		return false
	}
	delete(s.states, phone)
	return true
}

// parseHours accepts "40", "38,5" or "38.5" between 0 and 168 hours. A bare
// "0" never reaches here (it cancels the flow), but "0,5" and friends do.
func parseHours(input string) (float64, bool) {
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(input), ",", "."))
	if err != nil {
		return 0, false
	}
	h := d.InexactFloat64()
	if h < 0 || h > 168 {
		return 0, false
	}
	return h, true
}

// applyClockTime keeps the record's calendar day in venue time and swaps in
// the given HH:MM.
func applyClockTime(base time.Time, input string) (time.Time, bool) {
	clock, err := time.Parse("15:04", strings.TrimSpace(input))
	if err != nil {
		return time.Time{}, false
	}
	local := base.In(util.SaoPaulo())
	return time.Date(local.Year(), local.Month(), local.Day(),
		clock.Hour(), clock.Minute(), 0, 0, util.SaoPaulo()), true
}
