package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Steffany-Martins/botCheckin/internal/config"
	"github.com/Steffany-Martins/botCheckin/internal/model"
	"github.com/Steffany-Martins/botCheckin/internal/repository"
	"github.com/Steffany-Martins/botCheckin/internal/template"

	"github.com/rs/zerolog"
)

// Registration steps, in order. Staff accounts complete after categories;
// admin roles add a password step.
const (
	regStepName = iota
	regStepRole
	regStepCategories
	regStepPassword
)

type registrationState struct {
	Step       int
	Name       string
	Role       model.Role
	Categories []string
	UpdatedAt  time.Time
}

// RegistrationService runs the multi-step signup conversation. State lives
// in memory; callers must hold the per-phone lock while invoking it.
type RegistrationService struct {
	mu     sync.Mutex
	states map[string]*registrationState

	users   repository.UserRepository
	auth    AuthService
	timeout time.Duration
	log     zerolog.Logger
}

func NewRegistrationService(users repository.UserRepository, auth AuthService, cfg *config.Config, log zerolog.Logger) *RegistrationService {
	return &RegistrationService{
		states:  make(map[string]*registrationState),
		users:   users,
		auth:    auth,
		timeout: time.Duration(cfg.RegistrationTimeoutMinutes) * time.Minute,
		log:     log.With().Str("component", "registration").Logger(),
	}
}

// Active reports whether the phone has a registration in progress.
func (s *RegistrationService) Active(phone string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.states[phone]
	return ok
}

// Start opens a registration flow for an unknown number. A known number gets
// the already-registered notice instead of a new flow.
func (s *RegistrationService) Start(ctx context.Context, phone string) (string, error) {
	existing, err := s.users.FindByPhone(ctx, phone)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return template.UserAlreadyExists(existing.Name, existing.Role), nil
	}

	s.mu.Lock()
	s.states[phone] = &registrationState{Step: regStepName, UpdatedAt: time.Now()}
	s.mu.Unlock()

	s.log.Info().Str("phone", phone).Msg("registration started")
	return template.RegistrationWelcome(), nil
}

// Handle advances the flow with the user's answer. Invalid answers re-prompt
// without advancing; "0" steps back (or cancels on the first step) and "9"
// cancels outright.
func (s *RegistrationService) Handle(ctx context.Context, phone, body string) (string, error) {
	s.mu.Lock()
	st, ok := s.states[phone]
	s.mu.Unlock()
	if !ok {
		return "", ErrNoActiveFlow
	}

	if time.Since(st.UpdatedAt) > s.timeout {
		s.destroy(phone)
		return template.RegistrationExpired(), nil
	}

	input := strings.TrimSpace(body)

	switch input {
	case "9":
		s.destroy(phone)
		return template.RegistrationCancelled(), nil
	case "0":
		return s.goBack(phone, st), nil
	}
	if strings.EqualFold(input, "CANCELAR") || strings.EqualFold(input, "CANCEL") {
		s.destroy(phone)
		return template.RegistrationCancelled(), nil
	}

	switch st.Step {
	case regStepName:
		return s.processName(phone, st, input), nil
	case regStepRole:
		return s.processRole(phone, st, input), nil
	case regStepCategories:
		return s.processCategories(ctx, phone, st, input)
	case regStepPassword:
		return s.processPassword(ctx, phone, st, input)
	}

	// Unknown step means corrupted state; destroy and restart cleanly.
	s.log.Warn().Str("phone", phone).Int("step", st.Step).Msg("unknown registration step")
	s.destroy(phone)
	return s.Start(ctx, phone)
}

func (s *RegistrationService) processName(phone string, st *registrationState, input string) string {
	if !validName(input) {
		return template.RegistrationInvalidName()
	}
	st.Name = input
	st.Step = regStepRole
	st.UpdatedAt = time.Now()
	return template.RegistrationAskRole(st.Name)
}

func (s *RegistrationService) processRole(phone string, st *registrationState, input string) string {
	role, ok := model.ParseRole(input)
	if !ok {
		return template.RegistrationInvalidRole()
	}
	st.Role = role
	st.Step = regStepCategories
	st.UpdatedAt = time.Now()
	return template.RegistrationAskCategories(st.Name)
}

func (s *RegistrationService) processCategories(ctx context.Context, phone string, st *registrationState, input string) (string, error) {
	cats, ok := model.ParseCategories(input)
	if !ok {
		return template.RegistrationInvalidCategory(), nil
	}
	st.Categories = cats
	st.UpdatedAt = time.Now()

	if st.Role == model.RoleStaff {
		return s.complete(ctx, phone, st, "")
	}
	st.Step = regStepPassword
	return template.RegistrationAskPassword(st.Role), nil
}

func (s *RegistrationService) processPassword(ctx context.Context, phone string, st *registrationState, input string) (string, error) {
	if !s.auth.VerifyAdminPassword(input) {
		return template.RegistrationWrongPassword(), nil
	}
	return s.complete(ctx, phone, st, input)
}

// complete persists the user, destroys the flow state and opens a session.
func (s *RegistrationService) complete(ctx context.Context, phone string, st *registrationState, password string) (string, error) {
	user := &model.User{
		Phone:               phone,
		Name:                st.Name,
		Role:                st.Role,
		Active:              true,
		ExpectedWeeklyHours: 40,
	}
	user.SetCategories(st.Categories)

	if password != "" {
		hash, err := s.auth.HashPassword(password)
		if err != nil {
			return "", err
		}
		user.PasswordHash = &hash
	}

	if err := s.users.Create(ctx, user); err != nil {
		// Lost a race against a concurrent registration for the same number.
		existing, ferr := s.users.FindByPhone(ctx, phone)
		if ferr == nil && existing != nil {
			s.destroy(phone)
			return template.UserAlreadyExists(existing.Name, existing.Role), nil
		}
		return "", err
	}
	s.destroy(phone)

	if err := s.auth.Login(ctx, user, password); err != nil {
		// Account exists; user can still log in explicitly.
		s.log.Error().Err(err).Str("phone", phone).Msg("post-registration login failed")
		return template.Welcome(user.Name, user.Role, st.Categories), nil
	}

	s.log.Info().Str("phone", phone).Str("role", string(user.Role)).Msg("registration completed")
	return template.Welcome(user.Name, user.Role, st.Categories) + "\n\n" +
		template.MenuForRole(user.Role, user.Name), nil
}

// goBack returns to the previous step, or cancels from the first one. The
// answer given for the step being re-asked is discarded.
func (s *RegistrationService) goBack(phone string, st *registrationState) string {
	switch st.Step {
	case regStepName:
		s.destroy(phone)
		return template.RegistrationCancelled()
	case regStepRole:
		st.Name = ""
		st.Step = regStepName
		st.UpdatedAt = time.Now()
		return template.RegistrationWelcome()
	case regStepCategories:
		st.Role = ""
		st.Step = regStepRole
		st.UpdatedAt = time.Now()
		return template.RegistrationAskRole(st.Name)
	default:
		st.Categories = nil
		st.Step = regStepCategories
		st.UpdatedAt = time.Now()
		return template.RegistrationAskCategories(st.Name)
	}
}

func validName(input string) bool {
	n := len([]rune(input))
	return n >= 2 && n <= 50 && !model.IsReservedWord(input)
}

// QuickRegister creates an account from the one-shot command form
// "REGISTER <nome> [cargo] [senha]", bypassing the guided flow. Privileged
// roles still require the admin password.
func (s *RegistrationService) QuickRegister(ctx context.Context, phone, name string, role model.Role, password string) (string, error) {
	existing, err := s.users.FindByPhone(ctx, phone)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return template.UserAlreadyExists(existing.Name, existing.Role), nil
	}
	if !validName(name) {
		return template.RegistrationInvalidName(), nil
	}

	st := &registrationState{Name: name, Role: role}
	if role == model.RoleStaff {
		return s.complete(ctx, phone, st, "")
	}
	if !s.auth.VerifyAdminPassword(password) {
		return template.AdminPasswordRequired(), nil
	}
	return s.complete(ctx, phone, st, password)
}

// ExpiredPhones returns phones whose registration sat idle past the timeout.
func (s *RegistrationService) ExpiredPhones(now time.Time) []string {
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

// CancelIfExpired destroys the flow when idle past the timeout. Used by the
// background sweep; callers hold the per-phone lock.
func (s *RegistrationService) CancelIfExpired(phone string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[phone]
	if !ok || now.Sub(st.UpdatedAt) <= s.timeout {
		return false
	}
	delete(s.states, phone)
	return true
}

// Cancel drops the flow unconditionally.
func (s *RegistrationService) Cancel(phone string) {
	s.destroy(phone)
}

func (s *RegistrationService) destroy(phone string) {
	s.mu.Lock()
	delete(s.states, phone)
	s.mu.Unlock()
}
