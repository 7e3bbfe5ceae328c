package service

import (
	"context"
	"strings"
	"time"

	"github.com/Steffany-Martins/botCheckin/internal/model"
	"github.com/Steffany-Martins/botCheckin/internal/template"
	"github.com/Steffany-Martins/botCheckin/internal/util"

	"github.com/rs/zerolog"
)

const reportPeriodDays = 7

// RouterService owns message routing. Every inbound message passes through
// the same precedence chain; the per-phone lock makes the whole chain atomic
// against concurrent messages and the expiry sweep.
type RouterService struct {
	locks        *phoneLocks
	auth         AuthService
	registration *RegistrationService
	conversation *ConversationService
	checkin      CheckinService
	report       ReportService
	users        UserFinder
	log          zerolog.Logger
}

// UserFinder is the slice of the user repository the router needs.
type UserFinder interface {
	FindByPhone(ctx context.Context, phone string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
}

func NewRouterService(
	auth AuthService,
	registration *RegistrationService,
	conversation *ConversationService,
	checkin CheckinService,
	report ReportService,
	users UserFinder,
	log zerolog.Logger,
) *RouterService {
	return &RouterService{
		locks:        newPhoneLocks(),
		auth:         auth,
		registration: registration,
		conversation: conversation,
		checkin:      checkin,
		report:       report,
		users:        users,
		log:          log.With().Str("component", "router").Logger(),
	}
}

// HandleMessage routes one inbound WhatsApp message and returns the reply
// text. Business failures become user-facing messages, never errors; the
// webhook always answers 200.
func (r *RouterService) HandleMessage(ctx context.Context, from, body string, lat, lng *float64) string {
	phone := util.NormalizePhone(from)
	if phone == "" {
		return template.InvalidPhone()
	}

	unlock := r.locks.Lock(phone)
	defer unlock()

	reply, err := r.route(ctx, phone, body, lat, lng)
	if err != nil {
		r.log.Error().Err(err).Str("phone", phone).Msg("message handling failed")
		return template.InternalError()
	}
	return reply
}

func (r *RouterService) route(ctx context.Context, phone, body string, lat, lng *float64) (string, error) {
	input := strings.TrimSpace(body)
	upper := strings.ToUpper(input)

	// Global menu escape. Destroys any flow in progress before re-displaying.
	if input == model.MenuDigit || upper == "MENU" || upper == "HELP" {
		r.conversation.Cancel(phone)
		r.registration.Cancel(phone)
		return r.showMenu(ctx, phone)
	}

	if r.registration.Active(phone) {
		return r.registration.Handle(ctx, phone, input)
	}

	if upper == "REGISTER" {
		return r.registration.Start(ctx, phone)
	}
	// Legacy one-shot registration with positional arguments, kept for
	// backward compatibility: REGISTER <nome> [cargo] [senha].
	if strings.HasPrefix(upper, "REGISTER ") {
		return r.handleQuickRegister(ctx, phone, input)
	}

	user, err := r.users.FindByPhone(ctx, phone)
	if err != nil {
		return "", err
	}
	if user == nil {
		// Any message from an unknown number opens registration.
		return r.registration.Start(ctx, phone)
	}

	if upper == "LOGIN" || strings.HasPrefix(upper, "LOGIN ") {
		password := strings.TrimSpace(input[len("LOGIN"):])
		return r.handleLogin(ctx, user, password)
	}

	if r.conversation.Active(phone) {
		return r.conversation.Handle(ctx, phone, user, input)
	}

	authenticated, err := r.auth.IsAuthenticated(ctx, phone)
	if err != nil {
		return "", err
	}
	if !authenticated {
		if user.Role != model.RoleStaff {
			return template.NotAuthenticated(), nil
		}
		// Staff sessions open transparently; the message still dispatches.
		if err := r.auth.LoginStaff(ctx, user); err != nil {
			return "", err
		}
	}

	return r.dispatch(ctx, phone, user, input, upper, lat, lng)
}

func (r *RouterService) showMenu(ctx context.Context, phone string) (string, error) {
	user, err := r.users.FindByPhone(ctx, phone)
	if err != nil {
		return "", err
	}
	if user == nil {
		// The escape hatch must leave no flow active, so it only points at
		// registration instead of opening it.
		return template.RegisterPrompt(), nil
	}
	authenticated, err := r.auth.IsAuthenticated(ctx, phone)
	if err != nil {
		return "", err
	}
	if !authenticated {
		if user.Role == model.RoleStaff {
			if err := r.auth.LoginStaff(ctx, user); err != nil {
				return "", err
			}
		} else {
			return template.NotAuthenticated(), nil
		}
	}
	return template.MenuForRole(user.Role, user.Name), nil
}

// handleQuickRegister parses "REGISTER <nome> [cargo] [senha]". The name is a
// single token; the role defaults to staff.
func (r *RouterService) handleQuickRegister(ctx context.Context, phone, input string) (string, error) {
	fields := strings.Fields(input)
	if len(fields) < 2 {
		return r.registration.Start(ctx, phone)
	}
	name := fields[1]
	role := model.RoleStaff
	if len(fields) >= 3 {
		parsed, ok := model.ParseRole(fields[2])
		if !ok {
			return template.RegistrationInvalidRole(), nil
		}
		role = parsed
	}
	password := ""
	if len(fields) >= 4 {
		password = fields[3]
	}
	return r.registration.QuickRegister(ctx, phone, name, role, password)
}

func (r *RouterService) handleLogin(ctx context.Context, user *model.User, password string) (string, error) {
	if err := r.auth.Login(ctx, user, password); err != nil {
		if err == ErrWrongPassword {
			return template.WrongLoginPassword(), nil
		}
		return "", err
	}
	return template.LoginSuccess(user.Name) + "\n\n" +
		template.MenuForRole(user.Role, user.Name), nil
}

// dispatch handles an authenticated user outside any flow.
func (r *RouterService) dispatch(ctx context.Context, phone string, user *model.User, input, upper string, lat, lng *float64) (string, error) {
	if upper == "CANCELAR" || upper == "CANCEL" {
		// Nothing in flight, so cancelling just re-displays the menu.
		return template.ConversationCancelled() + "\n\n" +
			template.MenuForRole(user.Role, user.Name), nil
	}

	if upper == "RELATORIO" && user.Role != model.RoleStaff {
		path, from, to, err := r.report.GeneratePeriodReport(ctx, reportPeriodDays)
		if err != nil {
			return "", err
		}
		return template.ReportReady(path, from, to), nil
	}

	// Manager word commands. SEARCH opens the guided flow; ADD/DEL/EDIT take
	// positional arguments for scripted corrections.
	if user.Role == model.RoleManager {
		switch {
		case upper == "SEARCH":
			return r.conversation.Start(phone, FlowSearchUser), nil
		case strings.HasPrefix(upper, "ADD "):
			return r.handleAdd(ctx, user, input)
		case strings.HasPrefix(upper, "DEL "):
			return r.handleDel(ctx, input)
		case strings.HasPrefix(upper, "EDIT "):
			return r.handleEdit(ctx, user, input)
		}
	}

	// Punch digit with a free-text location tail, e.g. "1 padaria centro".
	if fields := strings.Fields(input); len(fields) > 1 {
		if typ, ok := model.ParseCheckinType(fields[0]); ok {
			return r.handlePunch(ctx, phone, user, typ, strings.Join(fields[1:], " "), lat, lng)
		}
	}

	cmd, ok := model.LookupCommand(user.Role, input)
	if !ok {
		return template.UnknownCommand() + "\n\n" +
			template.MenuForRole(user.Role, user.Name), nil
	}

	switch cmd {
	case model.CmdCheckin, model.CmdBreak, model.CmdReturn, model.CmdCheckout:
		typ, _ := model.ParseCheckinType(input)
		return r.handlePunch(ctx, phone, user, typ, "", lat, lng)

	case model.CmdHistory:
		records, hasMore, err := r.checkin.History(ctx, user.ID)
		if err != nil {
			return "", err
		}
		return template.UserHistory(records, hasMore), nil

	case model.CmdAllSchedules:
		records, err := r.checkin.AllSchedules(ctx)
		if err != nil {
			return "", err
		}
		return template.AllSchedules(records), nil

	case model.CmdSearchUser:
		return r.conversation.Start(phone, FlowSearchUser), nil
	case model.CmdSetHours:
		return r.conversation.Start(phone, FlowSetHours), nil
	case model.CmdEditCategory:
		return r.conversation.Start(phone, FlowEditCategory), nil
	case model.CmdEditHours:
		return r.conversation.Start(phone, FlowEditHours), nil

	case model.CmdTeamActive:
		entries, err := r.checkin.TeamActive(ctx)
		if err != nil {
			return "", err
		}
		return template.TeamActive(entries), nil

	case model.CmdTeamHistory:
		records, err := r.checkin.TeamHistory(ctx, reportPeriodDays)
		if err != nil {
			return "", err
		}
		return template.AllSchedules(records), nil

	case model.CmdLogout:
		if err := r.auth.Logout(ctx, phone); err != nil {
			return "", err
		}
		return template.Logout(), nil
	}

	return template.UnknownCommand() + "\n\n" +
		template.MenuForRole(user.Role, user.Name), nil
}

// handleAdd creates a back-dated punch: ADD <userID> <type 1-4> <RFC3339 ts>
// with an optional free-text location tail.
func (r *RouterService) handleAdd(ctx context.Context, editor *model.User, input string) (string, error) {
	fields := strings.Fields(input)
	if len(fields) < 4 {
		return template.ManualCommandUsage(), nil
	}
	typ, ok := model.ParseCheckinType(fields[2])
	if !ok {
		return template.ManualCommandUsage(), nil
	}
	ts, err := time.Parse(time.RFC3339, fields[3])
	if err != nil {
		return template.ManualCommandUsage(), nil
	}
	target, err := r.users.FindByID(ctx, fields[1])
	if err != nil {
		return "", err
	}
	if target == nil {
		return template.UserNotFound(), nil
	}
	location := strings.Join(fields[4:], " ")
	rec, err := r.checkin.AddManual(ctx, target, typ, ts, location)
	if err != nil {
		return "", err
	}
	r.log.Info().Str("editor_id", editor.ID).Str("record_id", rec.ID).Msg("manual record added")
	return template.ManualRecordAdded(target.Name, typ, rec.Timestamp), nil
}

// handleDel removes a punch: DEL <recordID>.
func (r *RouterService) handleDel(ctx context.Context, input string) (string, error) {
	fields := strings.Fields(input)
	if len(fields) != 2 {
		return template.ManualCommandUsage(), nil
	}
	deleted, err := r.checkin.DeleteRecord(ctx, fields[1])
	if err != nil {
		return "", err
	}
	if !deleted {
		return template.RecordNotFound(), nil
	}
	return template.RecordDeleted(fields[1]), nil
}

// handleEdit moves a punch's timestamp: EDIT <recordID> <RFC3339 ts>.
func (r *RouterService) handleEdit(ctx context.Context, editor *model.User, input string) (string, error) {
	fields := strings.Fields(input)
	if len(fields) != 3 {
		return template.ManualCommandUsage(), nil
	}
	ts, err := time.Parse(time.RFC3339, fields[2])
	if err != nil {
		return template.ManualCommandUsage(), nil
	}
	before, after, err := r.checkin.EditRecord(ctx, fields[1], ts, editor.ID)
	if err != nil {
		return "", err
	}
	if before == nil {
		return template.RecordNotFound(), nil
	}
	name := ""
	if target, err := r.users.FindByID(ctx, before.UserID); err == nil && target != nil {
		name = target.Name
	}
	return template.EditHoursSuccess(name, before.Type,
		util.FormatFull(before.Timestamp), util.FormatFull(after.Timestamp), editor.Name), nil
}

func (r *RouterService) handlePunch(ctx context.Context, phone string, user *model.User, typ model.CheckinType, location string, lat, lng *float64) (string, error) {
	outcome, err := r.checkin.Record(ctx, user, typ, location, lat, lng)
	if err != nil {
		return "", err
	}
	switch {
	case outcome.OutOfRange:
		return template.OutOfRange(outcome.Distance, r.checkin.VenueRadius()), nil
	case outcome.Conflict != nil:
		return r.conversation.StartReplace(phone, outcome.Conflict), nil
	}
	return template.CheckinConfirmation(typ, user.Name, outcome.Record.Timestamp), nil
}

// SweepExpired cancels idle registration and conversation flows. Each phone
// is locked so a sweep never races an in-flight message.
func (r *RouterService) SweepExpired(now time.Time) int {
	cancelled := 0
	for _, phone := range r.registration.ExpiredPhones(now) {
		unlock := r.locks.Lock(phone)
		if r.registration.CancelIfExpired(phone, now) {
			cancelled++
			r.log.Info().Str("phone", phone).Msg("registration expired")
		}
		unlock()
	}
	for _, phone := range r.conversation.ExpiredPhones(now) {
		unlock := r.locks.Lock(phone)
		if r.conversation.CancelIfExpired(phone, now) {
			cancelled++
			r.log.Info().Str("phone", phone).Msg("conversation expired")
		}
		unlock()
	}
	return cancelled
}
