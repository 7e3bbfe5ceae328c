package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Steffany-Martins/botCheckin/internal/config"
	"github.com/Steffany-Martins/botCheckin/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// ── In-memory repository stubs ────────────────────────────────────────────────

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User // by ID
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*model.User)}
}

func (r *memUserRepo) Create(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Phone == u.Phone {
			return gorm.ErrDuplicatedKey
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = time.Now()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) FindByPhone(_ context.Context, phone string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Phone == phone {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *memUserRepo) SearchByName(_ context.Context, fragment string, limit int) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	needle := strings.ToLower(strings.TrimSpace(fragment))
	var out []model.User
	for _, u := range r.users {
		if strings.Contains(strings.ToLower(u.Name), needle) {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memUserRepo) List(_ context.Context) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memUserRepo) ListByRole(_ context.Context, role model.Role) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.User
	for _, u := range r.users {
		if u.Role == role {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memUserRepo) UpdateCategories(_ context.Context, id, categories string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		u.Categories = categories
		return 1, nil
	}
	return 0, nil
}

func (r *memUserRepo) UpdateExpectedHours(_ context.Context, id string, hours float64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		u.ExpectedWeeklyHours = hours
		return 1, nil
	}
	return 0, nil
}

func (r *memUserRepo) Update(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

type memCheckinRepo struct {
	mu      sync.Mutex
	records map[string]*model.CheckinRecord
}

func newMemCheckinRepo() *memCheckinRepo {
	return &memCheckinRepo{records: make(map[string]*model.CheckinRecord)}
}

func (r *memCheckinRepo) Create(_ context.Context, rec *model.CheckinRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec.CreatedAt = time.Now()
	cp := *rec
	r.records[rec.ID] = &cp
	return nil
}

func (r *memCheckinRepo) FindByID(_ context.Context, id string) (*model.CheckinRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.records[id]; ok {
		cp := *rec
		return &cp, nil
	}
	return nil, nil
}

func (r *memCheckinRepo) byUser(userID string) []model.CheckinRecord {
	var out []model.CheckinRecord
	for _, rec := range r.records {
		if rec.UserID == userID {
			out = append(out, *rec)
		}
	}
	return out
}

func (r *memCheckinRepo) RecentByUser(_ context.Context, userID string, limit int) ([]model.CheckinRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.byUser(userID)
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memCheckinRepo) ByUserSince(_ context.Context, userID string, since time.Time) ([]model.CheckinRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.CheckinRecord
	for _, rec := range r.byUser(userID) {
		if !rec.Timestamp.Before(since) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (r *memCheckinRepo) LatestByUser(_ context.Context, userID string) (*model.CheckinRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *model.CheckinRecord
	for _, rec := range r.records {
		if rec.UserID != userID {
			continue
		}
		if latest == nil || rec.Timestamp.After(latest.Timestamp) {
			latest = rec
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (r *memCheckinRepo) LatestOfTypeSince(_ context.Context, userID string, typ model.CheckinType, since time.Time) (*model.CheckinRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *model.CheckinRecord
	for _, rec := range r.records {
		if rec.UserID != userID || rec.Type != typ || rec.Timestamp.Before(since) {
			continue
		}
		if latest == nil || rec.Timestamp.After(latest.Timestamp) {
			latest = rec
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (r *memCheckinRepo) AllSince(_ context.Context, since time.Time) ([]model.CheckinRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.CheckinRecord
	for _, rec := range r.records {
		if !rec.Timestamp.Before(since) {
			out = append(out, *rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (r *memCheckinRepo) EditTimestamp(_ context.Context, recordID string, newTS time.Time, editorID string) (*model.CheckinRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[recordID]
	if !ok {
		return nil, nil
	}
	if rec.OriginalTimestamp == nil {
		orig := rec.Timestamp
		rec.OriginalTimestamp = &orig
	}
	rec.Timestamp = newTS
	rec.EditedBy = &editorID
	now := time.Now()
	rec.EditedAt = &now
	cp := *rec
	return &cp, nil
}

func (r *memCheckinRepo) Delete(_ context.Context, recordID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[recordID]; !ok {
		return 0, nil
	}
	delete(r.records, recordID)
	return 1, nil
}

type memSessionStore struct {
	mu       sync.Mutex
	sessions map[string]string
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: make(map[string]string)}
}

func (s *memSessionStore) Create(_ context.Context, phone, userID string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[phone] = userID
	return nil
}

func (s *memSessionStore) UserID(_ context.Context, phone string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[phone], nil
}

func (s *memSessionStore) IsActive(_ context.Context, phone string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[phone]
	return ok, nil
}

func (s *memSessionStore) Delete(_ context.Context, phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, phone)
	return nil
}

type sentNotification struct {
	to   string
	body string
}

type memNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
}

func (n *memNotifier) Notify(_ context.Context, to, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentNotification{to: to, body: body})
	return nil
}

func (n *memNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

func (n *memNotifier) lastTo() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.sent) == 0 {
		return ""
	}
	return n.sent[len(n.sent)-1].to
}

// ── Test fixture ──────────────────────────────────────────────────────────────

type fixture struct {
	cfg      *config.Config
	users    *memUserRepo
	checkins *memCheckinRepo
	sessions *memSessionStore
	notifier *memNotifier

	auth         AuthService
	registration *RegistrationService
	conversation *ConversationService
	checkin      CheckinService
	report       ReportService
	router       *RouterService
}

func newFixture(tmpDir string) *fixture {
	cfg := &config.Config{
		Port:                       8000,
		Env:                        "development",
		AdminPassword:              "empresa-secreta",
		SessionExpiryHours:         24,
		ConversationTimeoutMinutes: 5,
		RegistrationTimeoutMinutes: 10,
		SweepIntervalSeconds:       30,
		VenueLat:                   -22.919064,
		VenueLng:                   -43.183182,
		VenueRadiusM:               200,
		PDFStoragePath:             tmpDir,
		WorkerPoolSize:             1,
	}

	f := &fixture{
		cfg:      cfg,
		users:    newMemUserRepo(),
		checkins: newMemCheckinRepo(),
		sessions: newMemSessionStore(),
		notifier: &memNotifier{},
	}

	nop := zerolog.Nop()
	f.auth = NewAuthService(f.sessions, cfg)
	f.registration = NewRegistrationService(f.users, f.auth, cfg, nop)
	f.conversation = NewConversationService(f.users, f.checkins, cfg, nop)
	f.checkin = NewCheckinService(f.checkins, f.users, f.notifier, cfg, nop)
	f.report = NewReportService(f.checkins, f.users, cfg, nop)
	f.router = NewRouterService(f.auth, f.registration, f.conversation, f.checkin, f.report, f.users, nop)
	return f
}

// send routes a plain text message from the given phone.
func (f *fixture) send(phone, body string) string {
	return f.router.HandleMessage(context.Background(), "whatsapp:"+phone, body, nil, nil)
}

// seedStaff registers a logged-in staff user directly.
func (f *fixture) seedStaff(phone, name string) *model.User {
	u := &model.User{Phone: phone, Name: name, Role: model.RoleStaff, Active: true, Categories: "bar"}
	_ = f.users.Create(context.Background(), u)
	_ = f.auth.LoginStaff(context.Background(), u)
	return u
}

// seedSupervised registers a logged-in staff user linked to a supervisor.
func (f *fixture) seedSupervised(phone, name, supervisorID string) *model.User {
	u := &model.User{Phone: phone, Name: name, Role: model.RoleStaff, Active: true, Categories: "bar", SupervisorID: &supervisorID}
	_ = f.users.Create(context.Background(), u)
	_ = f.auth.LoginStaff(context.Background(), u)
	return u
}

// seedSupervisor registers a logged-in supervisor with the given password.
func (f *fixture) seedSupervisor(phone, name, password string) *model.User {
	hash, _ := f.auth.HashPassword(password)
	u := &model.User{Phone: phone, Name: name, Role: model.RoleSupervisor, Active: true, Categories: "bar", PasswordHash: &hash}
	_ = f.users.Create(context.Background(), u)
	_ = f.auth.Login(context.Background(), u, password)
	return u
}

// seedManager registers a logged-in manager with the given password.
func (f *fixture) seedManager(phone, name, password string) *model.User {
	hash, _ := f.auth.HashPassword(password)
	u := &model.User{Phone: phone, Name: name, Role: model.RoleManager, Active: true, Categories: "restaurante", PasswordHash: &hash}
	_ = f.users.Create(context.Background(), u)
	_ = f.auth.Login(context.Background(), u, password)
	return u
}
