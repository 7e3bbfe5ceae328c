package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role defines the permission tier of a registered employee.
type Role string

const (
	RoleStaff      Role = "staff"
	RoleManager    Role = "manager"
	RoleSupervisor Role = "supervisor"
)

// ParseRole maps a registration answer to a role. Accepts the menu digit or
// a textual prefix in Portuguese/English.
func ParseRole(input string) (Role, bool) {
	s := strings.ToLower(strings.TrimSpace(input))
	switch {
	case s == "1" || strings.HasPrefix(s, "func") || s == "staff":
		return RoleStaff, true
	case s == "2" || strings.HasPrefix(s, "gerente") || s == "manager":
		return RoleManager, true
	case s == "3" || strings.HasPrefix(s, "supervisor"):
		return RoleSupervisor, true
	}
	return "", false
}

// Label returns the role name shown to users.
func (r Role) Label() string {
	switch r {
	case RoleStaff:
		return "Funcionário"
	case RoleManager:
		return "Gerente"
	case RoleSupervisor:
		return "Supervisor"
	}
	return string(r)
}

// CategoryNames maps the category menu digits to their canonical names.
var CategoryNames = map[string]string{
	"1": "bar",
	"2": "restaurante",
	"3": "padaria",
	"4": "cafe",
	"5": "lanchonete",
	"6": "outro",
}

var canonicalCategories = func() map[string]struct{} {
	set := make(map[string]struct{}, len(CategoryNames))
	for _, name := range CategoryNames {
		set[name] = struct{}{}
	}
	return set
}()

// ParseCategories resolves a comma or space separated list of category
// digits or canonical names into canonical names, deduplicated and in input
// order. Returns false when any token matches neither form.
func ParseCategories(input string) ([]string, bool) {
	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == ' ' || r == ';'
	})
	if len(fields) == 0 {
		return nil, false
	}
	seen := make(map[string]struct{}, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		token := strings.ToLower(strings.TrimSpace(f))
		name, ok := CategoryNames[token]
		if !ok {
			if _, known := canonicalCategories[token]; !known {
				return nil, false
			}
			name = token
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out, true
}

// User is a registered employee keyed by WhatsApp phone number.
type User struct {
	ID                  string  `gorm:"type:uuid;primaryKey"`
	Phone               string  `gorm:"uniqueIndex;not null"`
	Name                string  `gorm:"not null"`
	Role                Role    `gorm:"type:varchar(16);not null;default:'staff'"`
	SupervisorID        *string `gorm:"type:uuid"`
	Active              bool    `gorm:"not null;default:true"`
	Categories          string  `gorm:"not null;default:''"`
	ExpectedWeeklyHours float64 `gorm:"not null;default:40"`
	PasswordHash        *string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (User) TableName() string { return "users" }

func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// CategoryList splits the stored comma-joined categories.
func (u *User) CategoryList() []string {
	if u.Categories == "" {
		return nil
	}
	return strings.Split(u.Categories, ",")
}

// SetCategories stores a category slice in the comma-joined column form.
func (u *User) SetCategories(cats []string) {
	u.Categories = strings.Join(cats, ",")
}

// RequiresPassword reports whether this role authenticates with a password.
// Staff auto-login by phone; managers and supervisors must present
// credentials.
func (u *User) RequiresPassword() bool {
	return u.Role == RoleManager || u.Role == RoleSupervisor
}
