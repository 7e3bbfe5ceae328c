package model

import (
	"fmt"
	"strings"
)

// Command identifies one authenticated menu action.
type Command string

const (
	CmdCheckin      Command = "CHECKIN"
	CmdBreak        Command = "BREAK"
	CmdReturn       Command = "RETURN"
	CmdCheckout     Command = "CHECKOUT"
	CmdHistory      Command = "HISTORY"
	CmdAllSchedules Command = "ALL_SCHEDULES"
	CmdSearchUser   Command = "SEARCH_USER"
	CmdSetHours     Command = "SET_HOURS"
	CmdEditCategory Command = "EDIT_CATEGORY"
	CmdEditHours    Command = "EDIT_HOURS"
	CmdTeamActive   Command = "TEAM_ACTIVE"
	CmdTeamHistory  Command = "TEAM_HISTORY"
	CmdLogout       Command = "LOGOUT"
)

// MenuDigit is the digit reserved in every menu to re-display the menu.
// It must never appear as a command key in any role table.
const MenuDigit = "9"

// Reserved word commands recognised outside the digit tables. CANCELAR maps
// to the same handler as CANCEL.
var ReservedWords = map[string]struct{}{
	"REGISTER": {},
	"LOGIN":    {},
	"MENU":     {},
	"HELP":     {},
	"CANCELAR": {},
	"CANCEL":   {},
}

// IsReservedWord reports whether a candidate name collides with a command
// keyword. The comparison is case-insensitive on the whole string.
func IsReservedWord(s string) bool {
	_, ok := ReservedWords[strings.ToUpper(strings.TrimSpace(s))]
	return ok
}

// commandTables maps each role's menu digits to commands. Digit 9 is
// reserved for MENU and 0 for LOGOUT in every role, so neither appears here
// as a domain command except LOGOUT which is uniform.
var commandTables = map[Role]map[string]Command{
	RoleStaff: {
		"1": CmdCheckin,
		"2": CmdBreak,
		"3": CmdReturn,
		"4": CmdCheckout,
		"5": CmdHistory,
		"0": CmdLogout,
	},
	RoleManager: {
		"1":  CmdCheckin,
		"2":  CmdBreak,
		"3":  CmdReturn,
		"4":  CmdCheckout,
		"5":  CmdHistory,
		"6":  CmdAllSchedules,
		"7":  CmdSearchUser,
		"8":  CmdSetHours,
		"10": CmdEditCategory,
		"11": CmdEditHours,
		"0":  CmdLogout,
	},
	RoleSupervisor: {
		"1": CmdCheckin,
		"2": CmdBreak,
		"3": CmdReturn,
		"4": CmdCheckout,
		"5": CmdTeamActive,
		"6": CmdTeamHistory,
		"7": CmdEditHours,
		"8": CmdHistory,
		"0": CmdLogout,
	},
}

// LookupCommand resolves a trimmed message body against the role's table.
func LookupCommand(role Role, input string) (Command, bool) {
	table, ok := commandTables[role]
	if !ok {
		return "", false
	}
	cmd, ok := table[strings.TrimSpace(input)]
	return cmd, ok
}

// ValidateCommandTables checks structural invariants of the dispatch tables
// at startup: every role has a table, digit 9 is free everywhere, and every
// role keeps the four punch actions plus logout.
func ValidateCommandTables() error {
	required := []Role{RoleStaff, RoleManager, RoleSupervisor}
	for _, role := range required {
		table, ok := commandTables[role]
		if !ok {
			return fmt.Errorf("command table missing for role %q", role)
		}
		if _, taken := table[MenuDigit]; taken {
			return fmt.Errorf("role %q binds reserved menu digit %s", role, MenuDigit)
		}
		for digit, want := range map[string]Command{
			"1": CmdCheckin, "2": CmdBreak, "3": CmdReturn, "4": CmdCheckout, "0": CmdLogout,
		} {
			if got := table[digit]; got != want {
				return fmt.Errorf("role %q digit %s is %q, want %q", role, digit, got, want)
			}
		}
	}
	return nil
}
