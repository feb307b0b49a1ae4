package models

// Roles carried inside signed tokens.
const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super-admin"
	RoleOperator   = "operator"
)

// Weekday names accepted in schedule recurrence sets.
var WeekdayNames = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

func IsWeekdayName(name string) bool {
	for _, d := range WeekdayNames {
		if d == name {
			return true
		}
	}
	return false
}
