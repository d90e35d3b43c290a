package domain

// AutostopRequirementDays selects the weekdays a template forces workspaces
// to stop on.
type AutostopRequirementDays string

const (
	AutostopRequirementOff      AutostopRequirementDays = "off"
	AutostopRequirementDaily    AutostopRequirementDays = "daily"
	AutostopRequirementSaturday AutostopRequirementDays = "saturday"
	AutostopRequirementSunday   AutostopRequirementDays = "sunday"
)

// Weekdays lists lowercase weekday names in the order templates store them.
var Weekdays = []string{
	"monday",
	"tuesday",
	"wednesday",
	"thursday",
	"friday",
	"saturday",
	"sunday",
}
