package directory

import "strings"

// Column names in the system-of-record agents table. The roster is
// maintained in Hebrew by the operations team; these constants are the
// single place that spelling lives.
const (
	fieldFirstName    = "שם פרטי"
	fieldLastName     = "שם משפחה"
	fieldEmail        = "מייל"
	fieldPhone        = "סלולרי"
	fieldTrafficLight = "רמזור"
	fieldDailyLimit   = "מכסה יומית"
	fieldMonthlyLimit = "מכסה חודשית"
	fieldWeight       = "משקל"

	fieldSpecializationName = "סוגי הלידים"

	fieldUsername    = "שם משתמש"
	fieldPassword    = "סיסמא"
	fieldDisplayName = "שם הנציג/ה"

	fieldAssignmentUser  = "שם משתמש המתאם"
	fieldAssignmentAgent = "הסוכן ששויך"
)

// blockedSentinel is the traffic-light value that closes an agent to
// automatic routing.
const blockedSentinel = "🔴"

// Record is one human agent as known to the system of record.
// Read-only to this service; fetched fresh on every request.
type Record struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Phone     string

	// Blocked reports the forbidden traffic-light status.
	Blocked bool

	// Exclusions holds one flag per lead category; true means the agent
	// does not handle that category.
	Exclusions map[string]bool

	// Nil limits mean unlimited capacity.
	DailyLimit   *int
	MonthlyLimit *int
	Weight       *int
}

// Name returns the display name, tolerating a missing first or last name.
func (r Record) Name() string {
	return strings.TrimSpace(r.FirstName + " " + r.LastName)
}

// Excludes reports whether the agent is flagged out of the given category.
func (r Record) Excludes(category string) bool {
	return r.Exclusions[category]
}

// Specialization is one selectable lead category.
type Specialization struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// User is a dispatcher account in the directory users table.
type User struct {
	ID          string
	Username    string
	Password    string
	DisplayName string
}
