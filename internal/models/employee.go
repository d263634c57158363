package models

// Employee represents one roster entry to offboard.
type Employee struct {
	GivenName string   `json:"givenName"`
	Surname   string   `json:"surname"`
	CCEmails  []string `json:"ccEmails"`
}

// FullName returns the display name used in greetings and logs.
func (e Employee) FullName() string {
	return e.GivenName + " " + e.Surname
}
