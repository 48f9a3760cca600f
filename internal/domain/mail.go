package domain

const (
	MailTypeRosterPublished = "roster_published"
	MailTypeCreateUser      = "create_user"
)

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type RosterPublishedMailData struct {
	EmployeeName string `json:"employeeName"`
	FromDate     string `json:"fromDate"`
	ToDate       string `json:"toDate"`
	ShiftCount   int    `json:"shiftCount"`
}

type CreateUserMailData struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Password string `json:"password"`
}
