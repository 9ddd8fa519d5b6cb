package mail

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type inviteEmailData struct {
	Name     string
	LoginURL string
}

type dealEmailData struct {
	Name     string
	DealName string
	Value    float64
}
