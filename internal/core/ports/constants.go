package ports

const (
	OtpLength = 6 // digits in a handoff code
)
