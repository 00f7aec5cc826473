package message

const (
	InvalidInput = "Invalid input."
	ServerError  = "Something went wrong."
	EnvErrFmt    = "environment variable is not set: %s"
)
