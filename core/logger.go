package core

// Logger is any service that can log messages.
// args may be anything: an error, a map of extras or a domain value the implementation knows how to tag.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
