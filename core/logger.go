package core

// Logger is any leveled logging service. Implementations may fan out to an
// error-reporting backend in addition to the local stream.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
