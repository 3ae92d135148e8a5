package logger

// Field is a single structured log attribute.
type Field struct {
	Key   string
	Value any
}

// Client is the logging interface the rest of the service depends on.
type Client interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

// Err is shorthand for the conventional error field.
func Err(err error) Field {
	return Field{Key: "err", Value: err}
}
