package ports

import "time"

// Logger is the logging surface adapters depend on. pkg/logging backs it
// with zap; tests capture calls with a mock.
type Logger interface {
	Info(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Debug(msg string, fields ...Field)
}

// Field is one structured key/value pair
type Field struct {
	Key   string
	Value any
}

func String(key, val string) Field { return Field{Key: key, Value: val} }

func Int(key string, val int) Field { return Field{Key: key, Value: val} }

func Duration(key string, val time.Duration) Field { return Field{Key: key, Value: val} }

// Err uses the "error" key like zap.Error
func Err(err error) Field { return Field{Key: "error", Value: err} }
