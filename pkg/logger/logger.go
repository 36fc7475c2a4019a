package logger

// Logger: минимальный контракт логгера, от которого зависят остальные пакеты.
// Конкретная реализация подключается в cmd (см. zap_adapter).
type Logger interface {
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
}

type Field struct {
	Key   string
	Value any
}

func NewField(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// ErrorField короткая запись для самого частого поля.
func ErrorField(err error) Field {
	return Field{Key: "error", Value: err}
}
