package console

import (
	"os"

	"github.com/mattn/go-isatty"
)

// ConsoleInstance is the global instance of console, so we don't have to pass it around everywhere
var ConsoleInstance = &Console{
	Color: isatty.IsTerminal(os.Stderr.Fd()),
	Level: InfoLevel,
}

// SetLevel sets log level
func SetLevel(level Level) {
	ConsoleInstance.Level = level
}

// SetColor sets whether to print colors
func SetColor(color bool) {
	ConsoleInstance.Color = color
}

// Debug level message.
func Debug(msg string, v ...interface{}) {
	ConsoleInstance.Debug(msg, v...)
}

// Info level message.
func Info(msg string, v ...interface{}) {
	ConsoleInstance.Info(msg, v...)
}

// Warn level message.
func Warn(msg string, v ...interface{}) {
	ConsoleInstance.Warn(msg, v...)
}

// Error level message.
func Error(msg string, v ...interface{}) {
	ConsoleInstance.Error(msg, v...)
}

// Fatal level message, followed by exit.
func Fatal(msg string, v ...interface{}) {
	ConsoleInstance.Fatal(msg, v...)
}

// Output a line to stdout.
func Output(line string) {
	ConsoleInstance.Output(line)
}
