package log

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

type LogFormat string

var (
	Pretty LogFormat = "pretty"
	JSON   LogFormat = "json"
	Text   LogFormat = "text"
)

var (
	stderr = zerolog.New(os.Stderr).With().Timestamp().Logger()

	// Stdout is used for results the user asked for, everything else goes to stderr
	Stdout = zerolog.New(os.Stdout).With().Timestamp().Logger()

	globalFormat = JSON
	errWriter    io.Writer = os.Stderr
	outWriter    io.Writer = os.Stdout

	Print  = stderr.Print
	Printf = stderr.Printf

	Fatal = stderr.Fatal
	Panic = stderr.Panic
	Error = stderr.Error
	Warn  = stderr.Warn
	Info  = stderr.Info
	Debug = stderr.Debug
	Trace = stderr.Trace
	Log   = stderr.Log

	Err       = stderr.Err
	With      = stderr.With
	WithLevel = stderr.WithLevel

	GetLevel = stderr.GetLevel
)

const (
	FatalLevel = zerolog.FatalLevel
	PanicLevel = zerolog.PanicLevel
	ErrorLevel = zerolog.ErrorLevel
	WarnLevel  = zerolog.WarnLevel
	InfoLevel  = zerolog.InfoLevel
	DebugLevel = zerolog.DebugLevel
	TraceLevel = zerolog.TraceLevel
)

var (
	ErrUnsupportedFormat = fmt.Errorf("unsupported format. supported 'json', 'pretty', 'text'")
)

// SetLevelString sets the level for both the stderr and stdout loggers, e.g. "debug"
func SetLevelString(level string) error {
	l, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}

	stderr = stderr.Level(l)
	Stdout = Stdout.Level(l)
	return nil
}

// SetOutput redirects the stderr logger, keeping the current format. Tests use this to capture
// the debug trail of a request.
func SetOutput(w io.Writer) {
	errWriter = w
	stderr = stderr.Output(writerFor(globalFormat, w))
}

func GetLogFormat() LogFormat {
	return globalFormat
}

func ParseFormat(format string) (LogFormat, error) {
	switch format {
	case "json", "":
		return JSON, nil
	case "pretty":
		return Pretty, nil
	case "text":
		return Text, nil
	}
	return "", ErrUnsupportedFormat
}

func SetFormat(format string) error {
	f, err := ParseFormat(format)
	if err != nil {
		return err
	}
	stderr = stderr.Output(writerFor(f, errWriter))
	Stdout = Stdout.Output(writerFor(f, outWriter))
	globalFormat = f
	return nil
}

func writerFor(f LogFormat, w io.Writer) io.Writer {
	switch f {
	case Pretty:
		return zerolog.ConsoleWriter{Out: w, NoColor: false, TimeFormat: "\r3:04PM"}
	case Text:
		return zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: "\r3:04PM"}
	}
	return w
}
