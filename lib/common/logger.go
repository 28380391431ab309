package common

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/lni/dragonboat/v4/logger"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Names of the loggers used across the module
const (
	LoggerColl     = "coll"
	LoggerLocked   = "coll/locked"
	LoggerRegistry = "registry"
	LoggerAssert   = "assert"
	LoggerCmd      = "cmd"
)

var (
	outputMu sync.Mutex
	output   io.Writer = os.Stdout
)

// --------------------------------------------------------------------------
// Custom Logger (implements dragonboats logger.ILogger)
// --------------------------------------------------------------------------

// dCollLogger implements the ILogger interface with custom formatting
type dCollLogger struct {
	name   string
	level  logger.LogLevel
	logger *log.Logger
}

func (l *dCollLogger) SetLevel(level logger.LogLevel) {
	l.level = level
}

func (l *dCollLogger) Debugf(format string, args ...interface{}) {
	if l.level >= logger.DEBUG {
		l.log("DEBUG", format, args...)
	}
}

func (l *dCollLogger) Infof(format string, args ...interface{}) {
	if l.level >= logger.INFO {
		l.log("INFO", format, args...)
	}
}

func (l *dCollLogger) Warningf(format string, args ...interface{}) {
	if l.level >= logger.WARNING {
		l.log("WARN", format, args...)
	}
}

func (l *dCollLogger) Errorf(format string, args ...interface{}) {
	if l.level >= logger.ERROR {
		l.log("ERROR", format, args...)
	}
}

func (l *dCollLogger) Panicf(format string, args ...interface{}) {
	if l.level >= logger.CRITICAL {
		panic(fmt.Sprintf(format, args...))
	}
}

func (l *dCollLogger) log(levelStr string, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	l.logger.Printf("%-5s | %-12s | %s", levelStr, l.name, message)
}

// --------------------------------------------------------------------------
// Logger Factory
// --------------------------------------------------------------------------

// CreateLogger implements dragonboat's logger.Factory
func CreateLogger(pkgName string) logger.ILogger {
	outputMu.Lock()
	w := output
	outputMu.Unlock()

	return &dCollLogger{
		name:   pkgName,
		level:  logger.INFO,
		logger: log.New(w, "", log.Ldate|log.Ltime),
	}
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// ParseLogLevel converts a string level to logger.LogLevel
func ParseLogLevel(level string) (logger.LogLevel, error) {
	switch strings.ToLower(level) {
	case "debug":
		return logger.DEBUG, nil
	case "info":
		return logger.INFO, nil
	case "warning", "warn":
		return logger.WARNING, nil
	case "error":
		return logger.ERROR, nil
	default:
		return logger.INFO, fmt.Errorf("invalid log level: %s. must be one of debug, info, warn, error", level)
	}
}

// newLogWriter returns the writer the loggers print to.
// With a log file configured, lines go to stdout and a rotating file.
func newLogWriter(config Config) io.Writer {
	if config.LogFile == "" {
		return os.Stdout
	}
	rotator := &lumberjack.Logger{
		Filename:   config.LogFile,
		MaxSize:    config.LogMaxSizeMB,
		MaxBackups: config.LogMaxBackups,
		Compress:   true,
	}
	return io.MultiWriter(os.Stdout, rotator)
}

// --------------------------------------------------------------------------
// Logger initialization
// --------------------------------------------------------------------------

// InitLoggers installs the custom logger factory and applies the configured level
// to every logger of the module. Must be called before the first log line is written.
func InitLoggers(config Config) error {
	level, err := ParseLogLevel(config.LogLevel)
	if err != nil {
		return err
	}

	outputMu.Lock()
	output = newLogWriter(config)
	outputMu.Unlock()

	logger.SetLoggerFactory(CreateLogger)

	for _, name := range []string{LoggerColl, LoggerLocked, LoggerRegistry, LoggerAssert, LoggerCmd} {
		logger.GetLogger(name).SetLevel(level)
	}

	SetDebugAssertions(config.DebugAsserts)
	return nil
}
