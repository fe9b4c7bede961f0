package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// log never receives passwords. Usernames are only recorded as present/absent.
var log *logrus.Logger

var logFile *lumberjack.Logger

// InitLoggerWithConfig initializes the logger with file rotation.
// Logs are written to ~/.config/wincred/wincred.log
func InitLoggerWithConfig(cfg LogConfig) error {
	CloseLogger()
	log = logrus.New()

	// Create log directory if needed
	logDir := ConfigDir()
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.SetOutput(io.Discard)
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	lj := &lumberjack.Logger{
		Filename:   GetLogPath(),
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
		LocalTime:  true,
	}

	logFile = lj

	// stdout carries the credential, so the console mirror goes to stderr
	if cfg.ToStderr {
		log.SetOutput(io.MultiWriter(lj, os.Stderr))
	} else {
		log.SetOutput(lj)
	}

	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		DisableColors:   true,
	})

	log.SetLevel(logrus.InfoLevel)

	log.WithFields(logrus.Fields{
		"max_size_mb":  cfg.MaxSizeMB,
		"max_backups":  cfg.MaxBackups,
		"max_age_days": cfg.MaxAgeDays,
		"compress":     cfg.Compress,
		"to_stderr":    cfg.ToStderr,
	}).Debug("Logger initialized")
	return nil
}

// CloseLogger flushes and closes the log file
func CloseLogger() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
	log = nil
}

// SetLogLevel sets the logging level based on debug mode
func SetLogLevel(debug bool) {
	if log == nil {
		return
	}
	if debug {
		log.SetLevel(logrus.DebugLevel)
		log.Debug("Debug logging enabled")
	} else {
		log.SetLevel(logrus.InfoLevel)
	}
}

// LogInfo logs an info level message (always logged)
func LogInfo(format string, args ...interface{}) {
	if log != nil {
		log.Infof(format, args...)
	}
}

// LogDebug logs a debug level message (only when debug mode is on)
func LogDebug(format string, args ...interface{}) {
	if log != nil {
		log.Debugf(format, args...)
	}
}

// LogWarn logs a warning level message
func LogWarn(format string, args ...interface{}) {
	if log != nil {
		log.Warnf(format, args...)
	}
}

// LogError logs an error level message
func LogError(format string, args ...interface{}) {
	if log != nil {
		log.Errorf(format, args...)
	}
}

// LogAction logs a business action (always logged at info level)
func LogAction(action string, details string) {
	if log != nil {
		log.WithFields(logrus.Fields{
			"action": action,
		}).Info(details)
	}
}

// LogStartup logs application startup information
func LogStartup() {
	if log == nil {
		return
	}
	log.WithFields(logrus.Fields{
		"version":    Version,
		"commit":     getShortCommit(),
		"build_date": buildDate,
		"pid":        os.Getpid(),
	}).Info("wincred starting")
}

// LogConfigLoaded logs when configuration is loaded
func LogConfigLoaded(path string, modern, verify bool) {
	if log != nil {
		log.WithFields(logrus.Fields{
			"path":   path,
			"modern": modern,
			"verify": verify,
		}).Info("Configuration loaded")
	}
}

// LogPromptRequested logs a dialog being shown
func LogPromptRequested(variant UIVariant, hasUserName bool) {
	if log != nil {
		log.WithFields(logrus.Fields{
			"action":   "prompt_requested",
			"dialog":   variant.String(),
			"username": hasUserName,
		}).Info("Showing credential dialog")
	}
}

// LogPromptOutcome logs how a prompt ended
func LogPromptOutcome(variant UIVariant, kind Kind, err error) {
	if log == nil {
		return
	}
	fields := logrus.Fields{
		"action":  "prompt_outcome",
		"dialog":  variant.String(),
		"outcome": kind.String(),
	}
	if err != nil {
		fields["error"] = err.Error()
		log.WithFields(fields).Warn("Credential prompt failed")
		return
	}
	log.WithFields(fields).Info("Credential prompt finished")
}

// LogVerification logs the result of an SSPI credential check
func LogVerification(err error) {
	if err != nil {
		LogAction("credential_verify", fmt.Sprintf("Verification failed: %v", err))
		return
	}
	LogAction("credential_verify", "Verification succeeded")
}

// GetLogPath returns the path to the log file
func GetLogPath() string {
	return filepath.Join(ConfigDir(), "wincred.log")
}
