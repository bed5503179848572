package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"
)

//go:embed version
var version string

//go:embed name
var name string

type LogLevel string

const (
	Debug  LogLevel = "debug"
	Info   LogLevel = "info"
	Notice LogLevel = "notice"
	Warn   LogLevel = "warn"
	Error  LogLevel = "error"
)

func GetVersion() string {
	return strings.TrimSpace(version)
}

func GetName() string {
	return strings.TrimSpace(name)
}

func GetLogLevel() LogLevel {
	if IsDebug() {
		return Debug
	}
	logLevel := os.Getenv("VOTE_LOG_LEVEL")
	if logLevel == "" {
		return Info
	}
	return LogLevel(logLevel)
}

func IsDebug() bool {
	return os.Getenv("VOTE_DEBUG") == "true"
}

func GetDBFolderPath() string {
	dbFolderPath := os.Getenv("VOTE_DB_FOLDER")
	if dbFolderPath == "" {
		dbFolderPath = "data"
	}
	return dbFolderPath
}

func GetDBPath() string {
	return fmt.Sprintf("%s/%s.db", GetDBFolderPath(), GetName())
}

func GetUploadFolderPath() string {
	uploadFolderPath := os.Getenv("VOTE_UPLOAD_FOLDER")
	if uploadFolderPath == "" {
		uploadFolderPath = "data/uploads"
	}
	return uploadFolderPath
}

func GetLogFolder() string {
	logFolderPath := os.Getenv("VOTE_LOG_FOLDER")
	if logFolderPath == "" {
		logFolderPath = "log"
	}
	return logFolderPath
}

func GetListen() string {
	return os.Getenv("VOTE_LISTEN")
}

func GetPort() int {
	port, err := strconv.Atoi(os.Getenv("VOTE_PORT"))
	if err != nil || port <= 0 || port > 65535 {
		return 8080
	}
	return port
}

// GetSessionSecret returns the cookie session secret, empty when the
// deployment did not configure one and a random secret should be used.
func GetSessionSecret() string {
	return os.Getenv("VOTE_SESSION_SECRET")
}
