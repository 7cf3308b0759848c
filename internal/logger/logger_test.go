package logger_test

import (
	"testing"

	"github.com/rksearch/rksearch/internal/logger"
)

func TestNewLogger_ValidLevel(t *testing.T) {
	log := logger.New("debug", false)
	if log == nil {
		t.Error("Expected non-nil logger for valid level")
	}
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	log := logger.New("not-a-level", false)
	if log == nil {
		t.Error("Expected non-nil logger fallback for invalid level")
	}
}

func TestNewLogger_JSON(t *testing.T) {
	log := logger.New("info", true)
	if log == nil {
		t.Error("Expected non-nil JSON logger")
	}
}
