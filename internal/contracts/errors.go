package contracts

import (
	"errors"
)

// Sentinel errors shared across modules
// ⭐ SSOT: 공용 에러는 여기서만 정의
var (
	// ErrEmptyInput is returned when a decision trace is requested for an
	// empty candidate batch. A trace with no candidates is meaningless and
	// must be rejected instead of silently degraded.
	ErrEmptyInput = errors.New("empty candidate batch")

	// ErrSessionNotFound is returned for unknown training session IDs
	ErrSessionNotFound = errors.New("training session not found")

	// ErrInvalidTransition is returned for illegal session state changes
	// (e.g. starting a completed session)
	ErrInvalidTransition = errors.New("invalid session state transition")

	// ErrNoMeasurements is returned when no telemetry source produced a batch
	ErrNoMeasurements = errors.New("no measurements available")
)
