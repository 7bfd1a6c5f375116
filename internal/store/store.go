// Package store persists accounts, sessions and assessment records.
package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Skufu/DocDiag/internal/diagnosis"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrEmailTaken     = errors.New("email already registered")
	ErrSessionExpired = errors.New("session expired")
)

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Session struct {
	Token     string
	UserID    int64
	ExpiresAt time.Time
}

// Record is one persisted assessment: the raw input alongside its result.
type Record struct {
	ID          int64            `json:"id"`
	UserID      int64            `json:"userId"`
	CreatedAt   time.Time        `json:"createdAt"`
	Symptoms    string           `json:"symptoms"`
	HeartRate   *int             `json:"heartRate"`
	PulseRate   *int             `json:"pulseRate"`
	SystolicBP  *int             `json:"systolicBp"`
	DiastolicBP *int             `json:"diastolicBp"`
	Temperature *float64         `json:"temperature"`
	Result      diagnosis.Result `json:"result"`
}

// NewRecord builds an unsaved record from an engine input and its result.
func NewRecord(userID int64, in diagnosis.Input, result diagnosis.Result) *Record {
	return &Record{
		UserID:      userID,
		Symptoms:    in.Symptoms,
		HeartRate:   in.HeartRate,
		PulseRate:   in.PulseRate,
		SystolicBP:  in.SystolicBP,
		DiastolicBP: in.DiastolicBP,
		Temperature: in.Temperature,
		Result:      result,
	}
}

// Store is implemented by the Postgres and in-memory backends.
type Store interface {
	Ping(ctx context.Context) error
	Close()

	CreateUser(ctx context.Context, name, email, passwordHash string) (*User, error)
	UserByID(ctx context.Context, id int64) (*User, error)
	UserByEmail(ctx context.Context, email string) (*User, error)
	UpdateProfile(ctx context.Context, id int64, name, email string) (*User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error

	CreateSession(ctx context.Context, s Session) error
	// SessionByToken returns ErrSessionExpired (and drops the session) once
	// now is past its expiry.
	SessionByToken(ctx context.Context, token string, now time.Time) (*Session, error)
	DeleteSession(ctx context.Context, token string) error

	// SaveRecord assigns ID and CreatedAt.
	SaveRecord(ctx context.Context, rec *Record) error
	// RecordsByUser returns newest first.
	RecordsByUser(ctx context.Context, userID int64) ([]Record, error)
	RecordByID(ctx context.Context, userID, id int64) (*Record, error)
}

// NormalizeEmail is applied to every email before it is stored or looked up.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
