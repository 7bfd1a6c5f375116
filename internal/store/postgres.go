package store

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schema string

const uniqueViolation = "23505"

// Postgres is the pgx-backed Store.
type Postgres struct {
	pool *pgxpool.Pool
}

var _ Store = (*Postgres)(nil)

// Connect opens a pool, pings it and applies the schema.
func Connect(ctx context.Context, url string) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse db url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	p := &Postgres{pool: pool}
	if err := p.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return p, nil
}

func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *Postgres) Close() {
	p.pool.Close()
}

const userColumns = `id, name, email, password_hash, created_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (p *Postgres) CreateUser(ctx context.Context, name, email, passwordHash string) (*User, error) {
	row := p.pool.QueryRow(ctx,
		`INSERT INTO users (name, email, password_hash) VALUES ($1, $2, $3) RETURNING `+userColumns,
		name, NormalizeEmail(email), passwordHash)
	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", mapUnique(err))
	}
	return u, nil
}

func (p *Postgres) UserByID(ctx context.Context, id int64) (*User, error) {
	u, err := scanUser(p.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("user %d: %w", id, err)
	}
	return u, nil
}

func (p *Postgres) UserByEmail(ctx context.Context, email string) (*User, error) {
	u, err := scanUser(p.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, NormalizeEmail(email)))
	if err != nil {
		return nil, fmt.Errorf("user by email: %w", err)
	}
	return u, nil
}

func (p *Postgres) UpdateProfile(ctx context.Context, id int64, name, email string) (*User, error) {
	row := p.pool.QueryRow(ctx,
		`UPDATE users SET name = $2, email = $3 WHERE id = $1 RETURNING `+userColumns,
		id, name, NormalizeEmail(email))
	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", mapUnique(err))
	}
	return u, nil
}

func (p *Postgres) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	tag, err := p.pool.Exec(ctx, `UPDATE users SET password_hash = $2 WHERE id = $1`, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) CreateSession(ctx context.Context, s Session) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO sessions (token, user_id, expires_at) VALUES ($1, $2, $3)`,
		s.Token, s.UserID, s.ExpiresAt)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (p *Postgres) SessionByToken(ctx context.Context, token string, now time.Time) (*Session, error) {
	var s Session
	err := p.pool.QueryRow(ctx,
		`SELECT token, user_id, expires_at FROM sessions WHERE token = $1`, token,
	).Scan(&s.Token, &s.UserID, &s.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !now.Before(s.ExpiresAt) {
		if err := p.DeleteSession(ctx, token); err != nil {
			return nil, err
		}
		return nil, ErrSessionExpired
	}
	return &s, nil
}

func (p *Postgres) DeleteSession(ctx context.Context, token string) error {
	if _, err := p.pool.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

const recordColumns = `id, user_id, created_at, symptoms, heart_rate, pulse_rate, systolic_bp, diastolic_bp, temperature, result`

func (p *Postgres) SaveRecord(ctx context.Context, rec *Record) error {
	blob, err := json.Marshal(rec.Result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	err = p.pool.QueryRow(ctx,
		`INSERT INTO diagnoses (user_id, symptoms, heart_rate, pulse_rate, systolic_bp, diastolic_bp, temperature, result)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id, created_at`,
		rec.UserID, rec.Symptoms, rec.HeartRate, rec.PulseRate, rec.SystolicBP, rec.DiastolicBP, rec.Temperature, string(blob),
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("save record: %w", err)
	}
	return nil
}

func scanRecord(row pgx.Row) (*Record, error) {
	var (
		r    Record
		blob []byte
	)
	err := row.Scan(&r.ID, &r.UserID, &r.CreatedAt, &r.Symptoms,
		&r.HeartRate, &r.PulseRate, &r.SystolicBP, &r.DiastolicBP, &r.Temperature, &blob)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(blob, &r.Result); err != nil {
		return nil, fmt.Errorf("decode result for record %d: %w", r.ID, err)
	}
	return &r, nil
}

func (p *Postgres) RecordsByUser(ctx context.Context, userID int64) ([]Record, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT `+recordColumns+` FROM diagnoses WHERE user_id = $1 ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("list records: %w", err)
		}
		out = append(out, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return out, nil
}

func (p *Postgres) RecordByID(ctx context.Context, userID, id int64) (*Record, error) {
	r, err := scanRecord(p.pool.QueryRow(ctx,
		`SELECT `+recordColumns+` FROM diagnoses WHERE id = $1 AND user_id = $2`, id, userID))
	if err != nil {
		return nil, fmt.Errorf("record %d: %w", id, err)
	}
	return r, nil
}

func mapUnique(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrEmailTaken
	}
	return err
}
