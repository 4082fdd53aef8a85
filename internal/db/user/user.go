package user

import (
	"context"
	"database/sql"
	"errors"
	c "pwreset/internal/core/domain/common"
	"pwreset/internal/core/domain/user"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
)

const PG_UNIQUE_CONSTRAINT_ERR_CODE = "23505"
const EMAIL_CONSTRAINT_NAME = "user_email_idx"

const userColumns = `id, email, temp_email, password_hash, temp_password_hash, created_at`

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

type PgxUserRepository struct {
	db DBTX
}

func NewPgxRepository(db DBTX) *PgxUserRepository {
	if db == nil {
		panic("Argument db must not be nil.")
	}
	return &PgxUserRepository{db: db}
}

func (r *PgxUserRepository) Create(ctx context.Context, input user.CreateUserInput) (u user.User, err error) {
	row := r.db.QueryRow(
		ctx,
		`INSERT INTO "user" (email, temp_email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING `+userColumns,
		encodeEmail(input.Email),
		encodeEmail(input.TempEmail),
		encodePasswordHash(input.PasswordHash),
		input.CreatedAt,
	)
	u, err = scanUser(row)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == PG_UNIQUE_CONSTRAINT_ERR_CODE && pgErr.ConstraintName == EMAIL_CONSTRAINT_NAME {
			return u, user.ErrEmailAlreadyExists
		}
	}
	if err != nil {
		return u, err
	}
	return u, u.Validate()
}

func (r *PgxUserRepository) GetByID(ctx context.Context, id user.ID) (u user.User, err error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM "user" WHERE id = $1`, int64(id))
	return r.get(row)
}

func (r *PgxUserRepository) GetByEmailOrTempEmail(ctx context.Context, email c.Email) (u user.User, err error) {
	row := r.db.QueryRow(
		ctx,
		`SELECT `+userColumns+` FROM "user"
		WHERE lower(email) = lower($1) OR lower(temp_email) = lower($1)
		ORDER BY (lower(email) = lower($1)) DESC NULLS LAST, id
		LIMIT 1`,
		string(email),
	)
	return r.get(row)
}

func (r *PgxUserRepository) SetTempPassword(ctx context.Context, id user.ID, hash user.PasswordHash) error {
	tag, err := r.db.Exec(
		ctx,
		`UPDATE "user" SET temp_password_hash = $2 WHERE id = $1`,
		int64(id),
		string(hash),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserDoesNotExist
	}
	return nil
}

func (r *PgxUserRepository) PromoteTempPassword(ctx context.Context, id user.ID) error {
	var promoted, exists bool
	err := r.db.QueryRow(
		ctx,
		`WITH promoted AS (
			UPDATE "user"
			SET password_hash = temp_password_hash, temp_password_hash = NULL
			WHERE id = $1 AND temp_password_hash IS NOT NULL
			RETURNING id
		)
		SELECT EXISTS (SELECT 1 FROM promoted), EXISTS (SELECT 1 FROM "user" WHERE id = $1)`,
		int64(id),
	).Scan(&promoted, &exists)
	if err != nil {
		return err
	}
	if promoted {
		return nil
	}
	if !exists {
		return user.ErrUserDoesNotExist
	}
	return user.ErrPasswordResetIsNotRequired
}

func (r *PgxUserRepository) get(row pgx.Row) (u user.User, err error) {
	u, err = scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return u, user.ErrUserDoesNotExist
	}
	if err != nil {
		return u, err
	}
	return u, u.Validate()
}

func scanUser(row pgx.Row) (u user.User, err error) {
	var (
		id               int64
		email            sql.NullString
		tempEmail        sql.NullString
		passwordHash     sql.NullString
		tempPasswordHash sql.NullString
	)
	err = row.Scan(&id, &email, &tempEmail, &passwordHash, &tempPasswordHash, &u.CreatedAt)
	if err != nil {
		return u, err
	}
	u.ID = user.ID(id)
	u.Email = c.NewOptional(c.Email(email.String), email.Valid)
	u.TempEmail = c.NewOptional(c.Email(tempEmail.String), tempEmail.Valid)
	u.PasswordHash = c.NewOptional(user.PasswordHash(passwordHash.String), passwordHash.Valid)
	u.TempPasswordHash = c.NewOptional(user.PasswordHash(tempPasswordHash.String), tempPasswordHash.Valid)
	return u, nil
}

func encodeEmail(email c.Optional[c.Email]) sql.NullString {
	return sql.NullString{String: string(email.Value), Valid: email.IsPresent}
}

func encodePasswordHash(ph c.Optional[user.PasswordHash]) sql.NullString {
	return sql.NullString{String: string(ph.Value), Valid: ph.IsPresent}
}
