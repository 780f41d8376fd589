// internal/adapters/out/db/user_repository_pg.go
package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	dbcommon "digitalstore/internal/adapters/out/db/common"
	permissiondom "digitalstore/internal/domain/permission"
	userdom "digitalstore/internal/domain/user"
)

// PostgreSQL implementation of user.Repository.
type UserRepositoryPG struct {
	DB *sql.DB
}

func NewUserRepositoryPG(db *sql.DB) *UserRepositoryPG {
	return &UserRepositoryPG{DB: db}
}

const userColumns = `id, username, email, role, is_active, firebase_uid, registered_at, activated_at`

func (r *UserRepositoryPG) GetByID(ctx context.Context, id string) (userdom.User, error) {
	run := dbcommon.GetRunner(ctx, r.DB)
	row := run.QueryRowContext(ctx, `
SELECT `+userColumns+`
FROM users
WHERE id = $1`, strings.TrimSpace(id))
	return r.scanWithCapabilities(ctx, row)
}

func (r *UserRepositoryPG) GetByFirebaseUID(ctx context.Context, uid string) (userdom.User, error) {
	run := dbcommon.GetRunner(ctx, r.DB)
	row := run.QueryRowContext(ctx, `
SELECT `+userColumns+`
FROM users
WHERE firebase_uid = $1`, strings.TrimSpace(uid))
	return r.scanWithCapabilities(ctx, row)
}

func (r *UserRepositoryPG) Create(ctx context.Context, u userdom.User) (userdom.User, error) {
	run := dbcommon.GetRunner(ctx, r.DB)
	_, err := run.ExecContext(ctx, `
INSERT INTO users (id, username, email, role, is_active, firebase_uid, registered_at, activated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID, u.Username, u.Email, string(u.Role), u.IsActive,
		dbcommon.ToDBText(u.FirebaseUID), u.RegisteredAt, u.ActivatedAt,
	)
	if err != nil {
		if dbcommon.IsUniqueViolation(err) {
			return userdom.User{}, userdom.ErrConflict
		}
		return userdom.User{}, err
	}
	return u, nil
}

func (r *UserRepositoryPG) MarkActive(ctx context.Context, id string, at time.Time) error {
	run := dbcommon.GetRunner(ctx, r.DB)
	res, err := run.ExecContext(ctx, `
UPDATE users
SET is_active = TRUE, activated_at = $2
WHERE id = $1`, strings.TrimSpace(id), at.UTC())
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return userdom.ErrNotFound
	}
	return nil
}

func (r *UserRepositoryPG) GrantCapabilities(ctx context.Context, id string, caps []permissiondom.Capability) error {
	if len(caps) == 0 {
		return nil
	}
	run := dbcommon.GetRunner(ctx, r.DB)
	for _, c := range caps {
		_, err := run.ExecContext(ctx, `
INSERT INTO user_capabilities (user_id, capability)
VALUES ($1, $2)
ON CONFLICT (user_id, capability) DO NOTHING`, strings.TrimSpace(id), string(c))
		if err != nil {
			if dbcommon.IsForeignKeyViolation(err) {
				return userdom.ErrNotFound
			}
			return err
		}
	}
	return nil
}

// ==============================
// scan helpers
// ==============================

func (r *UserRepositoryPG) scanWithCapabilities(ctx context.Context, s dbcommon.RowScanner) (userdom.User, error) {
	u, err := scanUser(s)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return userdom.User{}, userdom.ErrNotFound
		}
		return userdom.User{}, err
	}

	caps, err := r.capabilities(ctx, u.ID)
	if err != nil {
		return userdom.User{}, err
	}
	u.Capabilities = caps
	return u, nil
}

func (r *UserRepositoryPG) capabilities(ctx context.Context, userID string) ([]permissiondom.Capability, error) {
	run := dbcommon.GetRunner(ctx, r.DB)
	rows, err := run.QueryContext(ctx, `
SELECT capability
FROM user_capabilities
WHERE user_id = $1
ORDER BY capability`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []permissiondom.Capability
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, permissiondom.Capability(c))
	}
	return out, rows.Err()
}

func scanUser(s dbcommon.RowScanner) (userdom.User, error) {
	var (
		u           userdom.User
		role        string
		firebaseUID sql.NullString
		activatedAt sql.NullTime
	)
	if err := s.Scan(&u.ID, &u.Username, &u.Email, &role, &u.IsActive, &firebaseUID, &u.RegisteredAt, &activatedAt); err != nil {
		return userdom.User{}, err
	}
	u.Role = userdom.Role(role)
	u.FirebaseUID = dbcommon.FromNullString(firebaseUID)
	if activatedAt.Valid {
		t := activatedAt.Time
		u.ActivatedAt = &t
	}
	return u, nil
}
