package user

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/idgate/idgate/internal/sql"
)

// pgdb is the postgres identity store.
type pgdb struct {
	*sql.DB
}

// createUserIfNeeded persists the user unless a user with the same ID already
// exists, in which case the existing record is left untouched. The returned
// user is the stored record, which may differ from the given user when it
// already existed. Insert and re-fetch share a transaction so the re-fetch
// sees the winning record.
func (db *pgdb) createUserIfNeeded(ctx context.Context, user *User) (*User, error) {
	var stored *User
	err := db.Tx(ctx, func(ctx context.Context) (txErr error) {
		_, txErr = db.Exec(ctx, `
INSERT INTO users (
    user_id,
    created_at,
    updated_at,
    username,
    display_name,
    emails,
    password
) VALUES (
    @user_id,
    @created_at,
    @updated_at,
    @username,
    @display_name,
    @emails,
    @password
)
ON CONFLICT (user_id) DO NOTHING
`,
			pgx.NamedArgs{
				"user_id":      user.ID,
				"created_at":   user.CreatedAt,
				"updated_at":   user.UpdatedAt,
				"username":     user.Username,
				"display_name": user.DisplayName,
				"emails":       user.EmailValues(),
				"password":     user.Password,
			},
		)
		if txErr != nil {
			return txErr
		}
		stored, txErr = db.getUser(ctx, UserSpec{UserID: &user.ID})
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// createUser persists a user, returning internal.ErrResourceAlreadyExists if
// a user with the same ID exists.
func (db *pgdb) createUser(ctx context.Context, user *User) error {
	_, err := db.Exec(ctx, `
INSERT INTO users (
    user_id,
    created_at,
    updated_at,
    username,
    display_name,
    emails,
    password
) VALUES (
    @user_id,
    @created_at,
    @updated_at,
    @username,
    @display_name,
    @emails,
    @password
)
`,
		pgx.NamedArgs{
			"user_id":      user.ID,
			"created_at":   user.CreatedAt,
			"updated_at":   user.UpdatedAt,
			"username":     user.Username,
			"display_name": user.DisplayName,
			"emails":       user.EmailValues(),
			"password":     user.Password,
		},
	)
	return err
}

func (db *pgdb) getUser(ctx context.Context, spec UserSpec) (*User, error) {
	query := `
SELECT user_id, created_at, updated_at, username, display_name, emails, password
FROM users
`
	var arg any
	switch {
	case spec.UserID != nil:
		query += `WHERE user_id = $1`
		arg = *spec.UserID
	case spec.Username != nil:
		// Usernames are only guaranteed unique within the local namespace;
		// prefer the oldest record when a federated handle collides.
		query += `WHERE username = $1 ORDER BY created_at LIMIT 1`
		arg = *spec.Username
	default:
		return nil, &invalidUserSpecError{spec}
	}
	rows := db.Query(ctx, query, arg)
	return sql.CollectOneRow(rows, scanUser)
}

func scanUser(row pgx.CollectableRow) (*User, error) {
	var (
		user   User
		emails []string
	)
	err := row.Scan(
		&user.ID,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.Username,
		&user.DisplayName,
		&emails,
		&user.Password,
	)
	if err != nil {
		return nil, err
	}
	user.Emails = make([]Email, len(emails))
	for i, value := range emails {
		user.Emails[i] = Email{Value: value}
	}
	return &user, nil
}

type invalidUserSpecError struct {
	spec UserSpec
}

func (e *invalidUserSpecError) Error() string {
	return "user spec must specify either an ID or a username"
}
