package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/tmbureta/academia/core"
	"github.com/tmbureta/academia/core/user"
)

// userDoc carries the password hash, which User keeps out of its JSON
// representation.
type userDoc struct {
	user.User
	PasswordHash []byte `json:"password_hash,omitempty"`
}

type userRepository struct {
	table docTable
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *sql.DB) user.Repository {
	return &userRepository{table: newDocTable(db, "users", "name", "username", "email", "created_at", "last_login")}
}

func (repo *userRepository) CheckUsernameUniqueness(ctx context.Context, username, email string, excludedUsers ...user.User) error {
	excluded := make(map[string]struct{}, len(excludedUsers))
	for _, usr := range excludedUsers {
		excluded[usr.ID] = struct{}{}
	}

	check := func(field, value string, dupErr error) error {
		if value == "" {
			return nil
		}
		docs, err := repo.table.list(ctx, field, value)
		if err != nil {
			return errors.Wrap(err, "querying users")
		}
		for _, raw := range docs {
			var d userDoc
			if err = json.Unmarshal(raw, &d); err != nil {
				return errors.Wrap(err, "unmarshaling user document")
			}
			if _, ok := excluded[d.User.ID]; !ok {
				return dupErr
			}
		}
		return nil
	}

	if err := check("username", username, user.ErrUsernameExists); err != nil {
		return err
	}
	return check("email", email, user.ErrEmailExists)
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	doc := userDoc{User: usr, PasswordHash: usr.PasswordHash}
	if err := repo.table.insert(ctx, usr.ID, doc); err != nil {
		return user.User{}, errors.Wrap(err, "creating user")
	}
	return usr, nil
}

func (repo *userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	var d userDoc
	if err := repo.table.get(ctx, id, &d); err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "getting user")
	}
	return d.unwrap(), nil
}

func (repo *userRepository) GetUserByUsernameOrEmail(ctx context.Context, username string) (user.User, error) {
	for _, field := range []string{"username", "email"} {
		docs, err := repo.table.list(ctx, field, username)
		if err != nil {
			return user.User{}, errors.Wrap(err, "querying users")
		}
		if len(docs) > 0 {
			var d userDoc
			if err = json.Unmarshal(docs[0], &d); err != nil {
				return user.User{}, errors.Wrap(err, "unmarshaling user document")
			}
			return d.unwrap(), nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) FilterUsers(ctx context.Context, filter user.QueryFilter, orderings ...core.DBOrdering) ([]user.User, error) {
	// class and course are the only filter fields the extracted-field
	// indexes can serve; the rest is applied in memory.
	field, value := "", ""
	if filter.ClassID != "" {
		field, value = "class_id", filter.ClassID
	} else if filter.CourseID != "" {
		field, value = "course_id", filter.CourseID
	}

	docs, err := repo.table.list(ctx, field, value, orderings...)
	if err != nil {
		return nil, errors.Wrap(err, "querying users")
	}

	users := make([]user.User, 0, len(docs))
	for _, raw := range docs {
		var d userDoc
		if err = json.Unmarshal(raw, &d); err != nil {
			return nil, errors.Wrap(err, "unmarshaling user document")
		}
		if usr := d.unwrap(); filter.Match(usr) {
			users = append(users, usr)
		}
	}
	return users, nil
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User, isActive *bool) (user.User, error) {
	if isActive != nil {
		usr.IsActive = isActive
	}
	doc := userDoc{User: usr, PasswordHash: usr.PasswordHash}
	if err := repo.table.upsert(ctx, usr.ID, doc); err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	return usr, nil
}

func (repo *userRepository) DeleteUsersByID(ctx context.Context, ids ...string) error {
	return errors.Wrap(repo.table.delete(ctx, ids...), "deleting users")
}

func (d userDoc) unwrap() user.User {
	usr := d.User
	usr.PasswordHash = d.PasswordHash
	return usr
}
