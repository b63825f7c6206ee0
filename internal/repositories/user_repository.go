package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"telegram-admin/config"
	"telegram-admin/internal/models"
	"telegram-admin/internal/utils"
)

type SQLUserRepository struct {
	db          *config.Database
	ownerOpenID string
}

// NewSQLUserRepository builds the user repository. ownerOpenID is the
// configured owner identity; its first sign-in gets the admin role.
func NewSQLUserRepository(db *config.Database, ownerOpenID string) *SQLUserRepository {
	return &SQLUserRepository{db: db, ownerOpenID: ownerOpenID}
}

// Upsert inserts or partially updates a user matched by openId. Only
// supplied fields change; lastSignedIn always refreshes. When the
// database is unavailable the call warns and does nothing, so a login
// still works in local development.
func (r *SQLUserRepository) Upsert(user models.UserUpsert) error {
	if user.OpenID == "" {
		return &models.ValidationError{Field: "openId", Message: "required for upsert"}
	}

	db, ok := r.db.Handle()
	if !ok {
		utils.LogWarning("Cannot upsert user: database not available")
		return nil
	}

	now := time.Now().UTC()
	signedIn := now
	if user.LastSignedIn != nil {
		signedIn = *user.LastSignedIn
	}

	existing, err := r.GetByOpenID(user.OpenID)
	if err != nil {
		return err
	}

	if existing == nil {
		role := models.RoleUser
		if user.Role != nil {
			role = *user.Role
		} else if r.ownerOpenID != "" && user.OpenID == r.ownerOpenID {
			role = models.RoleAdmin
		}

		_, err := db.Exec(`
			INSERT INTO users (openId, name, email, loginMethod, role, createdAt, updatedAt, lastSignedIn)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			user.OpenID,
			nullDeref(user.Name),
			nullDeref(user.Email),
			nullDeref(user.LoginMethod),
			role,
			now,
			now,
			signedIn,
		)
		if err != nil {
			return fmt.Errorf("error inserting user: %v", err)
		}
		return nil
	}

	set := []string{"lastSignedIn = ?"}
	args := []interface{}{signedIn}

	if user.Name != nil {
		set = append(set, "name = ?")
		args = append(args, nullDeref(user.Name))
	}
	if user.Email != nil {
		set = append(set, "email = ?")
		args = append(args, nullDeref(user.Email))
	}
	if user.LoginMethod != nil {
		set = append(set, "loginMethod = ?")
		args = append(args, nullDeref(user.LoginMethod))
	}
	if user.Role != nil {
		set = append(set, "role = ?")
		args = append(args, *user.Role)
	}
	set = append(set, "updatedAt = ?")
	args = append(args, now, user.OpenID)

	query := "UPDATE users SET " + strings.Join(set, ", ") + " WHERE openId = ?"
	if _, err := db.Exec(query, args...); err != nil {
		return fmt.Errorf("error updating user: %v", err)
	}
	return nil
}

func (r *SQLUserRepository) GetByOpenID(openID string) (*models.User, error) {
	db, ok := r.db.Handle()
	if !ok {
		utils.LogWarning("Cannot get user: database not available")
		return nil, nil
	}

	user := &models.User{}
	var name, email, loginMethod sql.NullString

	err := db.QueryRow(`
		SELECT id, openId, name, email, loginMethod, role, createdAt, updatedAt, lastSignedIn
		FROM users
		WHERE openId = ?`, openID).Scan(
		&user.ID,
		&user.OpenID,
		&name,
		&email,
		&loginMethod,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.LastSignedIn,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error getting user: %v", err)
	}

	user.Name = name.String
	user.Email = email.String
	user.LoginMethod = loginMethod.String

	return user, nil
}

// nullDeref maps a nil pointer to SQL NULL and an empty string to NULL
// as well, matching the "explicit null clears the field" contract.
func nullDeref(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return utils.NullString(*s)
}
