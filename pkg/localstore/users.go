package localstore

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/inkwellhq/inkwell-backend/pkg/utils"
)

var (
	// ErrInvalidCredentials covers both unknown identifier and bad password.
	ErrInvalidCredentials = errors.New("localstore: invalid credentials")
	// ErrUserExists means the username or email is already taken locally.
	ErrUserExists = errors.New("localstore: username or email already taken")
)

// User is a locally registered account. The password is stored as a bcrypt
// hash, never in the clear.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash,omitempty"`
	Name         string    `json:"name,omitempty"`
	Bio          string    `json:"bio,omitempty"`
	Avatar       string    `json:"avatar,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Accounts implements local registration and login against the store, plus
// persistence for the active session and its token.
type Accounts struct {
	store *Store
}

// NewAccounts returns an account manager over the given store.
func NewAccounts(store *Store) *Accounts {
	return &Accounts{store: store}
}

func (a *Accounts) load() ([]User, error) {
	var users []User
	if err := a.store.Get(KeyUsers, &users); err != nil {
		if err == ErrKeyNotFound {
			return []User{}, nil
		}
		return nil, err
	}
	return users, nil
}

// Register creates a local account after the same validation the backend
// applies, and makes it the current session.
func (a *Accounts) Register(username, email, password string) (*User, error) {
	if err := utils.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := utils.ValidateEmail(email); err != nil {
		return nil, err
	}
	if len(password) < utils.MinPasswordLength {
		return nil, &utils.ValidationError{Field: "password", Message: "Password must be at least 6 characters"}
	}

	username = utils.NormalizeUsername(username)
	email = utils.NormalizeEmail(email)

	users, err := a.load()
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.Username == username || u.Email == email {
			return nil, ErrUserExists
		}
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	users = append(users, user)
	if err := a.store.Set(KeyUsers, users); err != nil {
		return nil, err
	}

	if err := a.setCurrent(&user); err != nil {
		return nil, err
	}
	return sanitize(&user), nil
}

// Login matches the identifier against username or email and verifies the
// password. On success the account becomes the current session.
func (a *Accounts) Login(identifier, password string) (*User, error) {
	identifier = strings.ToLower(strings.TrimSpace(identifier))

	users, err := a.load()
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Username != identifier && users[i].Email != identifier {
			continue
		}
		if !utils.VerifyPassword(password, users[i].PasswordHash) {
			return nil, ErrInvalidCredentials
		}
		if err := a.setCurrent(&users[i]); err != nil {
			return nil, err
		}
		return sanitize(&users[i]), nil
	}
	return nil, ErrInvalidCredentials
}

// CurrentUser returns the active session's account, or nil when logged out.
func (a *Accounts) CurrentUser() (*User, error) {
	var user User
	if err := a.store.Get(KeyCurrentUser, &user); err != nil {
		if err == ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// SetCurrentUser stores a session resolved remotely (e.g. after a backend
// login) so the mirror knows who is active while offline.
func (a *Accounts) SetCurrentUser(user *User) error {
	return a.setCurrent(user)
}

// Logout clears the current session and token.
func (a *Accounts) Logout() error {
	if err := a.store.Delete(KeyCurrentUser); err != nil {
		return err
	}
	return a.store.Delete(KeyToken)
}

// Token returns the persisted backend token, or "" when none is stored.
func (a *Accounts) Token() (string, error) {
	var token string
	if err := a.store.Get(KeyToken, &token); err != nil {
		if err == ErrKeyNotFound {
			return "", nil
		}
		return "", err
	}
	return token, nil
}

// SetToken persists the backend token alongside the session.
func (a *Accounts) SetToken(token string) error {
	return a.store.Set(KeyToken, token)
}

func (a *Accounts) setCurrent(user *User) error {
	return a.store.Set(KeyCurrentUser, sanitize(user))
}

// sanitize strips the password hash from copies handed back to callers.
func sanitize(user *User) *User {
	clean := *user
	clean.PasswordHash = ""
	return &clean
}
