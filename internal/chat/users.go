package chat

import (
	"strings"
	"time"

	"github.com/Universe-Development/Freecord/internal/database"
	"github.com/Universe-Development/Freecord/internal/types"
	"golang.org/x/crypto/bcrypt"
)

// CreateUser registers a new account. The password is bcrypt-hashed
// before storage and the minted bearer token is returned exactly once,
// in the creation response.
func (s *Service) CreateUser(username, password string) (Result, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return failure(MsgUsernameRequired), nil
	}
	if password == "" {
		return failure(MsgPasswordRequired), nil
	}

	taken, err := s.store.Exists(TableUsers, database.Filter{"username": username})
	if err != nil {
		return Result{}, err
	}
	if taken {
		return failure(MsgUserExists), nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Result{}, err
	}

	id, err := s.newId(kindUser)
	if err != nil {
		return Result{}, err
	}

	token := newToken()
	createdAt := time.Now().Unix()

	_, err = s.store.Insert(TableUsers, database.Row{
		"user_id":       id,
		"username":      username,
		"hashed_passwd": string(hash),
		"user_token":    token,
		"created_at":    createdAt,
	})
	if err != nil {
		return Result{}, err
	}

	s.stats.Incr(MetricUsersCreated)
	s.log.Printf("created user %q (%d)", username, id)

	return success("account created", types.User{
		Id:        id,
		Username:  username,
		Token:     token,
		CreatedAt: createdAt,
	}), nil
}

// GetUser returns the public fields of one user. The stored password
// hash and bearer token never leave the rule layer.
func (s *Service) GetUser(token string, userId int64) (Result, error) {
	if _, ok, err := s.resolveUser(token); err != nil {
		return Result{}, err
	} else if !ok {
		return failure(MsgInvalidToken), nil
	}

	rows, err := s.store.Select(TableUsers, database.Filter{"user_id": userId})
	if err != nil {
		return Result{}, err
	}
	if len(rows) == 0 {
		return failure(MsgUserNotFound), nil
	}

	return success("user found", publicUser(rows[0])), nil
}

// ListUsers returns the public fields of every user.
func (s *Service) ListUsers(token string) (Result, error) {
	if _, ok, err := s.resolveUser(token); err != nil {
		return Result{}, err
	} else if !ok {
		return failure(MsgInvalidToken), nil
	}

	rows, err := s.store.Select(TableUsers, nil)
	if err != nil {
		return Result{}, err
	}

	users := make([]types.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, publicUser(row))
	}

	return success("users listed", users), nil
}

func publicUser(row database.Row) types.User {
	return types.User{
		Id:        rowInt(row, "user_id"),
		Username:  rowString(row, "username"),
		CreatedAt: rowInt(row, "created_at"),
	}
}
