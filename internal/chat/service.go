// Package chat implements the Freecord rule layer: entity creation,
// membership and ownership enforcement, DM thread canonicalization and
// paginated history retrieval, all layered directly on the record store.
//
// Every operation takes primitive arguments plus the caller's bearer
// token and returns a Result triple. Expected business-rule violations
// come back as Result{OK: false} with a client-facing message; the error
// return is reserved for structural store and generator failures.
package chat

import (
	"encoding/hex"
	"fmt"
	"log"
	"strconv"

	"github.com/Universe-Development/Freecord/internal/database"
	"github.com/Universe-Development/Freecord/internal/snowflake"
	"github.com/Universe-Development/Freecord/internal/stats"
	"github.com/Universe-Development/Freecord/internal/types"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Store table names.
const (
	TableUsers      = "users"
	TableServers    = "servers"
	TableChannels   = "channels"
	TableMembers    = "members"
	TableInvites    = "invites"
	TableMessages   = "messages"
	TableDMChannels = "dm_channels"
	TableDMMessages = "dm_messages"
)

// Tables lists every table the rule layer expects to exist.
var Tables = []string{
	TableUsers,
	TableServers,
	TableChannels,
	TableMembers,
	TableInvites,
	TableMessages,
	TableDMChannels,
	TableDMMessages,
}

// Identifier type tags, embedded as the most significant decimal digit.
const (
	kindUser      = 1
	kindServer    = 2
	kindChannel   = 3
	kindMessage   = 4
	kindDMChannel = 5
	kindDMMessage = 6
)

// Client-facing outcome messages. The HTTP layer maps these onto status
// codes, so they are part of the package's contract.
const (
	MsgInvalidToken      = "invalid token"
	MsgUsernameRequired  = "username is required"
	MsgPasswordRequired  = "password is required"
	MsgNameRequired      = "name is required"
	MsgUserExists        = "username already exists"
	MsgUserNotFound      = "user not found"
	MsgServerNotFound    = "server not found"
	MsgChannelNotFound   = "channel not found"
	MsgInviteNotFound    = "invalid invite code"
	MsgNotOwner          = "only the server owner can do that"
	MsgNotMember         = "not a member of this server"
	MsgChannelExists     = "channel name already taken on this server"
	MsgBadChannelType    = "channel type must be text or voice"
	MsgAlreadyMember     = "already a member of this server"
	MsgEmptyContent      = "message content cannot be empty"
	MsgSelfDirectMessage = "cannot send a direct message to yourself"
)

// Metric names registered by NewService.
const (
	MetricUsersCreated   = "UsersCreated"
	MetricServersCreated = "ServersCreated"
	MetricMessagesSent   = "MessagesSent"
	MetricDirectMessages = "DirectMessagesSent"
)

// tokenCacheSize bounds the token resolution cache; least recently used
// identities are evicted rather than growing for the process lifetime.
const tokenCacheSize = 1024

// messagePageSize caps every history read at the 50 most recent rows.
const messagePageSize = 50

// Result is the outcome triple returned by every rule-layer operation.
// Data is always JSON-serializable.
type Result struct {
	OK      bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func failure(msg string) Result {
	return Result{Message: msg}
}

func success(msg string, data any) Result {
	return Result{OK: true, Message: msg, Data: data}
}

// ChatService is the operation surface consumed by the HTTP transport.
type ChatService interface {
	CreateUser(username, password string) (Result, error)
	GetUser(token string, userId int64) (Result, error)
	ListUsers(token string) (Result, error)
	CreateServer(token, name string) (Result, error)
	ListServers(token string) (Result, error)
	MemberServers(token string) (Result, error)
	ListMembers(token string, serverId int64) (Result, error)
	CreateChannel(token string, serverId int64, name, channelType string) (Result, error)
	CreateInvite(token string, serverId int64) (Result, error)
	JoinServer(token, code string) (Result, error)
	SendMessage(token string, channelId int64, content string) (Result, error)
	GetMessages(token string, channelId, beforeId int64) (Result, error)
	SendDirectMessage(token string, recipientId int64, content string) (Result, error)
	GetDirectMessages(token string, otherId, beforeId int64) (Result, error)
}

// Service implements ChatService against a Store and a snowflake Node,
// both owned by the composition root and injected here.
type Service struct {
	log   *log.Logger
	store *database.Store
	node  *snowflake.Node
	stats stats.StatsProvider

	tokenCache *lru.Cache[string, types.User]
}

func NewService(logger *log.Logger, store *database.Store, node *snowflake.Node, sp stats.StatsProvider) (*Service, error) {
	cache, err := lru.New[string, types.User](tokenCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create token cache: %w", err)
	}

	sp.RegisterMetric(MetricUsersCreated)
	sp.RegisterMetric(MetricServersCreated)
	sp.RegisterMetric(MetricMessagesSent)
	sp.RegisterMetric(MetricDirectMessages)

	return &Service{
		log:        logger,
		store:      store,
		node:       node,
		stats:      sp,
		tokenCache: cache,
	}, nil
}

// Bootstrap creates any rule-layer table missing from the store. It is
// called once at startup before the transport accepts requests.
func Bootstrap(store *database.Store) error {
	for _, table := range Tables {
		if store.ExistsTable(table) {
			continue
		}
		if err := store.CreateTable(table); err != nil {
			return fmt.Errorf("bootstrap table %s: %w", table, err)
		}
	}
	return nil
}

// resolveUser maps a bearer token to the owning user. Hits are served
// from a bounded LRU cache; a miss scans the users table. The second
// return is false when no user owns the token.
func (s *Service) resolveUser(token string) (types.User, bool, error) {
	if token == "" {
		return types.User{}, false, nil
	}

	if user, ok := s.tokenCache.Get(token); ok {
		return user, true, nil
	}

	rows, err := s.store.Select(TableUsers, database.Filter{"user_token": token})
	if err != nil {
		return types.User{}, false, err
	}
	if len(rows) == 0 {
		return types.User{}, false, nil
	}

	user := types.User{
		Id:       rowInt(rows[0], "user_id"),
		Username: rowString(rows[0], "username"),
	}
	s.tokenCache.Add(token, user)

	return user, true, nil
}

// newId mints a snowflake and prefixes the decimal type digit by string
// concatenation. Arithmetic composition would not be bit-compatible with
// identifiers already on disk, so the textual form is load-bearing.
func (s *Service) newId(kind int) (int64, error) {
	raw, err := s.node.Generate()
	if err != nil {
		return 0, err
	}
	return taggedId(kind, raw)
}

func taggedId(kind int, raw int64) (int64, error) {
	id, err := strconv.ParseInt(strconv.Itoa(kind)+strconv.FormatInt(raw, 10), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("tag id %d with kind %d: %w", raw, kind, err)
	}
	return id, nil
}

// newToken mints an opaque bearer token: the fct_ prefix plus 128 bits
// of UUID entropy.
func newToken() string {
	u := uuid.New()
	return "fct_" + hex.EncodeToString(u[:])
}

func rowInt(r database.Row, key string) int64 {
	v, _ := r[key].(int64)
	return v
}

func rowString(r database.Row, key string) string {
	v, _ := r[key].(string)
	return v
}
