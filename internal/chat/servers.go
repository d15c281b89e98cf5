package chat

import (
	"strings"

	"github.com/Universe-Development/Freecord/internal/database"
	"github.com/Universe-Development/Freecord/internal/types"
)

// CreateServer creates a server owned by the caller and adds the owner's
// membership row in the same batch. Ownership never implies membership on
// its own; the member row is what membership checks look for.
func (s *Service) CreateServer(token, name string) (Result, error) {
	user, ok, err := s.resolveUser(token)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return failure(MsgInvalidToken), nil
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return failure(MsgNameRequired), nil
	}

	id, err := s.newId(kindServer)
	if err != nil {
		return Result{}, err
	}

	err = s.store.Batch(func(tx *database.Tx) error {
		if _, err := tx.Insert(TableServers, database.Row{
			"server_id": id,
			"name":      name,
			"owner_id":  user.Id,
		}); err != nil {
			return err
		}
		_, err := tx.Insert(TableMembers, database.Row{
			"server_id": id,
			"user_id":   user.Id,
		})
		return err
	})
	if err != nil {
		return Result{}, err
	}

	s.stats.Incr(MetricServersCreated)
	s.log.Printf("user %d created server %q (%d)", user.Id, name, id)

	return success("server created", types.Server{
		Id:      id,
		Name:    name,
		OwnerId: user.Id,
	}), nil
}

// ListServers returns every server.
func (s *Service) ListServers(token string) (Result, error) {
	if _, ok, err := s.resolveUser(token); err != nil {
		return Result{}, err
	} else if !ok {
		return failure(MsgInvalidToken), nil
	}

	rows, err := s.store.Select(TableServers, nil)
	if err != nil {
		return Result{}, err
	}

	servers := make([]types.Server, 0, len(rows))
	for _, row := range rows {
		servers = append(servers, rowToServer(row))
	}

	return success("servers listed", servers), nil
}

// MemberServers returns the servers the caller belongs to, joining the
// caller's member rows to the servers table in memory.
func (s *Service) MemberServers(token string) (Result, error) {
	user, ok, err := s.resolveUser(token)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return failure(MsgInvalidToken), nil
	}

	memberships, err := s.store.Select(TableMembers, database.Filter{"user_id": user.Id})
	if err != nil {
		return Result{}, err
	}

	serverRows, err := s.store.Select(TableServers, nil)
	if err != nil {
		return Result{}, err
	}

	byId := make(map[int64]types.Server, len(serverRows))
	for _, row := range serverRows {
		srv := rowToServer(row)
		byId[srv.Id] = srv
	}

	servers := make([]types.Server, 0, len(memberships))
	for _, m := range memberships {
		if srv, ok := byId[rowInt(m, "server_id")]; ok {
			servers = append(servers, srv)
		}
	}

	return success("servers listed", servers), nil
}

// ListMembers returns the member list of a server the caller belongs to,
// with usernames joined in from the users table.
func (s *Service) ListMembers(token string, serverId int64) (Result, error) {
	user, ok, err := s.resolveUser(token)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return failure(MsgInvalidToken), nil
	}

	exists, err := s.store.Exists(TableServers, database.Filter{"server_id": serverId})
	if err != nil {
		return Result{}, err
	}
	if !exists {
		return failure(MsgServerNotFound), nil
	}

	member, err := s.isMember(serverId, user.Id)
	if err != nil {
		return Result{}, err
	}
	if !member {
		return failure(MsgNotMember), nil
	}

	memberRows, err := s.store.Select(TableMembers, database.Filter{"server_id": serverId})
	if err != nil {
		return Result{}, err
	}

	userRows, err := s.store.Select(TableUsers, nil)
	if err != nil {
		return Result{}, err
	}
	usernames := make(map[int64]string, len(userRows))
	for _, row := range userRows {
		usernames[rowInt(row, "user_id")] = rowString(row, "username")
	}

	members := make([]types.Member, 0, len(memberRows))
	for _, row := range memberRows {
		userId := rowInt(row, "user_id")
		members = append(members, types.Member{
			ServerId: serverId,
			UserId:   userId,
			Username: usernames[userId],
		})
	}

	return success("members listed", members), nil
}

func (s *Service) isMember(serverId, userId int64) (bool, error) {
	return s.store.Exists(TableMembers, database.Filter{
		"server_id": serverId,
		"user_id":   userId,
	})
}

func rowToServer(row database.Row) types.Server {
	return types.Server{
		Id:      rowInt(row, "server_id"),
		Name:    rowString(row, "name"),
		OwnerId: rowInt(row, "owner_id"),
	}
}
