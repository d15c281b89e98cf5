package chat

import (
	"fmt"

	"github.com/Universe-Development/Freecord/internal/database"
	"github.com/Universe-Development/Freecord/internal/types"
	"github.com/teris-io/shortid"
)

// CreateInvite mints an invite code for a server the caller belongs to.
func (s *Service) CreateInvite(token string, serverId int64) (Result, error) {
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

	code, err := shortid.Generate()
	if err != nil {
		return Result{}, fmt.Errorf("generate invite code: %w", err)
	}

	_, err = s.store.Insert(TableInvites, database.Row{
		"invite_code": code,
		"server_id":   serverId,
		"creator_id":  user.Id,
	})
	if err != nil {
		return Result{}, err
	}

	s.log.Printf("user %d created invite for server %d", user.Id, serverId)

	return success("invite created", types.Invite{
		Code:      code,
		ServerId:  serverId,
		CreatorId: user.Id,
	}), nil
}

// JoinServer redeems an invite code. The invite must exist and the caller
// must not already be a member; invites stay valid for repeated use by
// different users.
func (s *Service) JoinServer(token, code string) (Result, error) {
	user, ok, err := s.resolveUser(token)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return failure(MsgInvalidToken), nil
	}

	invites, err := s.store.Select(TableInvites, database.Filter{"invite_code": code})
	if err != nil {
		return Result{}, err
	}
	if len(invites) == 0 {
		return failure(MsgInviteNotFound), nil
	}

	serverId := rowInt(invites[0], "server_id")

	member, err := s.isMember(serverId, user.Id)
	if err != nil {
		return Result{}, err
	}
	if member {
		return failure(MsgAlreadyMember), nil
	}

	_, err = s.store.Insert(TableMembers, database.Row{
		"server_id": serverId,
		"user_id":   user.Id,
	})
	if err != nil {
		return Result{}, err
	}

	s.log.Printf("user %d joined server %d", user.Id, serverId)

	return success("joined server", types.Member{
		ServerId: serverId,
		UserId:   user.Id,
		Username: user.Username,
	}), nil
}
