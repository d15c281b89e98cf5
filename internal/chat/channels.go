package chat

import (
	"strings"

	"github.com/Universe-Development/Freecord/internal/database"
	"github.com/Universe-Development/Freecord/internal/types"
)

// Valid channel types.
const (
	ChannelTypeText  = "text"
	ChannelTypeVoice = "voice"
)

// CreateChannel adds a channel to a server. Only the server's owner may
// create channels, and the (name, server) pair must be unique.
func (s *Service) CreateChannel(token string, serverId int64, name, channelType string) (Result, error) {
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
	if channelType != ChannelTypeText && channelType != ChannelTypeVoice {
		return failure(MsgBadChannelType), nil
	}

	servers, err := s.store.Select(TableServers, database.Filter{"server_id": serverId})
	if err != nil {
		return Result{}, err
	}
	if len(servers) == 0 {
		return failure(MsgServerNotFound), nil
	}
	if rowInt(servers[0], "owner_id") != user.Id {
		return failure(MsgNotOwner), nil
	}

	taken, err := s.store.Exists(TableChannels, database.Filter{
		"server_id": serverId,
		"name":      name,
	})
	if err != nil {
		return Result{}, err
	}
	if taken {
		return failure(MsgChannelExists), nil
	}

	id, err := s.newId(kindChannel)
	if err != nil {
		return Result{}, err
	}

	_, err = s.store.Insert(TableChannels, database.Row{
		"channel_id":   id,
		"server_id":    serverId,
		"name":         name,
		"channel_type": channelType,
	})
	if err != nil {
		return Result{}, err
	}

	s.log.Printf("user %d created %s channel %q (%d) on server %d", user.Id, channelType, name, id, serverId)

	return success("channel created", types.Channel{
		Id:       id,
		ServerId: serverId,
		Name:     name,
		Type:     channelType,
	}), nil
}
