package chat

import (
	"strings"
	"time"

	"github.com/Universe-Development/Freecord/internal/database"
	"github.com/Universe-Development/Freecord/internal/types"
)

// SendMessage posts a message to a channel. The author must be a member
// of the channel's server; the timestamp is assigned server-side at
// insertion, never taken from the client.
func (s *Service) SendMessage(token string, channelId int64, content string) (Result, error) {
	user, ok, err := s.resolveUser(token)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return failure(MsgInvalidToken), nil
	}

	if strings.TrimSpace(content) == "" {
		return failure(MsgEmptyContent), nil
	}

	channels, err := s.store.Select(TableChannels, database.Filter{"channel_id": channelId})
	if err != nil {
		return Result{}, err
	}
	if len(channels) == 0 {
		return failure(MsgChannelNotFound), nil
	}

	serverId := rowInt(channels[0], "server_id")

	member, err := s.isMember(serverId, user.Id)
	if err != nil {
		return Result{}, err
	}
	if !member {
		return failure(MsgNotMember), nil
	}

	id, err := s.newId(kindMessage)
	if err != nil {
		return Result{}, err
	}
	ts := time.Now().Unix()

	_, err = s.store.Insert(TableMessages, database.Row{
		"message_id": id,
		"channel_id": channelId,
		"server_id":  serverId,
		"author_id":  user.Id,
		"content":    content,
		"timestamp":  ts,
	})
	if err != nil {
		return Result{}, err
	}

	s.stats.Incr(MetricMessagesSent)

	return success("message sent", types.Message{
		Id:        id,
		ChannelId: channelId,
		ServerId:  serverId,
		AuthorId:  user.Id,
		Content:   content,
		Timestamp: ts,
	}), nil
}

// GetMessages returns up to the 50 most recent messages of a channel in
// ascending order. A non-zero beforeId truncates the history to messages
// strictly preceding that id's position, giving cursor-based backward
// pagination.
func (s *Service) GetMessages(token string, channelId, beforeId int64) (Result, error) {
	user, ok, err := s.resolveUser(token)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return failure(MsgInvalidToken), nil
	}

	channels, err := s.store.Select(TableChannels, database.Filter{"channel_id": channelId})
	if err != nil {
		return Result{}, err
	}
	if len(channels) == 0 {
		return failure(MsgChannelNotFound), nil
	}

	member, err := s.isMember(rowInt(channels[0], "server_id"), user.Id)
	if err != nil {
		return Result{}, err
	}
	if !member {
		return failure(MsgNotMember), nil
	}

	rows, err := s.store.Select(TableMessages, database.Filter{"channel_id": channelId})
	if err != nil {
		return Result{}, err
	}

	messages := make([]types.Message, 0, messagePageSize)
	for _, row := range paginate(rows, beforeId) {
		messages = append(messages, types.Message{
			Id:        rowInt(row, "message_id"),
			ChannelId: rowInt(row, "channel_id"),
			ServerId:  rowInt(row, "server_id"),
			AuthorId:  rowInt(row, "author_id"),
			Content:   rowString(row, "content"),
			Timestamp: rowInt(row, "timestamp"),
		})
	}

	return success("messages listed", messages), nil
}

// paginate truncates rows to everything strictly before the row whose
// message_id equals beforeId (when non-zero), then keeps the trailing
// page. Rows arrive in insertion order, so the result is the most recent
// page, most recent last.
func paginate(rows []database.Row, beforeId int64) []database.Row {
	if beforeId != 0 {
		for i, row := range rows {
			if rowInt(row, "message_id") == beforeId {
				rows = rows[:i]
				break
			}
		}
	}
	if len(rows) > messagePageSize {
		rows = rows[len(rows)-messagePageSize:]
	}
	return rows
}
