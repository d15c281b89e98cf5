package chat

import (
	"strings"
	"time"

	"github.com/Universe-Development/Freecord/internal/database"
	"github.com/Universe-Development/Freecord/internal/types"
)

// dmPair returns the canonically ordered participant pair, so both users
// always address the same thread regardless of who initiates.
func dmPair(a, b int64) (int64, int64) {
	if a > b {
		return b, a
	}
	return a, b
}

// SendDirectMessage delivers a message to another user, lazily creating
// the canonical DM channel for the pair on first contact. The channel
// lookup, its creation and the message insert run in one batch so a
// failure leaves neither row behind.
func (s *Service) SendDirectMessage(token string, recipientId int64, content string) (Result, error) {
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
	if recipientId == user.Id {
		return failure(MsgSelfDirectMessage), nil
	}

	exists, err := s.store.Exists(TableUsers, database.Filter{"user_id": recipientId})
	if err != nil {
		return Result{}, err
	}
	if !exists {
		return failure(MsgUserNotFound), nil
	}

	user1, user2 := dmPair(user.Id, recipientId)

	var msg types.DirectMessage
	err = s.store.Batch(func(tx *database.Tx) error {
		channels, err := tx.Select(TableDMChannels, database.Filter{
			"user1_id": user1,
			"user2_id": user2,
		})
		if err != nil {
			return err
		}

		var channelId int64
		if len(channels) > 0 {
			channelId = rowInt(channels[0], "dm_channel_id")
		} else {
			channelId, err = s.newId(kindDMChannel)
			if err != nil {
				return err
			}
			if _, err := tx.Insert(TableDMChannels, database.Row{
				"dm_channel_id": channelId,
				"user1_id":      user1,
				"user2_id":      user2,
			}); err != nil {
				return err
			}
		}

		id, err := s.newId(kindDMMessage)
		if err != nil {
			return err
		}
		ts := time.Now().Unix()

		if _, err := tx.Insert(TableDMMessages, database.Row{
			"message_id":    id,
			"dm_channel_id": channelId,
			"author_id":     user.Id,
			"content":       content,
			"timestamp":     ts,
		}); err != nil {
			return err
		}

		msg = types.DirectMessage{
			Id:          id,
			DMChannelId: channelId,
			AuthorId:    user.Id,
			Content:     content,
			Timestamp:   ts,
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	s.stats.Incr(MetricDirectMessages)

	return success("message sent", msg), nil
}

// GetDirectMessages returns the caller's DM history with another user,
// paginated like channel messages. A pair with no thread yet yields an
// empty list, not an error.
func (s *Service) GetDirectMessages(token string, otherId, beforeId int64) (Result, error) {
	user, ok, err := s.resolveUser(token)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return failure(MsgInvalidToken), nil
	}

	exists, err := s.store.Exists(TableUsers, database.Filter{"user_id": otherId})
	if err != nil {
		return Result{}, err
	}
	if !exists {
		return failure(MsgUserNotFound), nil
	}

	user1, user2 := dmPair(user.Id, otherId)

	channels, err := s.store.Select(TableDMChannels, database.Filter{
		"user1_id": user1,
		"user2_id": user2,
	})
	if err != nil {
		return Result{}, err
	}
	if len(channels) == 0 {
		return success("messages listed", []types.DirectMessage{}), nil
	}

	channelId := rowInt(channels[0], "dm_channel_id")

	rows, err := s.store.Select(TableDMMessages, database.Filter{"dm_channel_id": channelId})
	if err != nil {
		return Result{}, err
	}

	messages := make([]types.DirectMessage, 0, messagePageSize)
	for _, row := range paginate(rows, beforeId) {
		messages = append(messages, types.DirectMessage{
			Id:          rowInt(row, "message_id"),
			DMChannelId: channelId,
			AuthorId:    rowInt(row, "author_id"),
			Content:     rowString(row, "content"),
			Timestamp:   rowInt(row, "timestamp"),
		})
	}

	return success("messages listed", messages), nil
}
