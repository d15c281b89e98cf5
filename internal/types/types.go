// Package types holds the JSON-facing entity shapes shared by the rule
// layer and the HTTP transport. Identifiers are snowflakes whose most
// significant decimal digit tags the entity kind; they are serialized as
// strings to survive JavaScript number precision.
package types

type User struct {
	Id        int64  `json:"user_id,string"`
	Username  string `json:"username"`
	Token     string `json:"user_token,omitempty"`
	CreatedAt int64  `json:"created_at,omitempty"`
}

type Server struct {
	Id      int64  `json:"server_id,string"`
	Name    string `json:"name"`
	OwnerId int64  `json:"owner_id,string"`
}

type Channel struct {
	Id       int64  `json:"channel_id,string"`
	ServerId int64  `json:"server_id,string"`
	Name     string `json:"name"`
	Type     string `json:"channel_type"`
}

type Member struct {
	ServerId int64  `json:"server_id,string"`
	UserId   int64  `json:"user_id,string"`
	Username string `json:"username,omitempty"`
}

type Invite struct {
	Code      string `json:"invite_code"`
	ServerId  int64  `json:"server_id,string"`
	CreatorId int64  `json:"creator_id,string"`
}

type Message struct {
	Id        int64  `json:"message_id,string"`
	ChannelId int64  `json:"channel_id,string"`
	ServerId  int64  `json:"server_id,string"`
	AuthorId  int64  `json:"author_id,string"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
}

type DirectMessage struct {
	Id          int64  `json:"message_id,string"`
	DMChannelId int64  `json:"dm_channel_id,string"`
	AuthorId    int64  `json:"author_id,string"`
	Content     string `json:"content"`
	Timestamp   int64  `json:"timestamp"`
}
