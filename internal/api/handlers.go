package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Universe-Development/Freecord/internal/chat"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type CreateServerRequest struct {
	Name string `json:"name"`
}

type CreateChannelRequest struct {
	Name string `json:"name"`
	Type string `json:"channel_type"`
}

type JoinRequest struct {
	InviteCode string `json:"invite_code"`
}

type SendMessageRequest struct {
	Content string `json:"content"`
}

func (a *App) writeJson(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if v == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.log.Printf("json encode: %v", err)
	}
}

// statusForResult maps a failed rule-layer outcome onto an HTTP status.
// The outcome messages are part of the chat package's contract.
func statusForResult(res chat.Result) int {
	switch res.Message {
	case chat.MsgInvalidToken:
		return http.StatusUnauthorized
	case chat.MsgNotOwner, chat.MsgNotMember:
		return http.StatusForbidden
	case chat.MsgUserNotFound, chat.MsgServerNotFound, chat.MsgChannelNotFound, chat.MsgInviteNotFound:
		return http.StatusNotFound
	case chat.MsgUserExists, chat.MsgChannelExists, chat.MsgAlreadyMember:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// writeResult renders a rule-layer outcome, using okStatus for successes.
func (a *App) writeResult(w http.ResponseWriter, res chat.Result, err error, okStatus int) {
	if err != nil {
		errResp := NewInternalServerError(err)
		a.log.Printf("internal error: %v", err)
		a.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if !res.OK {
		a.writeJson(w, statusForResult(res), res)
		return
	}

	a.writeJson(w, okStatus, res)
}

// requestToken returns the token stashed by the auth middleware. Routes
// behind the middleware always have one; an empty token resolves to an
// invalid-token outcome in the rule layer anyway.
func requestToken(r *http.Request) string {
	token, _ := Token(r.Context())
	return token
}

// pathId parses the named path segment as an entity identifier.
func pathId(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	return id, err == nil
}

// beforeId parses the optional ?before= pagination cursor; absent means
// no cursor.
func beforeId(r *http.Request) (int64, bool) {
	raw := r.URL.Query().Get("before")
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	return id, err == nil
}

func (a *App) createUser(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError()
		a.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	res, err := a.chat.CreateUser(req.Username, req.Password)
	a.writeResult(w, res, err, http.StatusCreated)
}

func (a *App) listUsers(w http.ResponseWriter, r *http.Request) {
	res, err := a.chat.ListUsers(requestToken(r))
	a.writeResult(w, res, err, http.StatusOK)
}

func (a *App) getUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathId(r, "id")
	if !ok {
		errResp := NewBadRequestError()
		a.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	res, err := a.chat.GetUser(requestToken(r), id)
	a.writeResult(w, res, err, http.StatusOK)
}

func (a *App) createServer(w http.ResponseWriter, r *http.Request) {
	var req CreateServerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError()
		a.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	res, err := a.chat.CreateServer(requestToken(r), req.Name)
	a.writeResult(w, res, err, http.StatusCreated)
}

func (a *App) listServers(w http.ResponseWriter, r *http.Request) {
	res, err := a.chat.ListServers(requestToken(r))
	a.writeResult(w, res, err, http.StatusOK)
}

func (a *App) memberServers(w http.ResponseWriter, r *http.Request) {
	res, err := a.chat.MemberServers(requestToken(r))
	a.writeResult(w, res, err, http.StatusOK)
}

func (a *App) listMembers(w http.ResponseWriter, r *http.Request) {
	id, ok := pathId(r, "id")
	if !ok {
		errResp := NewBadRequestError()
		a.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	res, err := a.chat.ListMembers(requestToken(r), id)
	a.writeResult(w, res, err, http.StatusOK)
}

func (a *App) createChannel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathId(r, "id")
	if !ok {
		errResp := NewBadRequestError()
		a.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	var req CreateChannelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError()
		a.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	res, err := a.chat.CreateChannel(requestToken(r), id, req.Name, req.Type)
	a.writeResult(w, res, err, http.StatusCreated)
}

func (a *App) createInvite(w http.ResponseWriter, r *http.Request) {
	id, ok := pathId(r, "id")
	if !ok {
		errResp := NewBadRequestError()
		a.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	res, err := a.chat.CreateInvite(requestToken(r), id)
	a.writeResult(w, res, err, http.StatusCreated)
}

func (a *App) joinServer(w http.ResponseWriter, r *http.Request) {
	var req JoinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError()
		a.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	res, err := a.chat.JoinServer(requestToken(r), req.InviteCode)
	a.writeResult(w, res, err, http.StatusOK)
}

func (a *App) sendMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathId(r, "id")
	if !ok {
		errResp := NewBadRequestError()
		a.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError()
		a.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	res, err := a.chat.SendMessage(requestToken(r), id, req.Content)
	a.writeResult(w, res, err, http.StatusCreated)
}

func (a *App) getMessages(w http.ResponseWriter, r *http.Request) {
	id, ok := pathId(r, "id")
	if !ok {
		errResp := NewBadRequestError()
		a.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	before, ok := beforeId(r)
	if !ok {
		errResp := NewBadRequestError()
		a.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	res, err := a.chat.GetMessages(requestToken(r), id, before)
	a.writeResult(w, res, err, http.StatusOK)
}

func (a *App) sendDirectMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathId(r, "userId")
	if !ok {
		errResp := NewBadRequestError()
		a.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError()
		a.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	res, err := a.chat.SendDirectMessage(requestToken(r), id, req.Content)
	a.writeResult(w, res, err, http.StatusCreated)
}

func (a *App) getDirectMessages(w http.ResponseWriter, r *http.Request) {
	id, ok := pathId(r, "userId")
	if !ok {
		errResp := NewBadRequestError()
		a.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	before, ok := beforeId(r)
	if !ok {
		errResp := NewBadRequestError()
		a.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	res, err := a.chat.GetDirectMessages(requestToken(r), id, before)
	a.writeResult(w, res, err, http.StatusOK)
}
