package web

import (
	"errors"
	"net/http"

	"gymdesk/internal/adapters/storage"
	"gymdesk/internal/application/orchestrators"
	"gymdesk/internal/domain/message"
)

// postMessage stores a message in memberID's thread on behalf of sender and pushes it to live listeners.
func postMessage(w http.ResponseWriter, r *http.Request, memberID int64, sender, body string) {
	msg, err := orchestrators.ExecutePostMessage(r.Context(), orchestrators.PostMessageInput{
		MemberID: memberID,
		Sender:   sender,
		Body:     body,
	}, orchestrators.PostMessageDeps{
		Members:   stores.MemberStore,
		Store:     stores.MessageStore,
		Publisher: chat,
		Now:       timeNow,
	})
	switch {
	case errors.Is(err, storage.ErrNotFound):
		storeError(w, err)
	case errors.Is(err, message.ErrEmptyMemberID), errors.Is(err, message.ErrEmptyContent), errors.Is(err, message.ErrTooLong):
		badRequest(w, err)
	case err != nil:
		internalError(w, err)
	default:
		writeJSON(w, http.StatusCreated, msg)
	}
}

func listMessages(w http.ResponseWriter, r *http.Request, memberID int64) {
	list, err := stores.MessageStore.ListByMember(r.Context(), memberID)
	if err != nil {
		internalError(w, err)
		return
	}
	writeList(w, list)
}

// handleChat handles GET ?member_id and POST for /api/chat. The owner always posts as "owner".
func handleChat(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	switch r.Method {
	case http.MethodGet:
		memberID, err := queryID(r, "member_id")
		if err != nil {
			badRequest(w, err)
			return
		}
		listMessages(w, r, memberID)

	case http.MethodPost:
		var input struct {
			MemberID int64  `json:"member_id"`
			Message  string `json:"message"`
		}
		if err := strictDecode(w, r, &input); err != nil {
			badRequest(w, err)
			return
		}
		postMessage(w, r, input.MemberID, message.SenderOwner, input.Message)

	default:
		methodNotAllowed(w)
	}
}

// handleChatSocket handles GET /api/chat/ws?member_id: a live feed of one thread for the owner.
func handleChatSocket(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	memberID, err := queryID(r, "member_id")
	if err != nil {
		badRequest(w, err)
		return
	}
	chat.serve(w, r, memberID)
}
