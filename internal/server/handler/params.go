package handler

import (
	"errors"

	"github.com/finsight-event-ledger/internal/domain/ledger"
	"github.com/finsight-event-ledger/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const userIDHeader = "X-User-ID"

var errScopeQuery = errors.New("exactly one of event_id or sub_event_id must be provided")

// scopeFromQuery resolves the ?event_id= / ?sub_event_id= query pair into a
// ledger scope. Exactly one of the two must be present.
func scopeFromQuery(c *gin.Context) (ledger.Scope, error) {
	eventParam := c.Query("event_id")
	subEventParam := c.Query("sub_event_id")

	if (eventParam == "") == (subEventParam == "") {
		return ledger.Scope{}, errScopeQuery
	}
	if subEventParam != "" {
		id, err := uuid.Parse(subEventParam)
		if err != nil {
			return ledger.Scope{}, errors.New("invalid sub-event ID")
		}
		return ledger.SubEventScope(id), nil
	}
	id, err := uuid.Parse(eventParam)
	if err != nil {
		return ledger.Scope{}, errors.New("invalid event ID")
	}
	return ledger.EventScope(id), nil
}

// actorFrom identifies the acting user from the X-User-ID header.
func actorFrom(c *gin.Context) (service.Actor, error) {
	raw := c.GetHeader(userIDHeader)
	if raw == "" {
		return service.Actor{}, errors.New("missing " + userIDHeader + " header")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return service.Actor{}, errors.New("invalid " + userIDHeader + " header")
	}
	return service.Actor{UserID: userID, IPAddress: c.ClientIP()}, nil
}
