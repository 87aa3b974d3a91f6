// Package auth gates every inbound event on the single allowed operator.
package auth

import "go.uber.org/zap"

// RejectionMessage is sent to any identity that fails authorization. The bot
// always replies rather than dropping silently: a silent drop looks like a
// crash from the outside.
const RejectionMessage = "You are not authorized to use this bot."

// Gate authorizes exactly one operator identity.
type Gate struct {
	allowedUserID int64
	logger        *zap.Logger
}

func NewGate(allowedUserID int64, logger *zap.Logger) *Gate {
	return &Gate{
		allowedUserID: allowedUserID,
		logger:        logger,
	}
}

// Authorize reports whether the identity is the allowed operator. Rejections
// are logged with the offending identity; no state is created for them.
func (g *Gate) Authorize(userID int64) bool {
	if userID == g.allowedUserID {
		return true
	}
	g.logger.Warn("unauthorized access attempt", zap.Int64("user_id", userID))
	return false
}
