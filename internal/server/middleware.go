package server

import (
	"github.com/gin-gonic/gin"
	"github.com/lionnelpat/svs-backend-sub002/internal/actorctx"
	authdomain "github.com/lionnelpat/svs-backend-sub002/internal/auth/domain"
)

// AuthRequired resolves the session token to a user and stores the actor
// in the request context for downstream services and audit fields.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := s.sessions.ReadToken(c)
		if !ok {
			AbortWithError(c, authdomain.ErrInvalidSession)
			return
		}

		usr, err := s.authSvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		actor := actorctx.Actor{
			UserID: usr.ID,
			Email:  usr.Email,
			Roles:  usr.Roles,
		}
		c.Request = c.Request.WithContext(actorctx.WithActor(c.Request.Context(), actor))
		c.Next()
	}
}

// authorize checks the actor's permission and aborts the request when it
// is missing. It returns false so handlers can bail out early.
func (s *Server) authorize(c *gin.Context, object, action string) bool {
	actor, ok := actorctx.FromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, authdomain.ErrInvalidSession)
		return false
	}
	if err := s.authzSvc.Authorize(c.Request.Context(), actor, object, action); err != nil {
		AbortWithError(c, err)
		return false
	}
	return true
}
