package session

import (
	"context"
	"smartmethods/bizerror"
	"strings"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
)

const (
	KeySession = "Session"

	HeaderUserID   = "X-User-Id"
	HeaderUserName = "X-User-Name"
)

type Identity struct {
	ID   types.ID `json:"id"`
	Name string   `json:"name"`
}

type Session struct {
	Identity Identity `json:"identity"`

	Context context.Context `json:"-"`
}

func (s *Session) Clone() Session {
	return Session{Identity: s.Identity, Context: s.Context}
}

func (s *Session) Authenticated() bool {
	return s != nil && s.Identity.ID != 0
}

// ExtractSessionFromGinContext never returns nil, an anonymous session carries the request context only.
func ExtractSessionFromGinContext(ctx *gin.Context) *Session {
	value, found := ctx.Get(KeySession)
	if !found {
		return &Session{Context: ctx.Request.Context()}
	}
	s0, ok := value.(*Session)
	if !ok || !s0.Authenticated() {
		return &Session{Context: ctx.Request.Context()}
	}
	s := s0.Clone()
	s.Context = ctx.Request.Context() // trace context
	return &s
}

// IdentityFilter trusts the identity headers set by the upstream gateway.
func IdentityFilter() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		rawID := strings.TrimSpace(ctx.GetHeader(HeaderUserID))
		if rawID == "" {
			panic(bizerror.ErrUnauthenticated)
		}
		id, err := types.ParseID(rawID)
		if err != nil || id == 0 {
			panic(bizerror.ErrUnauthenticated)
		}
		InjectSessionIntoGinContext(ctx, &Session{
			Identity: Identity{ID: id, Name: strings.TrimSpace(ctx.GetHeader(HeaderUserName))},
		})
		ctx.Next()
	}
}

func InjectSessionIntoGinContext(ctx *gin.Context, s *Session) {
	if s.Authenticated() {
		ctx.Set(KeySession, s)
	}
}
