package web

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Enzoamyr17/ZipTask/internal/core"
)

// sessionCookie carries the signed token for browser clients. API clients may
// send it as a bearer token instead.
const sessionCookie = "ziptask_token"

const sessionKey = "session"

// requireSession guards routes behind a valid session. It fails closed: until
// a token verifies, the caller is treated as signed out. API routes get a 401,
// page routes a redirect to the landing page.
func (s *Server) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := requestToken(c)
		if token == "" {
			s.rejectUnauthenticated(c)
			return
		}

		session, err := s.auth.SessionFromToken(token)
		if err != nil {
			s.rejectUnauthenticated(c)
			return
		}

		c.Set(sessionKey, session)
		c.Next()
	}
}

func (s *Server) rejectUnauthenticated(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "authentication required",
		})
		return
	}
	c.Redirect(http.StatusFound, "/")
	c.Abort()
}

// requestToken extracts the token from the Authorization header, falling back
// to the session cookie.
func requestToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return token
		}
		return ""
	}
	if token, err := c.Cookie(sessionCookie); err == nil {
		return token
	}
	return ""
}

// currentSession returns the session stored by requireSession.
func currentSession(c *gin.Context) *core.Session {
	if v, ok := c.Get(sessionKey); ok {
		if session, ok := v.(*core.Session); ok {
			return session
		}
	}
	return nil
}
