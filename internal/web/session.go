package web

import (
	"context"
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	sessionKeyUserID    = "user_id"
	sessionKeyIsAdmin   = "is_admin"
	sessionKeyShowOrder = "slideshow_order"
)

type contextKey string

const contextKeyUserID contextKey = "user_id"

// currentSession returns the request's session, falling back to a fresh
// one when the cookie fails to decode (e.g. after a key rotation).
func (s *Server) currentSession(r *http.Request) *sessions.Session {
	sess, err := s.sessions.Get(r, s.sessionName)
	if err != nil {
		sess, _ = s.sessions.New(r, s.sessionName)
	}
	return sess
}

func sessionUserID(sess *sessions.Session) (int64, bool) {
	id, ok := sess.Values[sessionKeyUserID].(int64)
	return id, ok
}

func sessionIsAdmin(sess *sessions.Session) bool {
	admin, _ := sess.Values[sessionKeyIsAdmin].(bool)
	return admin
}

func (s *Server) signIn(w http.ResponseWriter, r *http.Request, userID int64, isAdmin bool) error {
	sess := s.currentSession(r)
	sess.Values[sessionKeyUserID] = userID
	sess.Values[sessionKeyIsAdmin] = isAdmin
	return sess.Save(r, w)
}

func (s *Server) signOut(w http.ResponseWriter, r *http.Request) error {
	sess := s.currentSession(r)
	sess.Options.MaxAge = -1
	for key := range sess.Values {
		delete(sess.Values, key)
	}
	return sess.Save(r, w)
}

// requireAuth rejects requests without a signed-in user and puts the
// user id on the request context for downstream handlers.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := sessionUserID(s.currentSession(r))
		if !ok {
			s.writeMessage(w, http.StatusUnauthorized, "sign in required")
			return
		}
		ctx := context.WithValue(r.Context(), contextKeyUserID, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestUserID(r *http.Request) int64 {
	id, _ := r.Context().Value(contextKeyUserID).(int64)
	return id
}
