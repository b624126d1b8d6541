package httpapi

import (
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/nstepa/storefront/internal/errs"
	"github.com/nstepa/storefront/internal/model"
)

// userView is the wire shape of a user. Credential material never leaves
// the service boundary.
type userView struct {
	ID           string             `json:"id"`
	Email        string             `json:"email"`
	Capabilities []model.Capability `json:"capabilities"`
	CreatedAt    time.Time          `json:"created_at"`
}

func toUserView(u *model.User) userView {
	return userView{
		ID:           u.ID.String(),
		Email:        u.Email,
		Capabilities: u.Capabilities,
		CreatedAt:    u.CreatedAt,
	}
}

// clientIP strips the port from the request's remote address. RemoteAddr is
// host:port and the port changes per connection; rate limiting keys on the
// host so a reconnecting client keeps the same key.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   365 * 24 * 60 * 60,
	})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	u, tok, err := s.auth.Signup(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	setSessionCookie(w, tok)
	writeJSON(w, http.StatusCreated, toUserView(u))
}

func (s *Server) handleSignin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	u, tok, err := s.auth.Signin(r.Context(), req.Email, req.Password, clientIP(r))
	if err != nil {
		writeError(w, err)
		return
	}
	setSessionCookie(w, tok)
	writeJSON(w, http.StatusOK, toUserView(u))
}

func (s *Server) handleSignout(w http.ResponseWriter, r *http.Request) {
	// Session tokens are stateless; signout is cookie deletion.
	http.SetCookie(w, &http.Cookie{
		Name:   sessionCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	writeJSON(w, http.StatusOK, map[string]string{"message": "goodbye"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	u, err := s.currentUser(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if u == nil {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, toUserView(u))
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	actor, err := s.currentUser(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	users, err := s.auth.ListUsers(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]userView, 0, len(users))
	for i := range users {
		out = append(out, toUserView(&users[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpdateCapabilities(w http.ResponseWriter, r *http.Request) {
	actor, err := s.currentUser(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	target, err := uuid.FromString(r.PathValue("id"))
	if err != nil {
		writeError(w, errs.ErrValidation)
		return
	}
	var req struct {
		Capabilities []model.Capability `json:"capabilities"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	u, err := s.auth.UpdateCapabilities(r.Context(), actor, target, req.Capabilities)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserView(u))
}

func (s *Server) handleRequestReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	err := s.auth.RequestReset(r.Context(), req.Email)
	if err != nil && !errors.Is(err, errs.ErrNotFound) {
		writeError(w, err)
		return
	}
	if err != nil {
		// An unknown address gets the same acknowledgment as a known one,
		// so the endpoint cannot be used to enumerate accounts. The address
		// itself is unverified client input and stays out of the logs.
		s.log.Info("reset requested for unknown email")
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"message": "check your email for a reset link"})
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token           string `json:"token"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirm_password"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	u, tok, err := s.auth.ResetPassword(r.Context(), req.Token, req.Password, req.ConfirmPassword)
	if err != nil {
		writeError(w, err)
		return
	}
	setSessionCookie(w, tok)
	writeJSON(w, http.StatusOK, toUserView(u))
}
