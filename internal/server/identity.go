package server

import (
	"net/http"
)

// UserInfo identifies the caller for display purposes. Access control itself
// is handled by the tailnet (or the API key for write endpoints).
type UserInfo struct {
	Login       string `json:"login"`
	DisplayName string `json:"display_name"`
}

// handleMe reports the caller's identity: the Tailscale whois result when
// serving over tsnet, or the local dev identity otherwise.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	info := UserInfo{Login: "local", DisplayName: "Local Dev User"}

	if s.lc != nil {
		who, err := s.lc.WhoIs(r.Context(), r.RemoteAddr)
		if err == nil && who.UserProfile != nil {
			info = UserInfo{
				Login:       who.UserProfile.LoginName,
				DisplayName: who.UserProfile.DisplayName,
			}
		}
	}

	writeJSON(w, http.StatusOK, info)
}
