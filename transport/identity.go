// Client identity resolution: cookie session, then query-param user id,
// then anonymous.
//
// Copyright (c) 2021  Philip Kaludercic
//
// This file is part of go-kgp.
//
// go-kgp is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License,
// version 3, as published by the Free Software Foundation.
//
// go-kgp is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the GNU
// Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public
// License, version 3, along with go-kgp. If not, see
// <http://www.gnu.org/licenses/>

package transport

import (
	"net/http"

	"dama"
	"dama/session"
)

// resolveIdentity tries, in order: the access_token cookie via authn,
// the userId query parameter via authn, and finally falls back to an
// anonymous participant.
func resolveIdentity(r *http.Request, authn dama.Auth) *session.ParticipantSlot {
	if cookie, err := r.Cookie("access_token"); err == nil {
		if user, ok := authn.ResolveSession(cookie.Value); ok {
			return session.NewParticipant(user)
		}
	}

	if id := r.URL.Query().Get("userId"); id != "" && id != "anon" {
		if user, ok := authn.ResolveUserByID(id); ok {
			return session.NewParticipant(user)
		}
		// An unrecognized id is still attached to the match as an
		// identified, if unverified, participant - mirroring the
		// dev-mode fallback this was grounded on.
		return &session.ParticipantSlot{UserID: id, DisplayName: "Anonymous"}
	}

	return session.NewParticipant(nil)
}
