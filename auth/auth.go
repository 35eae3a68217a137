// JWT cookie-based session resolution.
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

// Package auth is the reference dama.Auth adapter: it verifies the
// HS256-signed access_token cookie the client carries, and defers the
// profile lookup itself to an injected UserLookup (normally a
// *store.Store). Like store, it is wired only at the cmd/damaserver
// level.
package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"dama"
)

// UserLookup is the subset of persistence auth needs: resolving a
// previously-issued user id back to a profile.
type UserLookup interface {
	ResolveUserByID(id string) (*dama.User, bool)
}

// Auth implements dama.Auth by decoding a JWT bearing the user id as its
// subject claim, then delegating to Lookup for the profile.
type Auth struct {
	Secret []byte
	Lookup UserLookup
}

// New constructs an Auth adapter. secret is the HMAC key the session
// cookies were signed with.
func New(secret []byte, lookup UserLookup) *Auth {
	return &Auth{Secret: secret, Lookup: lookup}
}

// ResolveSession verifies token and looks up the user named by its
// subject claim.
func (a *Auth) ResolveSession(token string) (*dama.User, bool) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return a.Secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, false
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, false
	}

	return a.ResolveUserByID(sub)
}

// ResolveUserByID delegates straight to the injected lookup.
func (a *Auth) ResolveUserByID(id string) (*dama.User, bool) {
	if a.Lookup == nil {
		return nil, false
	}
	return a.Lookup.ResolveUserByID(id)
}
