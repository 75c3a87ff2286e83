// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth verifies session tokens and generates record IDs.

# Session Tokens

Sessions are HS256 JWTs issued by the identity provider. The subject claim is
the provider's user id; given_name, family_name, picture and email are
optional profile claims:

	v := auth.NewVerifier(secret, issuer)
	id, err := v.Verify(auth.BearerToken(r.Header.Get("Authorization")))

Tokens must carry an expiry. When an issuer is configured the "iss" claim
must match it. Verify returns ErrMissingToken for an empty token and wraps
ErrInvalidToken for everything else.

IssueToken signs a token with the same secret, for tests and local tooling.

# ID Generation

Random UUIDv4 strings for database records:

	id := auth.GenerateID()
*/
package auth
