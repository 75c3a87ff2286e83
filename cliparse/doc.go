// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# CLI Flags

	-p                Server port (default: 3318)
	-d                Database URL
	-t                Database type: sqlite (default) or postgres
	--jwt-secret      Session JWT HS256 secret
	--jwt-issuer      Expected "iss" claim (optional)
	--allowed-origin  CORS origin (optional)
	--env-file        dotenv file to load (default: .env)

# Environment Variables

Flags fall back to environment variables:

	PORT               → -p
	DATABASE_URL       → -d
	DATABASE_TYPE      → -t
	SESSION_JWT_SECRET → --jwt-secret
	SESSION_JWT_ISSUER → --jwt-issuer
	ALLOWED_ORIGIN     → --allowed-origin

The dotenv file only fills variables that are not already set, and a missing
file is not an error.

# Validation

ParseFlags returns an error if DATABASE_URL or SESSION_JWT_SECRET is missing,
or if the database type is unknown.
*/
package cliparse
