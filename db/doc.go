// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates the schema.

# Connecting

Open picks the driver from the configured type:

	conn, err := db.Open("postgres", "postgres://...")  // github.com/lib/pq
	conn, err := db.Open("sqlite", "file:livepoll.db")  // modernc.org/sqlite

SQLite connections get a busy timeout and WAL journal, and the pool is
limited to one connection.

# Schema Creation

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - app_user: identity-provider mirror, unique external_id
  - poll: title, description, creator, expires_at (epoch ms), theme colour
  - poll_option: option text and position within its poll
  - vote: one row per (poll, user) naming the chosen option
  - comment: top-level comments and replies (parent_id)
  - reaction: one emoji per (poll, user)

# Relationships

	app_user 1──* poll (creator_id)
	poll 1──* poll_option
	poll 1──* vote *──1 poll_option
	poll 1──* comment 1──* comment (replies)
	poll 1──* reaction

Deletes are performed explicitly by the service layer inside one transaction,
so no foreign-key cascades are declared.
*/
package db
