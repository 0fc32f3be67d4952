package database

// Schema is applied on start-up when DB_AUTO_MIGRATE is set.
// comments.parent_id is intentionally not a foreign key: deleting a parent keeps its replies.
const Schema = `
CREATE TABLE IF NOT EXISTS books (
	id           UUID PRIMARY KEY,
	title        TEXT NOT NULL,
	slug         TEXT NOT NULL UNIQUE,
	url          TEXT NOT NULL,
	author       TEXT NOT NULL,
	description  TEXT,
	cover_url    TEXT,
	tags         TEXT[] NOT NULL DEFAULT '{}',
	submitted_by TEXT NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_books_created_at ON books (created_at DESC);
CREATE INDEX IF NOT EXISTS idx_books_tags ON books USING GIN (tags);

CREATE TABLE IF NOT EXISTS book_votes (
	id         UUID PRIMARY KEY,
	book_id    UUID NOT NULL REFERENCES books (id) ON DELETE CASCADE,
	identity   TEXT NOT NULL,
	kind       TEXT NOT NULL CHECK (kind IN ('upvote', 'downvote')),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	CONSTRAINT uq_book_votes_book_identity UNIQUE (book_id, identity)
);

CREATE TABLE IF NOT EXISTS comments (
	id          UUID PRIMARY KEY,
	book_id     UUID NOT NULL REFERENCES books (id) ON DELETE CASCADE,
	parent_id   UUID,
	author_id   TEXT NOT NULL,
	author_name TEXT NOT NULL,
	content     TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_comments_book_created ON comments (book_id, created_at, id);

CREATE TABLE IF NOT EXISTS comment_likes (
	comment_id UUID NOT NULL REFERENCES comments (id) ON DELETE CASCADE,
	identity   TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (comment_id, identity)
);

CREATE TABLE IF NOT EXISTS reviews (
	id          UUID PRIMARY KEY,
	book_id     UUID NOT NULL REFERENCES books (id) ON DELETE CASCADE,
	identity    TEXT NOT NULL,
	author_name TEXT NOT NULL,
	rating      INT NOT NULL CHECK (rating BETWEEN 1 AND 5),
	title       TEXT,
	content     TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	CONSTRAINT uq_reviews_book_identity UNIQUE (book_id, identity)
);
`
