package domain

import (
	"database/sql"
	"time"
)

// to iterate thru layers: handler -> service -> storage
type ThreadCreationData struct {
	Board       BoardId
	Title       string
	Body        string
	Author      User
	Attachments Attachments
}

// ThreadEdit carries an author or moderator edit. Nil moderation flags mean
// "not submitted"; a write that carries any moderation flag never sets the
// edited marker, even when the content fields change too.
type ThreadEdit struct {
	Title  string
	Body   string
	Pinned *bool
	Closed *bool
}

type Thread struct {
	Id           ThreadId     `db:"id"`
	Board        BoardId      `db:"board_id"`
	Title        string       `db:"title"`
	Body         string       `db:"body"`
	Pinned       bool         `db:"pinned"`
	Closed       bool         `db:"closed"`
	Author       UserId       `db:"author_id"`
	CreatedAt    time.Time    `db:"created_at"`
	EditedAt     sql.NullTime `db:"edited_at"`
	AnswersCount int          `db:"answers_count"`
	NewestAnswer time.Time    `db:"newest_answer"`
	Likes        []UserId     `db:"-"`
	Attachments  Attachments  `db:"-"`
}

// ThreadSort orders thread listings under a board. Pinned threads always
// come first regardless of the key.
type ThreadSort string

const (
	ThreadSortCreatedAt    ThreadSort = "created_at"
	ThreadSortAnswersCount ThreadSort = "answers_count"
	ThreadSortNewestAnswer ThreadSort = "newest_answer"
)
