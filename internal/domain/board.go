package domain

import (
	"time"
)

// to iterate thru layers: handler -> service -> storage
type BoardCreationData struct {
	Title    string
	Body     string
	Position int
}

type Board struct {
	Id           BoardId   `db:"id"`
	Slug         BoardSlug `db:"slug"`
	Title        string    `db:"title"`
	Body         string    `db:"body"`
	Position     int       `db:"position"`
	CreatedAt    time.Time `db:"created_at"`
	ThreadsCount int       `db:"threads_count"`
	AnswersCount int       `db:"answers_count"`
	NewestThread time.Time `db:"newest_thread"`
	NewestAnswer time.Time `db:"newest_answer"`
}

// BoardSort is a whitelisted sort key for board listings.
type BoardSort string

const (
	BoardSortPosition     BoardSort = "position"
	BoardSortThreadsCount BoardSort = "threads_count"
	BoardSortAnswersCount BoardSort = "answers_count"
	BoardSortNewestThread BoardSort = "newest_thread"
	BoardSortNewestAnswer BoardSort = "newest_answer"
)
