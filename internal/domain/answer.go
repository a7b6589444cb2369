package domain

import (
	"database/sql"
	"time"
)

// to iterate thru layers: handler -> service -> storage
type AnswerCreationData struct {
	Thread      ThreadId
	Body        string
	Author      User
	AnsweredTo  *UserId
	Attachments Attachments
}

type Answer struct {
	Id          AnswerId      `db:"id"`
	Thread      ThreadId      `db:"thread_id"`
	Board       BoardId       `db:"board_id"` // denormalized for board-level aggregation
	Author      UserId        `db:"author_id"`
	AnsweredTo  sql.NullInt64 `db:"answered_to"`
	Body        string        `db:"body"`
	CreatedAt   time.Time     `db:"created_at"`
	EditedAt    sql.NullTime  `db:"edited_at"`
	Likes       []UserId      `db:"-"`
	Attachments Attachments   `db:"-"`
}
