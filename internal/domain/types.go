package domain

type (
	UserId   = int64
	BoardId  = int64
	ThreadId = int64
	AnswerId = int64

	BoardSlug = string
)

// Content caps. Overflow is clipped, never rejected.
const (
	TitleMaxRunes = 100
	BodyMaxRunes  = 1000
)

// LikeTarget selects which entity a like toggle applies to.
type LikeTarget string

const (
	LikeThread LikeTarget = "thread"
	LikeAnswer LikeTarget = "answer"
)
