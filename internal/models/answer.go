package models

import (
	"time"

	"github.com/google/uuid"
)

// NoAnswer is the option index recorded when a round deadline expires before
// a player submits.
const NoAnswer = -1

// AnswerRecord captures one player's submission for one question index.
// Records are write-once; a second submission for the same key is rejected.
type AnswerRecord struct {
	ConnID        uuid.UUID `json:"conn_id"`
	Username      string    `json:"username"`
	QuestionIndex int       `json:"question_index"`
	OptionIndex   int       `json:"option_index"`
	Correct       bool      `json:"correct"`
	Points        int       `json:"points"`
	SubmittedAt   time.Time `json:"submitted_at"`
}
