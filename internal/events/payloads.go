package events

// Payload structs for every event type. Client payloads are decoded by the
// gateway, server payloads are built by the arena and marshalled into the
// envelope by New.

// PlayerView is the roster-facing projection of a player.
type PlayerView struct {
	Username string `json:"username"`
	Rank     int    `json:"rank"`
}

// QuestionView is a question as shown to players. The correct answer index is
// deliberately absent; it is only revealed in answerResult and timeUp.
type QuestionView struct {
	Question   string   `json:"question"`
	Options    []string `json:"options"`
	Category   string   `json:"category"`
	Difficulty string   `json:"difficulty"`
}

// PlayerStatsView is the per-player line of the final summary.
type PlayerStatsView struct {
	Username string  `json:"username"`
	Answers  int     `json:"answers"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
	Points   int     `json:"points"`
}

// Client -> server payloads.

type JoinQueuePayload struct {
	Mode       string     `json:"mode"`
	PlayerData PlayerData `json:"playerData"`
}

type LeaveQueuePayload struct {
	Mode string `json:"mode"`
}

type CreatePrivateRoomPayload struct {
	Mode       string     `json:"mode"`
	PlayerData PlayerData `json:"playerData"`
}

type JoinPrivateRoomPayload struct {
	RoomCode   string     `json:"roomCode"`
	PlayerData PlayerData `json:"playerData"`
}

type AnswerSubmitPayload struct {
	RoomID      string `json:"roomId"`
	AnswerIndex int    `json:"answerIndex"`
	Timestamp   int64  `json:"timestamp"`
}

type RequestNextQuestionPayload struct {
	RoomID string `json:"roomId"`
}

type RequestRoomInfoPayload struct {
	RoomID string `json:"roomId"`
}

// PlayerData is the self-description a client sends when entering a queue or
// room.
type PlayerData struct {
	Username string `json:"username"`
	Rank     int    `json:"rank"`
	Coins    int    `json:"coins"`
	Premium  bool   `json:"premium"`
}

// Server -> client payloads.

type QueueJoinedPayload struct {
	Mode             string `json:"mode"`
	Position         int    `json:"position"`
	EstimatedWaitSec int    `json:"estimatedWait"`
}

type QueueLeftPayload struct {
	Mode string `json:"mode"`
}

type QueueStatusPayload struct {
	Queues map[string]int `json:"queues"`
}

type MatchFoundPayload struct {
	RoomID         string       `json:"roomId"`
	Mode           string       `json:"mode"`
	Opponents      []PlayerView `json:"opponents"`
	Teammates      []PlayerView `json:"teammates,omitempty"`
	TeamAssignment string       `json:"teamAssignment,omitempty"`
}

type PrivateRoomCreatedPayload struct {
	RoomCode string `json:"roomCode"`
	RoomID   string `json:"roomId"`
	Mode     string `json:"mode"`
	Capacity int    `json:"capacity"`
}

type JoinedPrivateRoomPayload struct {
	RoomID   string       `json:"roomId"`
	Mode     string       `json:"mode"`
	Players  []PlayerView `json:"players"`
	Capacity int          `json:"capacity"`
}

type PlayerJoinedPayload struct {
	Player      PlayerView `json:"player"`
	PlayerCount int        `json:"playerCount"`
	Capacity    int        `json:"capacity"`
}

type PlayerLeftPayload struct {
	Username    string `json:"username"`
	PlayerCount int    `json:"playerCount"`
	Capacity    int    `json:"capacity"`
}

type GameStartedPayload struct {
	RoomID         string       `json:"roomId"`
	Mode           string       `json:"mode"`
	TotalQuestions int          `json:"totalQuestions"`
	FirstQuestion  QuestionView `json:"firstQuestion"`
	Players        []PlayerView `json:"players"`
}

type NextQuestionPayload struct {
	QuestionNumber int            `json:"questionNumber"`
	TotalQuestions int            `json:"totalQuestions"`
	Question       QuestionView   `json:"question"`
	CurrentScores  map[string]int `json:"currentScores"`
}

type AnswerResultPayload struct {
	IsCorrect     bool           `json:"isCorrect"`
	Points        int            `json:"points"`
	CorrectAnswer int            `json:"correctAnswer"`
	Explanation   string         `json:"explanation"`
	CurrentScores map[string]int `json:"currentScores"`
}

type TimeUpPayload struct {
	CorrectAnswer int            `json:"correctAnswer"`
	CurrentScores map[string]int `json:"currentScores"`
}

type GameEndedPayload struct {
	Winner         string            `json:"winner"`
	Tie            bool              `json:"tie"`
	FinalScores    map[string]int    `json:"finalScores"`
	PerPlayerStats []PlayerStatsView `json:"perPlayerStats"`
	Mode           string            `json:"mode"`
}

type PlayerDisconnectedPayload struct {
	Username    string `json:"username"`
	CanContinue bool   `json:"canContinue"`
}

type GameLimitPayload struct {
	Message          string `json:"message"`
	GamesPlayedToday int    `json:"gamesPlayedToday"`
	Limit            int    `json:"limit"`
}

type JoinRoomErrorPayload struct {
	Message string `json:"message"`
}

type OnlineCountPayload struct {
	Online int `json:"online"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

type RoomInfoPayload struct {
	RoomID         string         `json:"roomId"`
	Mode           string         `json:"mode"`
	Status         string         `json:"status"`
	Players        []PlayerView   `json:"players"`
	Capacity       int            `json:"capacity"`
	QuestionNumber int            `json:"questionNumber"`
	TotalQuestions int            `json:"totalQuestions"`
	CurrentScores  map[string]int `json:"currentScores"`
}
