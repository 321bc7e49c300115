package models

// Question is an immutable multiple-choice item bound to a session. The JSON
// shape matches the question service response.
type Question struct {
	Question           string   `json:"question"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correctAnswerIndex"`
	Category           string   `json:"category"`
	Difficulty         string   `json:"difficulty"`
	Explanation        string   `json:"explanation"`
}
