package arena

import (
	"math"
	"sort"
	"time"

	"github.com/triviarena/triviarena/internal/models"
)

const (
	basePoints       = 10
	maxTimeBonusSec  = 30
	incorrectPenalty = -5
)

// scorePoints computes the point delta for one answer. A correct answer is
// worth floor(10 + max(0, 30 - elapsedSeconds)); anything else costs 5.
// Negative running totals are possible and intentionally not clamped.
func scorePoints(correct bool, elapsed time.Duration) int {
	if !correct {
		return incorrectPenalty
	}
	bonus := float64(maxTimeBonusSec) - elapsed.Seconds()
	if bonus < 0 {
		bonus = 0
	}
	return int(math.Floor(basePoints + bonus))
}

// computeWinner picks the highest-scoring slot. Equal top scores yield a tie
// with an empty winner.
func computeWinner(scores map[string]int) (winner string, tie bool) {
	if len(scores) == 0 {
		return "", true
	}

	best := math.MinInt
	for slot, pts := range scores {
		switch {
		case pts > best:
			best = pts
			winner = slot
			tie = false
		case pts == best:
			tie = true
		}
	}
	if tie {
		return "", true
	}
	return winner, false
}

// playerStats derives the per-player summary lines from the answer table.
// Synthesized "no answer" records do not count as answers given.
func playerStats(players []*models.Player, answers map[answerKey]*models.AnswerRecord) []models.PlayerStats {
	stats := make([]models.PlayerStats, 0, len(players))
	for _, p := range players {
		var given, correct, points int
		for _, rec := range answers {
			if rec.ConnID != p.ConnID {
				continue
			}
			points += rec.Points
			if rec.OptionIndex != models.NoAnswer {
				given++
			}
			if rec.Correct {
				correct++
			}
		}
		accuracy := 0.0
		if given > 0 {
			accuracy = float64(correct) / float64(given)
		}
		stats = append(stats, models.PlayerStats{
			Username: p.Username,
			Answers:  given,
			Correct:  correct,
			Accuracy: accuracy,
			Points:   points,
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		return stats[i].Points > stats[j].Points
	})
	return stats
}
