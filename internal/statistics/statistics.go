package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/lox/hanabi/internal/game"
)

// GameResult represents the outcome of a single simulated game
type GameResult struct {
	Seed    int64        // RNG seed for this game (for replay)
	Score   int          // Combined firework height at the end
	Turns   int          // Turn counter when the game stopped
	Strikes int          // Strikes accumulated
	Outcome game.Outcome // Why the game ended, empty if it was cut short
	Aborted bool         // Stopped by a rejected move or the turn cap
}

// Statistics tracks aggregate results over many games
type Statistics struct {
	Games     int
	SumScore  float64
	SumScore2 float64 // Sum of squares for variance calculation
	Scores    []int   // Store all scores for median/percentile calculation

	MinScore     int
	MaxScore     int
	PerfectGames int
	TotalStrikes int
	TotalTurns   int
	Aborted      int

	Outcomes map[game.Outcome]int
}

// Add incorporates a new game result into the statistics
func (s *Statistics) Add(result GameResult) {
	if s.Outcomes == nil {
		s.Outcomes = make(map[game.Outcome]int)
	}

	score := float64(result.Score)
	if s.Games == 0 || result.Score < s.MinScore {
		s.MinScore = result.Score
	}
	if s.Games == 0 || result.Score > s.MaxScore {
		s.MaxScore = result.Score
	}

	s.Games++
	s.SumScore += score
	s.SumScore2 += score * score
	s.Scores = append(s.Scores, result.Score)

	if result.Score >= game.MaxScore {
		s.PerfectGames++
	}
	s.TotalStrikes += result.Strikes
	s.TotalTurns += result.Turns
	if result.Aborted {
		s.Aborted++
	}
	s.Outcomes[result.Outcome]++
}

// Mean returns the average score per game
func (s *Statistics) Mean() float64 {
	if s.Games == 0 {
		return 0
	}
	return s.SumScore / float64(s.Games)
}

// Variance returns the sample variance of the scores
func (s *Statistics) Variance() float64 {
	if s.Games < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumScore2 - float64(s.Games)*mean*mean) / float64(s.Games-1)
}

// StdDev returns the sample standard deviation of the scores
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Games == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Games))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Median returns the median score
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the score at the given percentile (0.0 to 1.0),
// interpolating between neighbours
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Scores) == 0 {
		return 0
	}
	sorted := make([]int, len(s.Scores))
	copy(sorted, s.Scores)
	sort.Ints(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return float64(sorted[len(sorted)-1])
	}

	weight := index - float64(lower)
	return float64(sorted[lower])*(1-weight) + float64(sorted[upper])*weight
}

// PerfectRate returns the share of games that reached the maximum score, in percent
func (s *Statistics) PerfectRate() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.PerfectGames) / float64(s.Games) * 100
}

// AvgStrikes returns the average number of strikes per game
func (s *Statistics) AvgStrikes() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.TotalStrikes) / float64(s.Games)
}

// AvgTurns returns the average game length in turns
func (s *Statistics) AvgTurns() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.TotalTurns) / float64(s.Games)
}

// Validate performs consistency checks on the collected data
func (s *Statistics) Validate() error {
	if s.Games <= 0 {
		return fmt.Errorf("invalid games count: %d", s.Games)
	}

	if len(s.Scores) != s.Games {
		return fmt.Errorf("scores array length (%d) does not match games count (%d)",
			len(s.Scores), s.Games)
	}

	if s.PerfectGames > s.Games {
		return fmt.Errorf("perfect games (%d) exceeds total games (%d)", s.PerfectGames, s.Games)
	}

	if s.MinScore < 0 || s.MaxScore > game.MaxScore || s.MinScore > s.MaxScore {
		return fmt.Errorf("score range %d-%d outside 0-%d", s.MinScore, s.MaxScore, game.MaxScore)
	}

	total := 0
	for _, n := range s.Outcomes {
		total += n
	}
	if total != s.Games {
		return fmt.Errorf("outcome total (%d) does not match total games (%d)", total, s.Games)
	}

	return nil
}

// Summary is the serialisable digest of a run
type Summary struct {
	Games        int                  `json:"games"`
	Mean         float64              `json:"mean"`
	StdDev       float64              `json:"stdDev"`
	CI95         [2]float64           `json:"ci95"`
	Median       float64              `json:"median"`
	MinScore     int                  `json:"minScore"`
	MaxScore     int                  `json:"maxScore"`
	PerfectGames int                  `json:"perfectGames"`
	PerfectRate  float64              `json:"perfectRate"`
	AvgStrikes   float64              `json:"avgStrikes"`
	AvgTurns     float64              `json:"avgTurns"`
	Aborted      int                  `json:"aborted"`
	Outcomes     map[game.Outcome]int `json:"outcomes"`
}

// Summary computes the derived figures for reporting
func (s *Statistics) Summary() Summary {
	lo, hi := s.ConfidenceInterval95()
	outcomes := make(map[game.Outcome]int, len(s.Outcomes))
	for k, v := range s.Outcomes {
		outcomes[k] = v
	}
	return Summary{
		Games:        s.Games,
		Mean:         s.Mean(),
		StdDev:       s.StdDev(),
		CI95:         [2]float64{lo, hi},
		Median:       s.Median(),
		MinScore:     s.MinScore,
		MaxScore:     s.MaxScore,
		PerfectGames: s.PerfectGames,
		PerfectRate:  s.PerfectRate(),
		AvgStrikes:   s.AvgStrikes(),
		AvgTurns:     s.AvgTurns(),
		Aborted:      s.Aborted,
		Outcomes:     outcomes,
	}
}
