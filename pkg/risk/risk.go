// Package risk turns boolean indicators about a target into a weighted score
// and a discrete risk level.
package risk

import (
	"sort"
	"strings"
	"sync"
)

// Indicator names a boolean signal about a target
type Indicator string

// Known indicators
const (
	IMEIModem              Indicator = "imeiModem"
	DataOnly               Indicator = "dataOnly"
	HighSpeed              Indicator = "highSpeed"
	HighHandover           Indicator = "highHandover"
	VerticalMovement       Indicator = "verticalMovement"
	InNoFlyZone            Indicator = "inNoFlyZone"
	UASFlag                Indicator = "uasFlag"
	Loitering              Indicator = "loitering"
	HighAltitude           Indicator = "highAltitude"
	MissingRID             Indicator = "missingRID"
	RepeatSighting         Indicator = "repeatSighting"
	NearMannedCorridor     Indicator = "nearMannedCorridor"
	NoSpeedChangeWaterLand Indicator = "noSpeedChangeWaterLand"
)

// Level is the discrete risk classification of a score
type Level string

const (
	LevelLow    Level = "Low"
	LevelMedium Level = "Medium"
	LevelHigh   Level = "High"
)

// Score thresholds, inclusive on the lower bound
const (
	HighThreshold   = 50
	MediumThreshold = 20
)

// MaxScore caps every computed score
const MaxScore = 100

// Indicators maps indicator names to their observed value. Missing keys are false.
type Indicators map[Indicator]bool

// Weights maps indicator names to positive integer weights
type Weights map[Indicator]int

// Assessment is the score and level derived from one indicator set
type Assessment struct {
	Score int   `json:"score"`
	Level Level `json:"level"`
}

// BaselineWeights returns the twelve-indicator weight table
func BaselineWeights() Weights {
	return Weights{
		IMEIModem:          10,
		DataOnly:           5,
		HighSpeed:          5,
		HighHandover:       5,
		VerticalMovement:   5,
		InNoFlyZone:        30,
		UASFlag:            10,
		Loitering:          5,
		HighAltitude:       5,
		MissingRID:         15,
		RepeatSighting:     5,
		NearMannedCorridor: 10,
	}
}

// ExtendedWeights returns the baseline table plus noSpeedChangeWaterLand
func ExtendedWeights() Weights {
	w := BaselineWeights()
	w[NoSpeedChangeWaterLand] = 20
	return w
}

// Names returns the indicator names present in the set, sorted
func (s Indicators) Names() []Indicator {
	return sortedNames(s)
}

// Names returns the indicator names of the table in sorted order
func (w Weights) Names() []Indicator {
	return sortedNames(w)
}

func sortedNames[V any](m map[Indicator]V) []Indicator {
	names := make([]Indicator, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Total returns the uncapped sum of all weights
func (w Weights) Total() int {
	total := 0
	for _, weight := range w {
		total += weight
	}
	return total
}

// Clone returns an independent copy of the table
func (w Weights) Clone() Weights {
	out := make(Weights, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

// LevelFor classifies a score. High is checked first.
func LevelFor(score int) Level {
	switch {
	case score >= HighThreshold:
		return LevelHigh
	case score >= MediumThreshold:
		return LevelMedium
	default:
		return LevelLow
	}
}

// Option applies a configuration option to the Scorer
type Option func(*Scorer)

// WithWeights replaces the weight table. Non-positive weights are dropped.
func WithWeights(weights Weights) Option {
	return func(s *Scorer) {
		s.weights = make(Weights, len(weights))
		for name, weight := range weights {
			if weight > 0 {
				s.weights[name] = weight
			}
		}
	}
}

// WithoutMemo disables score memoization
func WithoutMemo() Option {
	return func(s *Scorer) {
		s.memo = nil
	}
}

// Scorer computes weighted scores over a fixed weight table
type Scorer struct {
	weights Weights
	mu      sync.Mutex
	memo    map[string]int
}

// NewScorer creates a scorer using the extended weight table unless overridden
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		weights: ExtendedWeights(),
		memo:    make(map[string]int),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Weights returns a copy of the scorer's weight table
func (s *Scorer) Weights() Weights {
	return s.weights.Clone()
}

// Known reports whether the indicator is part of the weight table
func (s *Scorer) Known(name Indicator) bool {
	_, ok := s.weights[name]
	return ok
}

// MaxScore returns the score reached when every indicator is true
func (s *Scorer) MaxScore() int {
	return min(s.weights.Total(), MaxScore)
}

// Score sums the weights of every indicator that is true in the set, capped at
// MaxScore. Indicators outside the weight table are ignored.
func (s *Scorer) Score(set Indicators) int {
	key := s.memoKey(set)

	if s.memo != nil {
		s.mu.Lock()
		if score, ok := s.memo[key]; ok {
			s.mu.Unlock()
			return score
		}
		s.mu.Unlock()
	}

	score := 0
	for name, weight := range s.weights {
		if set[name] {
			score += weight
		}
	}
	score = min(score, MaxScore)

	if s.memo != nil {
		s.mu.Lock()
		s.memo[key] = score
		s.mu.Unlock()
	}

	return score
}

// Assess returns both the score and the level for an indicator set
func (s *Scorer) Assess(set Indicators) Assessment {
	score := s.Score(set)
	return Assessment{Score: score, Level: LevelFor(score)}
}

// memoKey identifies an indicator set by its sorted active, weighted indicators
func (s *Scorer) memoKey(set Indicators) string {
	active := make([]string, 0, len(set))
	for name, on := range set {
		if !on {
			continue
		}
		if _, ok := s.weights[name]; ok {
			active = append(active, string(name))
		}
	}
	sort.Strings(active)
	return strings.Join(active, ",")
}
