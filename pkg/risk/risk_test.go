package risk_test

import (
	"testing"

	"github.com/picogrid/drone-risk-engine/pkg/risk"
	. "github.com/smartystreets/goconvey/convey"
)

func allTrue(w risk.Weights) risk.Indicators {
	set := make(risk.Indicators, len(w))
	for name := range w {
		set[name] = true
	}
	return set
}

func TestScorer_Score(t *testing.T) {
	Convey("Given a scorer with the extended weight table", t, func() {
		scorer := risk.NewScorer()

		Convey("When every indicator is false", func() {
			a := scorer.Assess(risk.Indicators{})

			Convey("Then the score is zero and the level is Low", func() {
				So(a.Score, ShouldEqual, 0)
				So(a.Level, ShouldEqual, risk.LevelLow)
			})
		})

		Convey("When the target is in a no-fly zone and missing remote ID", func() {
			a := scorer.Assess(risk.Indicators{
				risk.InNoFlyZone: true,
				risk.MissingRID:  true,
			})

			Convey("Then the score is 45 and the level is Medium", func() {
				So(a.Score, ShouldEqual, 45)
				So(a.Level, ShouldEqual, risk.LevelMedium)
			})
		})

		Convey("When every indicator is true", func() {
			a := scorer.Assess(allTrue(risk.ExtendedWeights()))

			Convey("Then the score is 100 and the level is High", func() {
				So(a.Score, ShouldEqual, 100)
				So(a.Level, ShouldEqual, risk.LevelHigh)
				So(scorer.MaxScore(), ShouldEqual, risk.MaxScore)
				So(risk.ExtendedWeights().Total(), ShouldEqual, 130)
			})
		})

		Convey("When an indicator outside the table is set", func() {
			score := scorer.Score(risk.Indicators{"thermalSignature": true, risk.Loitering: true})

			Convey("Then it is ignored", func() {
				So(score, ShouldEqual, 5)
			})
		})

		Convey("When false entries are present explicitly", func() {
			explicit := scorer.Score(risk.Indicators{risk.UASFlag: true, risk.DataOnly: false})
			implicit := scorer.Score(risk.Indicators{risk.UASFlag: true})

			Convey("Then they count the same as missing keys", func() {
				So(explicit, ShouldEqual, implicit)
				So(explicit, ShouldEqual, 10)
			})
		})

		Convey("When the same set is scored twice", func() {
			set := risk.Indicators{risk.IMEIModem: true, risk.HighSpeed: true}
			first := scorer.Score(set)
			second := scorer.Score(risk.Indicators{risk.HighSpeed: true, risk.IMEIModem: true})

			Convey("Then the memoized result matches", func() {
				So(first, ShouldEqual, 15)
				So(second, ShouldEqual, first)
			})
		})
	})

	Convey("Given a scorer with the baseline weight table", t, func() {
		scorer := risk.NewScorer(risk.WithWeights(risk.BaselineWeights()), risk.WithoutMemo())

		Convey("When every indicator is true", func() {
			score := scorer.Score(allTrue(risk.ExtendedWeights()))

			Convey("Then the score is capped at 100", func() {
				So(score, ShouldEqual, 100)
				So(risk.BaselineWeights().Total(), ShouldEqual, 110)
				So(scorer.Known(risk.NoSpeedChangeWaterLand), ShouldBeFalse)
			})
		})
	})

	Convey("Given a custom weight table with a non-positive weight", t, func() {
		scorer := risk.NewScorer(risk.WithWeights(risk.Weights{risk.Loitering: 7, risk.HighSpeed: 0}))

		Convey("Then the non-positive entry is dropped", func() {
			So(scorer.Known(risk.HighSpeed), ShouldBeFalse)
			So(scorer.Score(risk.Indicators{risk.Loitering: true, risk.HighSpeed: true}), ShouldEqual, 7)
		})
	})
}

func TestScoreIsAdditive(t *testing.T) {
	scorer := risk.NewScorer()
	weights := risk.ExtendedWeights()

	for _, name := range weights.Names() {
		got := scorer.Score(risk.Indicators{name: true})
		if got != weights[name] {
			t.Errorf("Expected score %d for %s alone, got %d", weights[name], name, got)
		}
	}

	set := risk.Indicators{risk.IMEIModem: true, risk.InNoFlyZone: true, risk.NearMannedCorridor: true}
	want := weights[risk.IMEIModem] + weights[risk.InNoFlyZone] + weights[risk.NearMannedCorridor]
	if got := scorer.Score(set); got != want {
		t.Errorf("Expected combined score %d, got %d", want, got)
	}
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		score int
		want  risk.Level
	}{
		{0, risk.LevelLow},
		{19, risk.LevelLow},
		{20, risk.LevelMedium},
		{49, risk.LevelMedium},
		{50, risk.LevelHigh},
		{100, risk.LevelHigh},
	}

	for _, tt := range tests {
		if got := risk.LevelFor(tt.score); got != tt.want {
			t.Errorf("Expected level %s for score %d, got %s", tt.want, tt.score, got)
		}
	}
}
