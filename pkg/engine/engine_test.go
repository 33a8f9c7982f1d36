package engine

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/picogrid/drone-risk-engine/pkg/audit"
	"github.com/picogrid/drone-risk-engine/pkg/geo"
	"github.com/picogrid/drone-risk-engine/pkg/logger"
	"github.com/picogrid/drone-risk-engine/pkg/metrics"
	"github.com/picogrid/drone-risk-engine/pkg/mitigation"
	"github.com/picogrid/drone-risk-engine/pkg/models"
	"github.com/picogrid/drone-risk-engine/pkg/risk"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

var epoch = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func stepClock() func() time.Time {
	now := epoch
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

func zeroIDs() uuid.UUID { return uuid.Nil }

func testConfig() Config {
	return Config{
		Targets: []models.TargetDefinition{
			{
				ID:    "alpha",
				Track: geo.Track{{Latitude: 51.50, Longitude: -0.13}, {Latitude: 51.51, Longitude: -0.12}},
				Indicators: risk.Indicators{
					risk.InNoFlyZone: true,
					risk.MissingRID:  true,
				},
				ActionOutcomes: map[string]string{
					mitigation.SIMDetach:      "detached",
					mitigation.CyberTakeover:  "takeover_failed",
					mitigation.DirectionalJam: "jammed",
					mitigation.Report:         "reported",
				},
			},
			{
				ID:       "bravo",
				CallSign: "Bravo",
				Track:    geo.Track{{Latitude: 10, Longitude: 10}},
				ActionOutcomes: map[string]string{
					mitigation.SIMDetach: "not_detached",
				},
			},
		},
		Stations: []models.Station{
			{ID: "london", Name: "London", Position: geo.Position{Latitude: 51.50, Longitude: -0.12}},
			{ID: "paris", Name: "Paris", Position: geo.Position{Latitude: 48.85, Longitude: 2.35}},
		},
	}
}

func newEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	var buf bytes.Buffer
	base := []Option{
		WithClock(stepClock()),
		WithIDs(zeroIDs),
		WithLogger(logger.NewWithConfig(logger.Config{Level: logger.DebugLevel, Writer: &buf, NoColor: true})),
	}
	e, err := New(testConfig(), append(base, opts...)...)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	return e
}

func TestEngine_Construction(t *testing.T) {
	Convey("Given an engine built from the test configuration", t, func() {
		e := newEngine(t)

		Convey("Then derived target fields are computed", func() {
			alpha, err := e.Target("alpha")
			So(err, ShouldBeNil)
			So(alpha.CallSign, ShouldEqual, "UAS-ALPHA")
			So(alpha.RiskScore, ShouldEqual, 45)
			So(alpha.RiskLevel, ShouldEqual, risk.LevelMedium)

			bravo, _ := e.Target("bravo")
			So(bravo.Heading, ShouldEqual, 0)
		})

		Convey("Then defaults are applied", func() {
			So(e.RadiusMeters(), ShouldEqual, 30000)
			So(e.Actions().Len(), ShouldEqual, 4)
		})

		Convey("Then coverage is derived from current positions", func() {
			So(e.EngagedStations(), ShouldResemble, []string{"london"})
			So(e.CoveredTargets(), ShouldResemble, []string{"alpha"})
		})

		Convey("Then unknown targets are reported", func() {
			_, err := e.Target("zulu")
			So(errors.Is(err, ErrUnknownTarget), ShouldBeTrue)
		})
	})
}

func TestEngine_InvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Targets = append(cfg.Targets, models.TargetDefinition{ID: "alpha", Track: geo.Track{{}}})
	if _, err := New(cfg); err == nil {
		t.Error("Expected error for duplicate target id")
	}

	cfg = testConfig()
	cfg.Targets[0].Track = nil
	if _, err := New(cfg); err == nil {
		t.Error("Expected error for empty track")
	}

	cfg = testConfig()
	cfg.Actions = []mitigation.Action{{Key: "a"}}
	if _, err := New(cfg); err == nil {
		t.Error("Expected error for invalid action table")
	}
}

func TestEngine_ResolveAction(t *testing.T) {
	Convey("Given an engine with metrics and a resolved hook", t, func() {
		m := metrics.NewManager()
		var resolved []string
		e := newEngine(t,
			WithMetrics(m),
			WithOnResolved(func(target *models.Target) { resolved = append(resolved, target.ID) }),
		)

		Convey("When an unknown target is acted on", func() {
			_, err := e.ResolveAction("zulu", mitigation.SIMDetach)

			Convey("Then an error is returned", func() {
				So(errors.Is(err, ErrUnknownTarget), ShouldBeTrue)
			})
		})

		Convey("When every action is used on alpha", func() {
			for _, key := range e.Actions().Keys() {
				_, err := e.ResolveAction("alpha", key)
				So(err, ShouldBeNil)
			}

			Convey("Then the hook fires once and alpha moves to the end", func() {
				So(resolved, ShouldResemble, []string{"alpha"})
				targets := e.Targets()
				So(targets[0].ID, ShouldEqual, "bravo")
				So(targets[1].ID, ShouldEqual, "alpha")

				state, err := e.State("alpha")
				So(err, ShouldBeNil)
				So(state.State, ShouldEqual, models.StateResolved)
			})

			Convey("Then repeats are rejected and counted", func() {
				res, err := e.ResolveAction("alpha", mitigation.SIMDetach)
				So(err, ShouldBeNil)
				So(res.Status, ShouldEqual, mitigation.StatusRejected)
				So(e.Log().Len(), ShouldEqual, 4)
				So(resolved, ShouldHaveLength, 1)

				count, err := testutil.GatherAndCount(m.Registry(), "drone_risk_actions_rejected_total")
				So(err, ShouldBeNil)
				So(count, ShouldEqual, 1)
			})

			Convey("Then the summary reflects the log", func() {
				So(e.Summary(), ShouldResemble, audit.Summary{
					TotalTargets: 2,
					Engaged:      1,
					Successful:   1,
					Reported:     1,
				})
			})
		})
	})
}

func TestEngine_Export(t *testing.T) {
	Convey("Given an engine with one failed action", t, func() {
		e := newEngine(t)
		_, err := e.ResolveAction("bravo", mitigation.SIMDetach)
		So(err, ShouldBeNil)

		Convey("When the text export is rendered", func() {
			content, name, err := e.ExportAuditLog(audit.FormatText)

			Convey("Then it carries the narrative and a timestamped name", func() {
				So(err, ShouldBeNil)
				So(name, ShouldEqual, "drone-action-log-2024-05-01T12-00-02-000Z.txt")
				So(content, ShouldContainSubstring, "Generated: 2024-05-01T12:00:02.000Z\n")
				So(content, ShouldContainSubstring,
					"[2024-05-01T12:00:01.000Z] SIM Detach acted unsuccessfully on Bravo at 10.0000, 10.0000 because SIM detach rejected by carrier.\n")
				So(strings.Count(content, "\n"), ShouldBeGreaterThan, 10)
			})
		})

		Convey("When the export is saved", func() {
			path, err := e.SaveAuditLog(t.TempDir(), audit.FormatMarkdown)

			Convey("Then a markdown file is written", func() {
				So(err, ShouldBeNil)
				So(path, ShouldEndWith, ".md")
			})
		})

		Convey("When an unsupported format is requested", func() {
			_, _, err := e.ExportAuditLog("pdf")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestEngine_ComputeHelpers(t *testing.T) {
	e := newEngine(t)

	if got := e.ComputeRisk(risk.Indicators{risk.UASFlag: true, risk.IMEIModem: true}); got.Score != 20 || got.Level != risk.LevelMedium {
		t.Errorf("Expected 20/Medium, got %+v", got)
	}
	if got := e.ComputeHeading(geo.Track{{Latitude: 0, Longitude: 0}, {Latitude: 0, Longitude: 1}}); got < 89.99 || got > 90.01 {
		t.Errorf("Expected heading ~90, got %f", got)
	}
	if got := e.ComputeDistance(geo.Position{Latitude: 1, Longitude: 1}, geo.Position{Latitude: 1, Longitude: 1}); got != 0 {
		t.Errorf("Expected zero distance, got %f", got)
	}
}
