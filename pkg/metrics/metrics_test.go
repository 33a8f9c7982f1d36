package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerRecording(t *testing.T) {
	Convey("Given a metrics manager on a private registry", t, func() {
		registry := prometheus.NewRegistry()
		manager := NewManager(WithRegistry(registry))

		Convey("When resolutions and rejections are recorded", func() {
			manager.RecordResolution("simDetach", "success")
			manager.RecordResolution("simDetach", "success")
			manager.RecordResolution("report", "error")
			manager.RecordRejection("action already used")
			manager.RecordTargetResolved()

			Convey("Then the counters reflect them", func() {
				So(testutil.ToFloat64(manager.actionsResolved.WithLabelValues("simDetach", "success")), ShouldEqual, 2)
				So(testutil.ToFloat64(manager.actionsResolved.WithLabelValues("report", "error")), ShouldEqual, 1)
				So(testutil.ToFloat64(manager.actionsRejected.WithLabelValues("action already used")), ShouldEqual, 1)
				So(testutil.ToFloat64(manager.targetsResolved), ShouldEqual, 1)
			})
		})

		Convey("When gauges are set", func() {
			manager.SetEngagedStations(3)
			manager.SetEngagedStations(2)
			manager.SetRiskScore("t1", 45)

			Convey("Then they hold the latest values", func() {
				So(testutil.ToFloat64(manager.engagedStations), ShouldEqual, 2)
				So(testutil.ToFloat64(manager.targetRiskScore.WithLabelValues("t1")), ShouldEqual, 45)
			})
		})

		Convey("When the metrics are exposed", func() {
			manager.SetEngagedStations(1)

			Convey("Then they use the drone_risk prefix", func() {
				expected := `
# HELP drone_risk_engaged_stations Stations with at least one target inside coverage
# TYPE drone_risk_engaged_stations gauge
drone_risk_engaged_stations 1
`
				err := testutil.GatherAndCompare(registry, strings.NewReader(expected), "drone_risk_engaged_stations")
				So(err, ShouldBeNil)
			})
		})
	})
}

func TestNilManager(t *testing.T) {
	Convey("Given a nil manager", t, func() {
		var manager *Manager

		Convey("Then every call is a no-op", func() {
			So(func() {
				manager.RecordResolution("a", "b")
				manager.RecordRejection("c")
				manager.RecordTargetResolved()
				manager.SetEngagedStations(1)
				manager.SetRiskScore("t", 1)
			}, ShouldNotPanic)
			So(manager.WriteTextfile("unused"), ShouldBeNil)
		})
	})
}

func TestWriteTextfile(t *testing.T) {
	manager := NewManager(WithConstLabels(map[string]string{"session": "test"}))
	manager.RecordTargetResolved()

	path := filepath.Join(t.TempDir(), "drone_risk.prom")
	if err := manager.WriteTextfile(path); err != nil {
		t.Fatalf("Failed to write textfile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read textfile: %v", err)
	}
	if !strings.Contains(string(data), `drone_risk_targets_resolved_total{session="test"} 1`) {
		t.Errorf("Expected resolved counter in textfile, got:\n%s", data)
	}
}
