package telemetry

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/robotalks/carsim/pkg/sim/physics/vehicle"
)

// CSVHeader is the first row written by WriteCSV.
var CSVHeader = []string{
	"time", "x", "y", "heading", "speed", "rpm", "gear",
	"steering", "yaw_rate", "throttle", "engine",
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 6, 64)
}

// CSVRecord formats a snapshot as a row matching CSVHeader.
func CSVRecord(s *vehicle.Snapshot) []string {
	return []string{
		formatFloat(s.Time.Seconds()),
		formatFloat(s.Position.X),
		formatFloat(s.Position.Y),
		formatFloat(s.Heading),
		formatFloat(s.Speed),
		strconv.FormatFloat(s.RPM, 'f', 1, 64),
		strconv.Itoa(s.Gear),
		formatFloat(s.Steering),
		formatFloat(s.YawRate),
		formatFloat(s.Throttle),
		s.EngineStatus.String(),
	}
}

// WriteCSV writes samples as a CSV table with a header.
func WriteCSV(w io.Writer, samples []vehicle.Snapshot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for i := range samples {
		if err := cw.Write(CSVRecord(&samples[i])); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCSV writes samples to a file.
func SaveCSV(fn string, samples []vehicle.Snapshot) error {
	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	if err = WriteCSV(f, samples); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
