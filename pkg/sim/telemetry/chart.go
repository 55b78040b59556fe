package telemetry

import (
	"errors"
	"image/color"
	"io"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/robotalks/carsim/pkg/sim/physics/vehicle"
)

// ErrNoSamples is returned when there's nothing to chart.
var ErrNoSamples = errors.New("no samples")

// Series extracts a value from a snapshot.
type Series struct {
	Title string
	Label string
	Value func(*vehicle.Snapshot) float64
	Color color.Color
}

// Predefined series.
var (
	SpeedSeries = Series{
		Title: "Speed",
		Label: "speed (m/s)",
		Value: func(s *vehicle.Snapshot) float64 { return s.Speed },
		Color: color.RGBA{B: 200, A: 255},
	}
	RPMSeries = Series{
		Title: "Engine",
		Label: "rpm",
		Value: func(s *vehicle.Snapshot) float64 { return s.RPM },
		Color: color.RGBA{R: 200, A: 255},
	}
	GearSeries = Series{
		Title: "Gear",
		Label: "gear",
		Value: func(s *vehicle.Snapshot) float64 { return float64(s.Gear) },
		Color: color.RGBA{G: 140, A: 255},
	}
	SteeringSeries = Series{
		Title: "Steering",
		Label: "steering (rad)",
		Value: func(s *vehicle.Snapshot) float64 { return s.Steering },
		Color: color.RGBA{R: 160, B: 160, A: 255},
	}
)

// DefaultSeries are charted by WritePNG when none is specified.
var DefaultSeries = []Series{SpeedSeries, RPMSeries, GearSeries}

// TimePlot charts one series against simulation time.
func TimePlot(samples []vehicle.Snapshot, series Series) (*plot.Plot, error) {
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}
	pts := make(plotter.XYs, len(samples))
	for i := range samples {
		pts[i].X = samples[i].Time.Seconds()
		pts[i].Y = series.Value(&samples[i])
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	line.LineStyle.Width = vg.Points(1.5)
	line.LineStyle.Color = series.Color

	p := plot.New()
	p.Title.Text = series.Title
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = series.Label
	p.Add(plotter.NewGrid(), line)
	return p, nil
}

// PathPlot charts the trajectory on the ground plane.
func PathPlot(samples []vehicle.Snapshot) (*plot.Plot, error) {
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}
	pts := make(plotter.XYs, len(samples))
	for i := range samples {
		pts[i].X, pts[i].Y = samples[i].Position.X, samples[i].Position.Y
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	line.LineStyle.Width = vg.Points(1.5)

	p := plot.New()
	p.Title.Text = "Path"
	p.X.Label.Text = "x (m)"
	p.Y.Label.Text = "y (m)"
	p.Add(plotter.NewGrid(), line)
	return p, nil
}

// WritePNG renders the plots stacked vertically as a PNG image.
func WritePNG(w io.Writer, width, height vg.Length, plots ...*plot.Plot) error {
	if len(plots) == 0 {
		return ErrNoSamples
	}
	rows := make([][]*plot.Plot, len(plots))
	for i, p := range plots {
		rows[i] = []*plot.Plot{p}
	}
	img := vgimg.NewWith(vgimg.UseWH(width, height), vgimg.UseDPI(96))
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      len(plots),
		Cols:      1,
		PadX:      vg.Millimeter,
		PadY:      vg.Millimeter * 4,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}
	canvases := plot.Align(rows, tiles, dc)
	for i, p := range plots {
		p.Draw(canvases[i][0])
	}
	_, err := vgimg.PngCanvas{Canvas: img}.WriteTo(w)
	return err
}

// Charts builds a time plot per series, followed by the path plot.
func Charts(samples []vehicle.Snapshot, series ...Series) ([]*plot.Plot, error) {
	if len(series) == 0 {
		series = DefaultSeries
	}
	plots := make([]*plot.Plot, 0, len(series)+1)
	for _, s := range series {
		p, err := TimePlot(samples, s)
		if err != nil {
			return nil, err
		}
		plots = append(plots, p)
	}
	p, err := PathPlot(samples)
	if err != nil {
		return nil, err
	}
	return append(plots, p), nil
}

// SavePNG writes the default charts of samples to a file.
func SavePNG(fn string, samples []vehicle.Snapshot, width, height vg.Length) error {
	plots, err := Charts(samples)
	if err != nil {
		return err
	}
	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	if err = WritePNG(f, width, height, plots...); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
