package plot

import (
	"errors"
	"image/color"
	"math"
	"testing"

	"sparkcalc/internal/evaluator"
)

var testColors = Colors{
	Background: color.RGBA{0xF9, 0xFA, 0xFB, 0xFF},
	Grid:       color.RGBA{0xE5, 0xE7, 0xEB, 0xFF},
	Axis:       color.RGBA{0x6B, 0x72, 0x80, 0xFF},
	Function:   color.RGBA{0x3B, 0x82, 0xF6, 0xFF},
}

func render(t *testing.T, w, h int, formula string) (*ImageDisplay, Stats) {
	t.Helper()
	d := NewImageDisplay(w, h)
	st, err := New(evaluator.New()).Draw(FullRaster(d), formula, testColors)
	if err != nil {
		t.Fatalf("Draw(%q): %v", formula, err)
	}
	return d, st
}

func columnHas(d *ImageDisplay, x int, c color.RGBA) bool {
	for y := 0; y < d.Img.Bounds().Dy(); y++ {
		if d.Img.RGBAAt(x, y) == c {
			return true
		}
	}
	return false
}

func expectPixel(t *testing.T, d *ImageDisplay, x, y int, want color.RGBA) {
	t.Helper()
	if got := d.Img.RGBAAt(x, y); got != want {
		t.Fatalf("pixel (%d,%d)=%v want %v", x, y, got, want)
	}
}

func TestDrawGridAndAxes(t *testing.T) {
	d, st := render(t, 200, 200, "")
	if st != (Stats{}) {
		t.Fatalf("stats=%+v want zero", st)
	}

	expectPixel(t, d, 10, 10, testColors.Background)
	expectPixel(t, d, 140, 10, testColors.Grid)
	expectPixel(t, d, 60, 10, testColors.Grid)
	expectPixel(t, d, 10, 20, testColors.Grid)
	expectPixel(t, d, 100, 10, testColors.Axis)
	expectPixel(t, d, 99, 10, testColors.Axis)
	expectPixel(t, d, 10, 100, testColors.Axis)
	if columnHas(d, 50, testColors.Function) {
		t.Fatal("empty formula drew a curve")
	}
}

func TestDrawLine(t *testing.T) {
	d, st := render(t, 200, 200, "x")
	if st.Samples != 200 || st.Skipped != 0 || st.Breaks != 0 {
		t.Fatalf("stats=%+v", st)
	}

	// y = x passes through (140, 60) on screen.
	expectPixel(t, d, 140, 60, testColors.Function)
	for x := 1; x < 199; x++ {
		if !columnHas(d, x, testColors.Function) {
			t.Fatalf("column %d has no curve", x)
		}
	}
}

func TestDrawImpliedProduct(t *testing.T) {
	d, st := render(t, 200, 200, "2x")
	if st.Samples != 200 || st.Skipped != 0 {
		t.Fatalf("stats=%+v", st)
	}
	for _, x := range []int{80, 100, 120} {
		if !columnHas(d, x, testColors.Function) {
			t.Fatalf("column %d has no curve", x)
		}
	}
}

func TestDrawReciprocalDoesNotBridgeAsymptote(t *testing.T) {
	d, st := render(t, 200, 200, "1/x")
	if st.Breaks != 1 {
		t.Fatalf("breaks=%d want 1", st.Breaks)
	}

	for x := 95; x <= 105; x++ {
		if columnHas(d, x, testColors.Function) {
			t.Fatalf("column %d crosses the asymptote", x)
		}
	}
	if !columnHas(d, 60, testColors.Function) || !columnHas(d, 140, testColors.Function) {
		t.Fatal("branches missing")
	}
}

func TestDrawUsesDisplaySymbols(t *testing.T) {
	d, st := render(t, 200, 200, "x × π ÷ π")
	if st.Samples != 200 {
		t.Fatalf("samples=%d want 200", st.Samples)
	}
	expectPixel(t, d, 140, 60, testColors.Function)
}

func TestDrawCompileErrorKeepsGrid(t *testing.T) {
	d := NewImageDisplay(100, 100)
	st, err := New(evaluator.New()).Draw(FullRaster(d), "sin(", testColors)
	if !errors.Is(err, evaluator.ErrParse) {
		t.Fatalf("err=%v want ErrParse", err)
	}
	if st.Skipped != 100 {
		t.Fatalf("skipped=%d want 100", st.Skipped)
	}
	expectPixel(t, d, 50, 5, testColors.Axis)
}

type halfCompiler struct{}

func (halfCompiler) CompileFunc(string, string) (func(float64) (float64, error), error) {
	return func(x float64) (float64, error) {
		if x < 0 {
			return 0, errors.New("domain")
		}
		return 0, nil
	}, nil
}

func TestDrawSkipsFailedColumns(t *testing.T) {
	d := NewImageDisplay(200, 100)
	st, err := New(halfCompiler{}).Draw(FullRaster(d), "f", testColors)
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if st.Skipped != 100 || st.Samples != 100 {
		t.Fatalf("stats=%+v", st)
	}
	if columnHas(d, 50, testColors.Function) {
		t.Fatal("failed column drew")
	}
	if !columnHas(d, 150, testColors.Function) {
		t.Fatal("good column missing")
	}
}

func TestRasterPathRules(t *testing.T) {
	d := NewImageDisplay(20, 20)
	r := FullRaster(d)
	red := color.RGBA{0xFF, 0, 0, 0xFF}

	r.BeginPath()
	r.LineTo(2, 2) // starts a subpath
	r.LineTo(2, 10)
	r.MoveTo(5, math.Inf(1)) // ends it
	r.LineTo(15, 10)         // starts a new one
	r.LineTo(15, 2)
	r.Stroke(red, 1)

	expectPixel(t, d, 2, 6, red)
	expectPixel(t, d, 15, 6, red)
	// Nothing joins (2,10) to (15,10).
	if d.Img.RGBAAt(8, 10) == red {
		t.Fatal("subpaths were joined")
	}
}

func TestRasterSubRect(t *testing.T) {
	d := NewImageDisplay(30, 30)
	r := NewRaster(d, 10, 10, 10, 10)
	if w, h := r.Size(); w != 10 || h != 10 {
		t.Fatalf("size=%dx%d want 10x10", w, h)
	}

	blue := color.RGBA{0, 0, 0xFF, 0xFF}
	red := color.RGBA{0xFF, 0, 0, 0xFF}
	r.Fill(blue)
	r.BeginPath()
	r.MoveTo(-100, 5)
	r.LineTo(100, 5)
	r.Stroke(red, 3)

	expectPixel(t, d, 10, 10, blue)
	expectPixel(t, d, 9, 15, color.RGBA{})
	expectPixel(t, d, 20, 15, color.RGBA{})
	expectPixel(t, d, 19, 15, red)
}

func TestClipLineToRect(t *testing.T) {
	if _, _, _, _, ok := clipLineToRect(-5, -5, -1, -1, 0, 0, 10, 10); ok {
		t.Fatal("segment outside the rect was kept")
	}

	x0, y0, x1, y1, ok := clipLineToRect(-10, 5, 20, 5, 0, 0, 10, 10)
	if !ok {
		t.Fatal("crossing segment was dropped")
	}
	for _, c := range []struct{ got, want float64 }{{x0, 0}, {y0, 5}, {x1, 10}, {y1, 5}} {
		if math.Abs(c.got-c.want) > 1e-9 {
			t.Fatalf("clip=(%v,%v)-(%v,%v) want (0,5)-(10,5)", x0, y0, x1, y1)
		}
	}
}
