package debug

import (
	"fmt"
	"runtime"

	"cubes/internal/graphics"
	"cubes/internal/render"
)

const (
	// Text attributes: low nibble foreground, high nibble background.
	attrInfo      = 0x0f
	attrHighlight = 0x3f
	attrCounter   = 0x0a
	fpsPadding    = 1
	// updateInterval: only refresh FPS/Mem text every N frames to reduce allocations.
	updateInterval = 30
)

// Debug draws the diagnostic text overlay. FPS and memory counters are off by default.
type Debug struct {
	ShowFPS      bool
	ShowMemAlloc bool
	title        string
	frameCount   uint32
	lastFrame    uint32
	lastElapsed  float32
	lastFpsText  string
	lastMemText  string
	lastMemStats runtime.MemStats
}

var _ graphics.Overlay = (*Debug)(nil)

// New returns an overlay headed by title with the counters hidden.
func New(title string) *Debug {
	return &Debug{title: title}
}

// SetShowFPS sets whether the FPS counter is drawn (top-right).
func (d *Debug) SetShowFPS(show bool) {
	d.ShowFPS = show
}

// SetShowMemAlloc sets whether the heap allocation counter is drawn (top-right, under FPS).
func (d *Debug) SetShowMemAlloc(show bool) {
	d.ShowMemAlloc = show
}

// Draw clears the text layer and writes the overlay for frame f. Counter text is only
// recomputed every updateInterval frames.
func (d *Debug) Draw(r render.Renderer, f graphics.FrameState) {
	r.DbgTextClear(0, false)

	cells := graphics.GridSize * graphics.GridSize * graphics.GridSize
	r.DbgTextPrintf(0, 1, attrInfo, "%s", d.title)
	r.DbgTextPrintf(0, 2, attrInfo, "Backend: %s", r.Type())
	r.DbgTextPrintf(0, 3, attrInfo, "Grid: %dx%dx%d (%d draws)",
		graphics.GridSize, graphics.GridSize, graphics.GridSize, cells)
	r.DbgTextPrintf(0, 4, attrHighlight, "Description: Rotating cube grid submitted one draw per cube.")
	r.DbgTextPrintf(0, 5, attrInfo, "Framebuffer: %dx%d", f.Width, f.Height)
	r.DbgTextPrintf(0, 6, attrInfo, "Time: %.2f s", f.Elapsed)

	d.drawCounters(r, f)
}

func (d *Debug) drawCounters(r render.Renderer, f graphics.FrameState) {
	d.frameCount++
	update := (d.frameCount % updateInterval) == 0
	if d.ShowFPS && d.lastFpsText == "" {
		update = true
	}
	if d.ShowMemAlloc && d.lastMemText == "" {
		update = true
	}

	cols := f.Width / render.TextCellWidth
	y := uint16(fpsPadding)

	if d.ShowFPS {
		if update {
			d.lastFpsText = fmt.Sprintf("FPS: %d", d.fps(f.Elapsed))
		}
		r.DbgTextPrintf(rightAlign(cols, d.lastFpsText), y, attrCounter, "%s", d.lastFpsText)
		y++
	}

	if d.ShowMemAlloc {
		if update {
			runtime.ReadMemStats(&d.lastMemStats)
			mb := float64(d.lastMemStats.Alloc) / (1024 * 1024)
			d.lastMemText = fmt.Sprintf("Mem: %.2f MiB", mb)
		}
		r.DbgTextPrintf(rightAlign(cols, d.lastMemText), y, attrCounter, "%s", d.lastMemText)
	}
}

// fps averages over the frames since the previous sample.
func (d *Debug) fps(elapsed float32) int {
	frames := d.frameCount - d.lastFrame
	dt := elapsed - d.lastElapsed
	d.lastFrame, d.lastElapsed = d.frameCount, elapsed
	if dt <= 0 {
		return 0
	}
	return int(float32(frames)/dt + 0.5)
}

func rightAlign(cols int, text string) uint16 {
	x := cols - len(text) - fpsPadding
	if x < 0 {
		x = 0
	}
	return uint16(x)
}
