package oled

// FillMargin is the number of rows kept free between the liquid and the container rim.
const FillMargin = 2

// Container is the on-panel geometry of a container, after clamping.
type Container struct {
	// Left and Right are the wall columns.
	Left, Right int

	// Top is the first row of the walls, Bottom the row of the base.
	Top, Bottom int
}

// ContainerAt computes where a container of the given outer size is drawn: centered
// horizontally and standing on the bottom row. Sizes larger than the panel are clamped.
func (fb *Framebuffer) ContainerAt(outerWidth, outerHeight uint8) Container {
	var (
		left   = fb.width/2 - (int(outerWidth)+1)/2 - 1
		right  = left + int(outerWidth) + 1
		bottom = fb.height - 1
		top    = bottom - int(outerHeight)
	)
	return Container{
		Left:   clamp(left, 1, fb.width-1),
		Right:  clamp(right, 1, fb.width-1),
		Top:    clamp(top, 1, fb.height-1),
		Bottom: bottom,
	}
}

// MaxFill is the highest fill level DrawContainer renders for a container of outerHeight.
func (fb *Framebuffer) MaxFill(outerHeight uint8) uint8 {
	c := fb.ContainerAt(0, outerHeight)
	return uint8(clamp(min(int(outerHeight), c.Bottom-c.Top)-FillMargin, 0, 255))
}

// DrawContainer draws a U-shaped vessel with fillHeight rows of liquid inside it.
func (fb *Framebuffer) DrawContainer(outerWidth, outerHeight, fillHeight uint8) {
	if fb.width < 2 {
		// No column left for a wall after reserving column 0.
		return
	}
	c := fb.ContainerAt(outerWidth, outerHeight)

	fb.HorizontalLine(c.Left+1, c.Right-1, c.Bottom, true)
	fb.VerticalLine(c.Left, c.Top, c.Bottom, true)
	fb.VerticalLine(c.Right, c.Top, c.Bottom, true)

	if fillHeight == 0 {
		return
	}
	rows := min(int(fillHeight), int(fb.MaxFill(outerHeight)))
	for y := c.Bottom - 1; y >= c.Bottom-rows; y-- {
		fb.HorizontalLine(c.Left+1, c.Right-1, y, true)
	}
}

func clamp(v, lo, hi int) int {
	if v > hi {
		return hi
	}
	if v < lo {
		return lo
	}
	return v
}
