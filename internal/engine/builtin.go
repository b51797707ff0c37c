package engine

import (
	"time"

	"github.com/vovakirdan/tui-blockstage/internal/core"
	"github.com/vovakirdan/tui-blockstage/internal/stage"
)

// glide moves the actor from its position to target with ease-out motion,
// leaving a trail of centers behind it.
func glide(c *Call, target core.Vec, d time.Duration) Activity {
	start := c.Actor.Position
	half := core.Vec{X: c.Actor.Size / 2, Y: c.Actor.Size / 2}
	target = c.Bounds.Inset(c.Actor.Size).Clamp(target)

	frame := func(t float64) {
		pos := core.LerpVec(start, target, core.EaseOutCubic(t))
		c.Apply(stage.Patch{}.WithPosition(pos).WithTrail(pos.Add(half)))
	}
	if d <= 0 {
		frame(1)
		return nil
	}
	return &Tween{Duration: d, Frame: frame}
}

func moveHandler(c *Call) Activity {
	steps := float64(c.Inputs.Int("steps"))
	if steps == 0 {
		return nil
	}
	target := c.Actor.Position.Add(core.Heading(c.Actor.Heading).Scale(steps))
	d := c.Timing.Scale(Per(steps, c.Timing.MovePerStep))
	return glide(c, target, d)
}

func gotoHandler(c *Call) Activity {
	target := core.Vec{X: c.Inputs.Number("x"), Y: c.Inputs.Number("y")}
	dist := core.Distance(c.Actor.Position, c.Bounds.Inset(c.Actor.Size).Clamp(target))
	d := c.Timing.Scale(Per(dist, c.Timing.GotoPerPixel))
	return glide(c, target, d)
}

func turnHandler(c *Call) Activity {
	deg := float64(c.Inputs.Int("degrees"))
	if deg == 0 {
		return nil
	}
	start := c.Actor.Heading

	frame := func(t float64) {
		c.Apply(stage.Patch{}.WithHeading(core.Lerp(start, start+deg, t)))
	}
	d := c.Timing.Scale(Per(deg, c.Timing.TurnPerDegree))
	if d <= 0 {
		frame(1)
		return nil
	}
	return &Tween{Duration: d, Frame: frame}
}

func changeSizeHandler(c *Call) Activity {
	start := c.Actor.Size
	target := core.ClampF(start+float64(c.Inputs.Int("change")), stage.MinSize, stage.MaxSize)
	if target == start {
		return nil
	}

	frame := func(t float64) {
		c.Apply(stage.Patch{}.WithSize(core.Lerp(start, target, t)))
	}
	d := c.Timing.Scale(c.Timing.SizeChange)
	if d <= 0 {
		frame(1)
		return nil
	}
	return &Tween{Duration: d, Frame: frame}
}

func setColorHandler(c *Call) Activity {
	n := len(core.Palette)
	idx := (c.Inputs.Int("color")%n + n) % n
	c.Apply(stage.Patch{}.WithColor(core.Palette[idx]))
	return nil
}

func waitHandler(c *Call) Activity {
	d := c.Timing.Seconds(c.Inputs.Number("seconds"))
	if d <= 0 {
		return nil
	}
	return &Timer{Duration: d}
}

// speechHandler shows a bubble for the given duration and then clears it.
// Thoughts are flagged so renderers can draw them differently.
func speechHandler(thought bool) Handler {
	return func(c *Call) Activity {
		c.Apply(stage.Patch{}.WithMessage(c.Inputs.Text("message"), thought))

		hide := func() {
			c.Apply(stage.Patch{}.WithMessage("", false))
		}
		d := c.Timing.Seconds(c.Inputs.Number("duration"))
		if d <= 0 {
			hide()
			return nil
		}
		return &Timer{Duration: d, Done: hide}
	}
}
