package recording

import "fmt"

// Replay dispatches the recorded commands to s in program order.
//
// Replay keeps its own clip depth: PopClip with nothing pushed is skipped,
// a PushClip past MaxClipDepth is skipped together with its matching pop,
// and clips still open at the end are popped so s is left balanced.
func (l *List) Replay(s Sink) error {
	depth := 0   // clips pushed on s
	skipped := 0 // pushes ignored because the stack was full
	var err error

	for i := 0; i < l.n && err == nil; i++ {
		switch c := l.cmds[i].(type) {
		case ClearCommand:
			err = s.Clear(c.Color)
		case RectCommand:
			err = s.FillRect(c.Rect, c.Color, c.Radius)
		case LineCommand:
			err = s.StrokeLine(c.X0, c.Y0, c.X1, c.Y1, c.Color, c.Thickness)
		case PathCommand:
			err = s.FillPath(c.Verbs, c.Points, c.Color)
		case PushClipCommand:
			if depth >= MaxClipDepth {
				skipped++
				continue
			}
			if err = s.PushClip(c.Rect); err == nil {
				depth++
			}
		case PopClipCommand:
			switch {
			case skipped > 0:
				skipped--
			case depth > 0:
				if err = s.PopClip(); err == nil {
					depth--
				}
			}
		case TextureCommand:
			err = replayTexture(s, c)
		case TextCommand:
			err = replayText(s, c)
		}
		if err != nil {
			err = fmt.Errorf("recording: replay command %d (%s): %w", i, l.cmds[i].Type(), err)
		}
	}

	for ; depth > 0; depth-- {
		if perr := s.PopClip(); perr != nil && err == nil {
			err = perr
		}
	}
	return err
}

func replayTexture(s Sink, c TextureCommand) error {
	img, err := c.Image.NativeImage()
	if err != nil {
		return err
	}
	return s.DrawImage(img, c.Src, c.Dst)
}

func replayText(s Sink, c TextCommand) error {
	face, err := c.Font.Face(c.Size)
	if err != nil {
		return err
	}
	return s.DrawText(c.Text, c.X, c.Y, face, c.Color)
}
