package renderer

import (
	"fmt"
	"math"
	"strings"

	"github.com/ivlev/roundreplay/internal/camera"
)

// GenerateZoomPanFilter creates an FFmpeg zoompan filter that replays a
// recorded camera track over a still map image. Track coordinates are in the
// unit square, so the expressions scale them by the input size.
func GenerateZoomPanFilter(track *camera.Track, width, height, fps int) string {
	if track == nil || len(track.Keyframes) == 0 {
		return ""
	}

	kfs := track.Keyframes
	zoomExpr := buildExpression(kfs, fps, func(t camera.Transform) float64 { return zoomOf(t) })
	xExpr := buildExpression(kfs, fps, func(t camera.Transform) float64 { return t.X })
	yExpr := buildExpression(kfs, fps, func(t camera.Transform) float64 { return t.Y })

	// One still input frame is repeated for the whole track
	frames := FrameIndex(track.Duration, fps) + 1

	return fmt.Sprintf("zoompan=z='%s':x='iw*(%s)-iw/zoom/2':y='ih*(%s)-ih/zoom/2':d=%d:s=%dx%d:fps=%d",
		zoomExpr, xExpr, yExpr, frames, width, height, fps)
}

// FrameIndex is the output frame shown at time t
func FrameIndex(t float64, fps int) int {
	return int(math.Round(t * float64(fps)))
}

// zoompan cannot zoom out past the input, so wider views are shown whole
func zoomOf(t camera.Transform) float64 {
	return math.Max(t.Zoom, 1)
}

// buildExpression creates a piecewise linear expression over the output
// frame number: if(lte(on,e0),seg0,if(lte(on,e1),seg1,...,last))
func buildExpression(kfs []camera.Keyframe, fps int, value func(camera.Transform) float64) string {
	if len(kfs) == 1 {
		return fmt.Sprintf("%.6f", value(kfs[0].Transform))
	}

	var b strings.Builder
	open := 0
	for i := 0; i < len(kfs)-1; i++ {
		startFrame := FrameIndex(kfs[i].Time, fps)
		endFrame := FrameIndex(kfs[i+1].Time, fps)
		start := value(kfs[i].Transform)
		end := value(kfs[i+1].Transform)

		if endFrame <= startFrame {
			continue
		}

		if start == end {
			fmt.Fprintf(&b, "if(lte(on,%d),%.6f,", endFrame, start)
		} else {
			fmt.Fprintf(&b, "if(lte(on,%d),%.6f+(on-%d)/%d*(%.6f),",
				endFrame, start, startFrame, endFrame-startFrame, end-start)
		}
		open++
	}

	fmt.Fprintf(&b, "%.6f", value(kfs[len(kfs)-1].Transform))
	b.WriteString(strings.Repeat(")", open))
	return b.String()
}
