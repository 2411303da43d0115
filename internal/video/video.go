package video

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"os/exec"
	"strings"

	_ "golang.org/x/image/webp"

	"github.com/ivlev/roundreplay/internal/config"
)

type VideoEncoder interface {
	Encode(ctx context.Context, img image.Image, videoPath string, params config.SegmentParams, encoderName string, quality int) error
}

type FFmpegEncoder struct{}

// Encode pipes img to ffmpeg as a single raw frame; params.Filter (a
// zoompan over the recorded camera track) turns it into the full clip.
func (e *FFmpegEncoder) Encode(
	ctx context.Context,
	img image.Image,
	videoPath string,
	params config.SegmentParams,
	encoderName string,
	quality int,
) error {
	inputW, inputH := img.Bounds().Dx(), img.Bounds().Dy()

	args := e.buildFFmpegArgs(inputW, inputH, videoPath, params, encoderName, quality)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe error: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("ffmpeg start error: %w", err)
	}

	if err := e.writeRawRGBA(stdin, img); err != nil {
		stdin.Close()
		cmd.Wait()
		return fmt.Errorf("write raw error: %w", err)
	}
	stdin.Close()

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg wait error: %w, output: %s", err, out.String())
	}

	return nil
}

func (e *FFmpegEncoder) buildFFmpegArgs(
	inputW, inputH int,
	videoPath string,
	params config.SegmentParams,
	encoderName string,
	quality int,
) []string {
	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", inputW, inputH),
		"-i", "-",
		"-vf", params.Filter,
		"-t", fmt.Sprintf("%f", params.Duration),
		"-r", fmt.Sprintf("%d", params.FPS),
		"-pix_fmt", "yuv420p",
		"-c:v", encoderName,
	}

	args = append(args, qualityArgs(encoderName, quality)...)
	args = append(args, videoPath)
	return args
}

func qualityArgs(encoderName string, quality int) []string {
	switch encoderName {
	case "h264_videotoolbox":
		// VideoToolbox takes a bitrate: 75 -> 7.5 Mbit/s
		return []string{"-b:v", fmt.Sprintf("%dk", quality*100)}
	case "h264_nvenc":
		return []string{"-cq", fmt.Sprintf("%d", quality)}
	default: // libx264
		return []string{"-crf", fmt.Sprintf("%d", quality), "-preset", "medium"}
	}
}

func (e *FFmpegEncoder) writeRawRGBA(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != bounds.Dx()*4 || rgba.Rect.Min.X != 0 || rgba.Rect.Min.Y != 0 {
		rgba = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	}
	_, err := w.Write(rgba.Pix)
	return err
}

// LoadMap decodes a PNG, JPEG or WebP map image
func LoadMap(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open map image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode map image %s: %w", path, err)
	}
	return img, nil
}

// BlankMap is the backdrop used when no map image is given: a dark square
// with a 10x10 grid. Sides are kept even for yuv420p.
func BlankMap(side int) *image.RGBA {
	if side%2 != 0 {
		side++
	}
	img := image.NewRGBA(image.Rect(0, 0, side, side))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{R: 14, G: 16, B: 20, A: 255}}, image.Point{}, draw.Src)

	grid := color.RGBA{R: 40, G: 46, B: 56, A: 255}
	for i := 0; i <= 10; i++ {
		p := i * (side - 1) / 10
		for j := 0; j < side; j++ {
			img.SetRGBA(p, j, grid)
			img.SetRGBA(j, p, grid)
		}
	}
	return img
}

// GetBestH264Encoder picks the first hardware encoder ffmpeg reports,
// falling back to libx264.
func GetBestH264Encoder() string {
	out, err := exec.Command("ffmpeg", "-encoders").CombinedOutput()
	if err != nil {
		return "libx264"
	}
	return pickEncoder(string(out))
}

func pickEncoder(encoderList string) string {
	for _, name := range []string{"h264_videotoolbox", "h264_nvenc"} {
		if strings.Contains(encoderList, name) {
			return name
		}
	}
	return "libx264"
}
