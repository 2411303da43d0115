package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ivlev/roundreplay/internal/config"
	"github.com/ivlev/roundreplay/internal/driver"
	"github.com/ivlev/roundreplay/internal/engine"
	"github.com/ivlev/roundreplay/internal/narration"
	"github.com/ivlev/roundreplay/internal/session"
	"github.com/ivlev/roundreplay/internal/surface"
	"github.com/ivlev/roundreplay/internal/system"
	"github.com/ivlev/roundreplay/internal/video"
	"github.com/ivlev/roundreplay/internal/viewer"
)

var buildVersion = "dev"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("[*] No .env file found, using system environment")
	}

	system.InitResourceLimits()

	dirs := []string{"input/scripts", "input/maps", "output"}
	for _, d := range dirs {
		os.MkdirAll(d, 0755)
	}

	cfg := config.Default()
	cfg.BuildVersion = buildVersion
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		log.Fatalf("[-] Invalid environment: %v", err)
	}

	inputPtr := flag.String("input", cfg.InputPath, "Narration script or directory (default: newest script in input/scripts/)")
	mapPtr := flag.String("map", cfg.MapImage, "Map image or directory of maps used as the backdrop")
	trackPtr := flag.String("track", cfg.OutputTrack, "Camera track output path (default: generated next to the script)")
	videoPtr := flag.String("video", cfg.OutputVideo, "Render the camera track to this video file")
	serveFlag := flag.Bool("serve", false, "Stream playback to websocket viewers")
	windowFlag := flag.Bool("window", false, "Open the debug viewer window")
	addrPtr := flag.String("addr", cfg.Addr, "Listen address for -serve")
	autoPlayFlag := flag.Bool("autoplay", cfg.AutoPlay, "Start playback on the first load")
	qrFlag := flag.Bool("qr", cfg.ShowQR, "Print the viewer URL as a QR code")
	panPtr := flag.Float64("pan", cfg.PanDuration, "Camera pan duration per moment (sec)")
	holdPtr := flag.Float64("hold", cfg.HoldDuration, "Hold duration per moment (sec)")
	resetPtr := flag.Float64("reset", cfg.ResetDuration, "Final camera reset duration (sec)")
	widthPtr := flag.Int("width", cfg.Width, "Width")
	heightPtr := flag.Int("height", cfg.Height, "Height")
	fpsPtr := flag.Int("fps", cfg.FPS, "FPS")
	stepPtr := flag.Float64("keyframe-step", cfg.KeyframeStep, "Seconds between stored track keyframes (0 keeps every frame)")
	encoderPtr := flag.String("encoder", "", "H.264 encoder (default: best available)")
	qualityPtr := flag.Int("quality", 0, "Video quality (0 - auto, x264: CRF 1-51, VideoToolbox: bitrate = Q*100kbit/s)")
	statsFlag := flag.Bool("stats", cfg.ShowStats, "Print a performance report")

	flag.Parse()

	cfg.InputPath = *inputPtr
	cfg.MapImage = *mapPtr
	cfg.OutputTrack = *trackPtr
	cfg.OutputVideo = *videoPtr
	cfg.Addr = *addrPtr
	cfg.AutoPlay = *autoPlayFlag
	cfg.ShowQR = *qrFlag
	cfg.PanDuration = *panPtr
	cfg.HoldDuration = *holdPtr
	cfg.ResetDuration = *resetPtr
	cfg.Width = *widthPtr
	cfg.Height = *heightPtr
	cfg.FPS = *fpsPtr
	cfg.KeyframeStep = *stepPtr
	cfg.ShowStats = *statsFlag

	if cfg.InputPath == "" {
		latest, err := narration.FindLatestScript("input/scripts")
		if err != nil {
			log.Fatalf("[-] Error: %v. Put a narration script into input/scripts/", err)
		}
		cfg.InputPath = latest
		fmt.Printf("[*] Selected script: %s\n", cfg.InputPath)
	}

	encoderName := *encoderPtr
	if encoderName == "" {
		encoderName = cfg.VideoEncoder
	}
	if cfg.OutputVideo != "" && *encoderPtr == "" {
		encoderName = video.GetBestH264Encoder()
		if encoderName != "libx264" {
			fmt.Printf("[*] Hardware acceleration found: %s\n", encoderName)
		}
	}
	cfg.VideoEncoder = encoderName

	quality := *qualityPtr
	if quality == 0 {
		switch encoderName {
		case "h264_videotoolbox":
			quality = 75
		case "h264_nvenc":
			quality = 28
		default:
			quality = 23
		}
	}
	cfg.Quality = quality

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	project := engine.NewProject(cfg, &video.FFmpegEncoder{}, log.Default())
	if _, err := project.LoadScript(); err != nil {
		log.Fatalf("[-] Script error: %v", err)
	}

	switch {
	case *serveFlag:
		if err := project.Serve(ctx); err != nil {
			log.Fatalf("[-] Server error: %v", err)
		}
	case *windowFlag:
		if err := runWindow(project); err != nil {
			log.Fatalf("[-] Viewer error: %v", err)
		}
	default:
		report, err := project.Export(ctx)
		if err != nil {
			log.Fatalf("[-] Export error: %v", err)
		}
		fmt.Printf("[+++] Success! Track: %s\n", report.TrackPath)
	}
}

func runWindow(project *engine.Project) error {
	cfg := project.Config

	var backdrop image.Image
	if cfg.MapImage != "" {
		path, err := system.FindLatestImage(cfg.MapImage)
		if err != nil {
			return err
		}
		backdrop, err = video.LoadMap(path)
		if err != nil {
			return err
		}
	}

	store := surface.NewStore()
	frame := driver.NewFrame()
	player := project.NewPlayer(store, frame)

	sess := session.New(player, project.Logger)
	defer sess.Close()
	sess.Load(project.Script(), cfg.AutoPlay)

	g := viewer.New(viewer.Config{
		Store:  store,
		Player: player,
		Frame:  frame,
		Width:  cfg.Width,
		Height: cfg.Height,
		TPS:    cfg.FPS,
		Map:    backdrop,
	})
	return viewer.Run(g, "Round Replay")
}
