package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/roundreplay/internal/driver"
	"github.com/ivlev/roundreplay/internal/net/ws"
	"github.com/ivlev/roundreplay/internal/session"
	"github.com/ivlev/roundreplay/internal/system"
)

const shutdownTimeout = 5 * time.Second

// Serve plays the script on a wall clock and streams the shared state to
// websocket viewers until ctx is done.
func (p *Project) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", p.Config.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", p.Config.Addr, err)
	}
	return p.ServeListener(ctx, ln)
}

// ServeListener is Serve on an existing listener
func (p *Project) ServeListener(ctx context.Context, ln net.Listener) error {
	if p.script == nil {
		if _, err := p.LoadScript(); err != nil {
			ln.Close()
			return err
		}
	}

	hub := ws.NewHub(ws.HubConfig{Logger: p.Logger})
	player := p.NewPlayer(hub, driver.NewTicker(p.Config.FPS))
	hub.SetCursor(player)

	sess := session.New(player, p.Logger)
	sess.Load(p.script, p.Config.AutoPlay)

	handler := ws.NewHandler(hub, ws.HandlerConfig{Controller: player, Logger: p.Logger})
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", handler.Handle)
	mux.HandleFunc("/state", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(struct {
			Session string `json:"session"`
			Moments int    `json:"moments"`
			Clients int    `json:"clients"`
			Cursor  any    `json:"cursor"`
			State   any    `json:"state"`
		}{
			Session: sess.ID.String(),
			Moments: len(p.script.Moments),
			Clients: hub.Clients(),
			Cursor:  player.Cursor(),
			State:   hub.Snapshot(),
		})
	})

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	url := system.ViewerURL(ln.Addr().String())
	p.Logger.Printf("[*] Serving session %s on %s", sess.ID, url)
	if p.Config.ShowQR {
		if qr, err := system.QRCode(url); err == nil {
			fmt.Print(qr)
		} else {
			p.Logger.Printf("[!] QR code unavailable: %v", err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return hub.Run(gctx)
	})

	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		sess.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		p.Logger.Printf("[*] Server stopped")
		return nil
	})

	return g.Wait()
}
