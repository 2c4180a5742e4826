package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"fyne.io/fyne/v2/app"

	"LocalBoard/internal/config"
	"LocalBoard/internal/engine"
	lbnet "LocalBoard/internal/net"
	"LocalBoard/internal/prefs"
	"LocalBoard/internal/render"
	"LocalBoard/internal/ui"
)

const appID = "io.localboard.whiteboard"

func main() {
	discover := flag.Bool("discover", false, "list the board mirrors on the local network and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel()}))
	slog.SetDefault(log)

	if *discover {
		urls, err := lbnet.Discover(3 * time.Second)
		for _, u := range urls {
			fmt.Println(u)
		}
		if err != nil {
			log.Error("discovery failed", "err", err)
			os.Exit(1)
		}
		return
	}

	a := app.NewWithID(appID)
	board := ui.NewBoardWidget(log.With("component", "board"))

	var surface render.Surface = board.Surface()
	var mirror *lbnet.Mirror
	shareLink := ""
	if cfg.Mirror.Enabled {
		mirror = lbnet.NewMirror(board.Surface(), log.With("component", "mirror"))
		if _, err := mirror.Start(cfg.MirrorPort(), cfg.AdvertiseMirror()); err != nil {
			log.Warn("mirror disabled", "err", err)
			_ = mirror.Close()
			mirror = nil
		} else {
			surface = mirror
			shareLink = lbnet.ShareURL(cfg.MirrorPort())
		}
	}

	minWidth, maxWidth, step := cfg.PenLimits()
	inkDots, inkStyle := cfg.InkStyle()
	eng := engine.New(engine.Options{
		Surface:       surface,
		Pen:           prefs.NewPen(a.Preferences(), cfg.PenDefaults()),
		Background:    cfg.BackgroundColor(),
		MinWidth:      minWidth,
		MaxWidth:      maxWidth,
		WidthStep:     step,
		Palette:       cfg.Palette(),
		MoveThreshold: cfg.MoveThreshold(),
		InkDots:       inkDots,
		InkStyle:      inkStyle,
		Logger:        log.With("component", "engine"),
	})
	board.Bind(eng)

	ui.RunApp(a, board, eng, shareLink)

	if err := eng.Close(); err != nil {
		log.Warn("engine close", "err", err)
	}
	if mirror != nil {
		if err := mirror.Close(); err != nil {
			log.Warn("mirror close", "err", err)
		}
	}
}
