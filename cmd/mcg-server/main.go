// Command mcg-server hosts one lobby and serves it over all three
// transports at once: WebSocket, HTTP long-poll, and TLS/ALPN P2P.
package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"cosmossdk.io/log"

	"github.com/mentalcardgames/mcg-sub000/internal/config"
	"github.com/mentalcardgames/mcg-sub000/internal/game"
	"github.com/mentalcardgames/mcg-sub000/internal/server"
)

func main() {
	var (
		home = flag.String("home", ".mcg", "config/data directory")
	)
	flag.Parse()

	logger := log.NewLogger(os.Stderr)

	if err := os.MkdirAll(*home, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "create home dir: %v\n", err)
		os.Exit(1)
	}
	cfgPath := *home + "/mcg.toml"
	store, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	cfg := store.Get()

	if cfg.P2PKeyHex == "" {
		key, err := server.GenerateP2PKey()
		if err != nil {
			fmt.Fprintf(os.Stderr, "generate p2p key: %v\n", err)
			os.Exit(1)
		}
		cfg.P2PKeyHex = hex.EncodeToString(key)
		if err := store.Update(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "persist p2p key: %v\n", err)
			os.Exit(1)
		}
	}
	p2pKey, err := hex.DecodeString(cfg.P2PKeyHex)
	if err != nil {
		fmt.Fprintf(os.Stderr, "decode p2p key: %v\n", err)
		os.Exit(1)
	}

	lobby := server.NewLobby(logger, game.Params{SmallBlind: cfg.SmallBlind, BigBlind: cfg.BigBlind})
	bc := server.NewBroadcaster()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ws := server.NewWSTransport(lobby, bc, logger)
	wsMux := http.NewServeMux()
	wsMux.Handle("/ws", ws)
	go func() {
		logger.Info("websocket transport listening", "addr", cfg.ListenWS)
		if err := http.ListenAndServe(cfg.ListenWS, wsMux); err != nil {
			logger.Error("websocket transport stopped", "err", err)
		}
	}()

	httpT := server.NewHTTPTransport(lobby, bc, logger)
	httpMux := http.NewServeMux()
	httpT.Routes(httpMux)
	go func() {
		logger.Info("http transport listening", "addr", cfg.ListenHTTP)
		if err := http.ListenAndServe(cfg.ListenHTTP, httpMux); err != nil {
			logger.Error("http transport stopped", "err", err)
		}
	}()

	p2pT, err := server.NewP2PTransport(lobby, bc, logger, p2pKey)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init p2p transport: %v\n", err)
		os.Exit(1)
	}
	go func() {
		logger.Info("p2p transport listening", "addr", cfg.ListenP2P)
		if err := p2pT.ListenAndServe(ctx, cfg.ListenP2P); err != nil {
			logger.Error("p2p transport stopped", "err", err)
		}
	}()

	go server.RunBotDriver(ctx, lobby, bc,
		server.BotDelayRange{MinMillis: cfg.BotDelayMinMillis, MaxMillis: cfg.BotDelayMaxMillis}, logger)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logger.Info("shutting down")
	cancel()
}
