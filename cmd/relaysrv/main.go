package main

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wtask/relay/internal/relay"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stdout, nil)).
		With("app", BinaryName, "version", Version)
	log.Info("started", "config", fmt.Sprintf("%+v", Config))

	node := net.JoinHostPort(Config.IPAddress, fmt.Sprintf("%d", Config.Port))
	listener, err := net.Listen("tcp", node)
	if err != nil {
		log.Error("unable to listen TCP", "error", err)
		os.Exit(1)
	}
	log.Info("listen", "address", node)

	server, err := relay.NewServer(
		relay.WithLogger(log),
		relay.WithBusCapacity(Config.BusCapacity),
		relay.WithWriteTimeout(Config.WriteTimeout),
	)
	if err != nil {
		log.Error("can't start relay server", "error", err)
		listener.Close()
		os.Exit(1)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	served := make(chan error, 1)
	go func() {
		served <- server.Serve(listener)
	}()
	log.Info("relay server has started")

	select {
	case err := <-served:
		// accept failure is fatal for the whole process
		log.Error("serving failed", "error", err)
		os.Exit(1)
	case <-sig:
		log.Info("got stop signal")
	}
	log.Info("relay server stopped, bye", "spent", server.Shutdown(10*time.Second))
}
