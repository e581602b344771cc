package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/talkincode/bannerstock/config"
	"github.com/talkincode/bannerstock/internal/adminapi"
	"github.com/talkincode/bannerstock/internal/app"
	"github.com/talkincode/bannerstock/internal/webserver"
)

var (
	h        = flag.Bool("h", false, "help usage")
	conffile = flag.String("c", "bannerstock.yml", "config file")
	initdb   = flag.Bool("initdb", false, "recreate empty collections and exit")
)

func main() {
	flag.Parse()
	if *h {
		flag.Usage()
		os.Exit(0)
	}

	cfg := config.LoadConfig(*conffile)
	application := app.NewApplication(cfg)
	if err := application.Init(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "init failed: %v\n", err)
		os.Exit(1)
	}
	defer application.Release()

	if *initdb {
		if err := application.InitDb(); err != nil {
			os.Exit(1)
		}
		return
	}

	webserver.Init(application)
	adminapi.InitRouter()

	errc := make(chan error, 1)
	go func() {
		errc <- webserver.Listen()
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errc:
		zap.S().Errorf("webserver stopped: %v", err)
	case sig := <-sigc:
		zap.S().Infof("received signal %s, shutting down", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = webserver.Shutdown(ctx)
	}
}
