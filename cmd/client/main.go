package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/MKhiriev/go-zakat-keeper/internal/client"
	"github.com/MKhiriev/go-zakat-keeper/internal/logger"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	log := logger.NewClientLogger("zakat-keeper-client", logPath())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	app := client.NewApp(client.Connect, log, client.WithBuildInfo(client.BuildInfo{
		Version: buildVersion,
		Date:    buildDate,
		Commit:  buildCommit,
	}))

	err := app.Run(ctx, os.Args[1:])
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// logPath is the client log file, ZAKAT_KEEPER_LOG or a file in the user
// cache directory.
func logPath() string {
	if p := os.Getenv("ZAKAT_KEEPER_LOG"); p != "" {
		return p
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "zakat-keeper", "client.log")
}
