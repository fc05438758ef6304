package main

import (
	"context"
	"os"
	"time"

	"json_script_analyzer/internal/cli"

	log "github.com/sirupsen/logrus"
)

func main() {
	logInstance := log.New()
	logInstance.SetFormatter(&log.JSONFormatter{
		TimestampFormat:   time.RFC3339,
		DisableHTMLEscape: true,
		DisableTimestamp:  false,
	})

	if err := cli.Execute(context.Background(), logInstance); err != nil {
		logInstance.WithError(err).Error(`command failed`)
		os.Exit(1)
	}
}
