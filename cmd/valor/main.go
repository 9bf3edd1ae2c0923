// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package main is the entry point for the valor CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/stacklok/valor/cmd/valor/app"
	"github.com/stacklok/valor/pkg/logger"
)

func main() {
	// Initialize the logger
	logger.Initialize()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := app.NewRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		app.ReportError(cmd.ErrOrStderr(), err)
		stop()
		os.Exit(1)
	}
}
