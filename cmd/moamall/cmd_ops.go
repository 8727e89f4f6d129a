package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sujinlee/moamall/app/jobs"
	"github.com/sujinlee/moamall/app/listeners"
	"github.com/sujinlee/moamall/app/routes"
	"github.com/sujinlee/moamall/config"
	"github.com/sujinlee/moamall/internal/server"
	"github.com/sujinlee/moamall/pkg/cache"
	"github.com/sujinlee/moamall/pkg/database"
	"github.com/sujinlee/moamall/pkg/logger"
	"github.com/sujinlee/moamall/pkg/queue"
	"github.com/sujinlee/moamall/pkg/session"
)

func queueWorkCmd() *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "queue:work",
		Short: "Run queue workers without the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := connectDB(); err != nil {
				return err
			}
			if err := cache.Connect(); err != nil {
				logger.Warn("redis unavailable, using in-memory queue", "error", err)
			}

			jobs.Boot(database.DB)
			listeners.Boot()

			queue.UseDB(database.DB)
			if cache.RDB != nil {
				queue.SetDriver(queue.NewRedisDriver(cache.RDB))
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Info("queue workers started", "workers", workers)
			queue.StartWorkers(ctx, workers)
			<-ctx.Done()
			return nil
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 4, "number of concurrent workers")
	return cmd
}

func routeListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "route:list",
		Short: "Print the registered route table",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Load(); err != nil {
				return err
			}

			r := server.NewRouter(session.DefaultOptions())
			routes.RegisterAPI(r, routes.Controllers{})
			for _, route := range r.Routes() {
				fmt.Printf("%-7s %-45s %s\n", route.Method, route.Path, route.Name)
			}
			return nil
		},
	}
}
