package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/cowin-slot-checker/src/config"
	database "github.com/cowin-slot-checker/src/database"
	model "github.com/cowin-slot-checker/src/model"
	"github.com/cowin-slot-checker/src/render"
	"github.com/cowin-slot-checker/src/search"
	"github.com/cowin-slot-checker/src/slots"
	"github.com/cowin-slot-checker/src/web"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries the configuration loaded before any subcommand runs.
type app struct {
	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "cowin-slot-checker",
		Short:         "Find vaccination slots for a week by district or pincode",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			a.cfg, err = config.Load()
			return err
		},
	}
	root.AddCommand(a.newSearchCmd(), a.newServeCmd())
	return root
}

func (a *app) newSearchCmd() *cobra.Command {
	var q search.Query
	var dose int
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Print the week's availability table",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := model.NewCowinClient(a.cfg.CowinURL, a.cfg.CowinToken)
			if err != nil {
				return err
			}
			q.Dose = slots.Dose(dose)

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			result, err := search.NewService(client).Search(ctx, q)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), search.UserMessage(err))
				if errors.Is(err, search.ErrNoSlots) {
					return nil
				}
				return err
			}
			return render.Text(cmd.OutOrStdout(), result)
		},
	}
	addQueryFlags(cmd.Flags(), &q, &dose)
	return cmd
}

func addQueryFlags(flags *pflag.FlagSet, q *search.Query, dose *int) {
	flags.StringVarP(&q.Pincode, "pincode", "p", "", "6 digit pincode to search")
	flags.StringVarP(&q.DistrictID, "district", "d", "", "district id to search")
	flags.IntVarP(&q.MinAge, "age", "a", 18, "age group, 18 or 45")
	flags.IntVar(dose, "dose", 0, "dose 1 or 2, any when 0")
	flags.StringVar(&q.Date, "date", slots.Today().String(), "first day of the week, YYYY-MM-DD")
}

func (a *app) newServeCmd() *cobra.Command {
	var useDatabase bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the search page",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := a.cfg
			client, err := model.NewCowinClient(c.CowinURL, c.CowinToken)
			if err != nil {
				return err
			}

			server := &web.Server{Searcher: search.NewService(client), Locations: client}
			if useDatabase {
				conn, err := database.CreateConnection(c.DBUser, c.DBPassword, c.DBHost, c.DBName)
				if err != nil {
					return err
				}
				defer conn.Close()
				server.Locations = database.Locations{Conn: conn}
			}
			return serve(cmd.Context(), ":"+c.Port, server.Router())
		},
	}
	cmd.Flags().BoolVar(&useDatabase, "db", false, "read states and districts from the database the worker refreshes")
	return cmd
}

func serve(ctx context.Context, addr string, handler http.Handler) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	errs := make(chan error, 1)
	go func() {
		log.Infoln("Listening on", addr)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Infoln("Shutting down")
	return srv.Shutdown(shutdownCtx)
}
