package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roleinit/conscheduler/internal/config"
	"github.com/roleinit/conscheduler/pkg/clients/tteclient"
	"github.com/roleinit/conscheduler/pkg/core/services"
	"github.com/roleinit/conscheduler/pkg/db"
	"github.com/roleinit/conscheduler/pkg/utils/logging"
)

// App holds the application dependencies
type App struct {
	cfg      *config.Config
	client   *tteclient.Client
	database *db.DB
	logger   *zap.Logger
	ctx      context.Context
}

var (
	envFile string
	verbose bool
	app     *App
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "conscheduler",
		Short: "Convention operations CLI - schedule events and volunteers on tabletop.events",
		Long: `A CLI tool for convention organizers: import room layouts and volunteer
rosters, create the event schedule with table and host assignments, and
export the results.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app == nil {
				return
			}
			if app.client != nil {
				if err := app.client.Logout(app.ctx); err != nil && app.logger != nil {
					app.logger.Warn("failed to end session", zap.Error(err))
				}
			}
			if app.logger != nil {
				app.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&envFile, "env", "e", ".env", "Path to the credentials .env file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug output on the console")

	rootCmd.AddCommand(conventionsCmd())
	rootCmd.AddCommand(newConventionCmd())
	rootCmd.AddCommand(syncCmd())
	rootCmd.AddCommand(importLayoutCmd())
	rootCmd.AddCommand(importVolunteersCmd())
	rootCmd.AddCommand(createScheduleCmd())
	rootCmd.AddCommand(resetCmd())
	rootCmd.AddCommand(eventReportCmd())
	rootCmd.AddCommand(volunteerReportCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, the platform session, and the cache
func initApp() error {
	var err error
	app = &App{
		ctx: context.Background(),
	}

	app.cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	app.logger, err = logging.New(app.cfg.LogDir, "conscheduler", verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	app.logger.Debug("Configuration loaded")

	secrets, err := config.LoadSecrets(envFile)
	if err != nil {
		return err
	}

	app.client = tteclient.NewClient(app.cfg.APIBaseURL, nil, app.logger)
	app.logger.Info("Starting platform session")
	if err := app.client.Login(app.ctx, secrets.APIKeyID, secrets.Username, secrets.Password); err != nil {
		return err
	}

	app.database, err = db.Open(app.cfg.CachePath)
	if err != nil {
		return err
	}
	app.logger.Debug("Cache opened", zap.String("path", app.cfg.CachePath))

	return nil
}

// Command definitions

func conventionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "conventions",
		Short: "List the organizer group's conventions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conventions, err := services.ListConventions(app.ctx, app.client, app.cfg, app.logger)
			if err != nil {
				return err
			}

			fmt.Printf("\nFound %d conventions:\n\n", len(conventions))
			for _, convention := range conventions {
				fmt.Printf("  %s  %s\n", convention.ID, convention.Name)
			}
			fmt.Println()
			return nil
		},
	}
}

func newConventionCmd() *cobra.Command {
	var description, email, phone string

	cmd := &cobra.Command{
		Use:   "newConvention <name> <location> <days_csv>",
		Short: "Create a convention on the platform with its days",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[2])
			if err != nil {
				return fmt.Errorf("failed to open day sheet: %w", err)
			}
			defer file.Close()

			result, err := services.CreateConvention(app.ctx, app.database, app.client, app.cfg, app.logger, services.NewConvention{
				Name:        args[0],
				Location:    args[1],
				Description: description,
				Email:       email,
				PhoneNumber: phone,
			}, file)
			if err != nil {
				return err
			}

			fmt.Printf("\nCreated %s\n", args[0])
			fmt.Printf("Convention ID: %s\n", result.ConventionID)
			fmt.Printf("Timezone:      %s\n", result.Timezone)
			fmt.Printf("Days created:  %d\n\n", result.Days)
			return nil
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "convention description")
	cmd.Flags().StringVar(&email, "email", "", "contact email address")
	cmd.Flags().StringVar(&phone, "phone", "", "contact phone number")
	return cmd
}

func syncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync <convention_id>",
		Short: "Refresh the cached name and timezone of a convention",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := services.SyncConvention(app.ctx, app.database, app.client, app.logger, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("\nSynced %s\n", record.Name)
			fmt.Printf("Timezone: %s\n\n", record.Timezone)
			return nil
		},
	}
}

func importLayoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "importLayout <convention_id> <layout_csv>",
		Short: "Push the room/slot layout matrix to the platform",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[1])
			if err != nil {
				return fmt.Errorf("failed to open layout file: %w", err)
			}
			defer file.Close()

			result, err := services.ImportLayout(app.ctx, app.database, app.client, app.cfg, app.logger, args[0], file)
			if err != nil {
				return err
			}

			fmt.Printf("\nLayout imported (%d slot columns)\n\n", result.Slots)
			fmt.Printf("  Dayparts created: %d\n", result.DayPartsCreated)
			fmt.Printf("  Rooms created:    %d\n", result.RoomsCreated)
			fmt.Printf("  Spaces created:   %d\n", result.SpacesCreated)
			fmt.Printf("  Shifts created:   %d\n\n", result.ShiftsCreated)
			return nil
		},
	}
}

func importVolunteersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "importVolunteers <convention_id> <volunteers_csv>",
		Short: "Import the volunteer availability matrix",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[1])
			if err != nil {
				return fmt.Errorf("failed to open volunteers file: %w", err)
			}
			defer file.Close()

			result, err := services.ImportVolunteers(app.ctx, app.database, app.client, app.logger, args[0], file)
			if err != nil {
				return err
			}

			fmt.Printf("\nImported %d volunteers (%d new platform accounts)\n\n",
				result.Imported, result.Registered)
			return nil
		},
	}
}

func createScheduleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "createSchedule <convention_id> <events_csv>",
		Short: "Create the event schedule: events, tables, and hosts",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[1])
			if err != nil {
				return fmt.Errorf("failed to open events file: %w", err)
			}
			defer file.Close()

			result, err := services.CreateSchedule(app.ctx, app.database, app.client, app.logger, args[0], file)
			if err != nil {
				return err
			}

			fmt.Printf("\nSchedule run finished (%d events)\n\n", len(result.Report.Outcomes))
			for _, outcome := range result.Report.Outcomes {
				if outcome.Err != "" {
					fmt.Printf("  ✗ %-30s %s\n", outcome.EventName, outcome.Err)
					continue
				}
				status := "✓"
				if !outcome.Scheduled() {
					status = "!"
				}
				fmt.Printf("  %s %-30s tables %d/%d, hosts %d/%d\n",
					status, outcome.EventName,
					outcome.TablesReserved, outcome.TablesReserved+outcome.TablesShort,
					outcome.HostsMatched, outcome.HostsMatched+outcome.HostsMissing)
				for _, email := range outcome.UnknownEmails {
					fmt.Printf("      unknown pre-assigned host: %s\n", email)
				}
			}

			if len(result.Report.Warnings) > 0 {
				fmt.Printf("\nWarnings:\n")
				for _, warning := range result.Report.Warnings {
					fmt.Printf("  - %s\n", warning)
				}
			}
			if len(result.Conflicts) > 0 {
				fmt.Printf("\nConflicts detected:\n")
				for _, conflict := range result.Conflicts {
					fmt.Printf("  - [%s] %s\n", conflict.Kind, conflict.Description)
				}
			}
			fmt.Println()
			return nil
		},
	}
}

func resetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset <convention_id>",
		Short: "Delete all scheduled events, shifts, volunteers, dayparts, spaces, and rooms",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := services.ResetConvention(app.ctx, app.database, app.client, app.logger, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("\nConvention reset\n\n")
			fmt.Printf("  Events deleted:     %d\n", result.Events)
			fmt.Printf("  Shifts deleted:     %d\n", result.Shifts)
			fmt.Printf("  Volunteers deleted: %d\n", result.Volunteers)
			fmt.Printf("  Dayparts deleted:   %d\n", result.DayParts)
			fmt.Printf("  Spaces deleted:     %d\n", result.Spaces)
			fmt.Printf("  Rooms deleted:      %d\n", result.Rooms)
			if result.Failures > 0 {
				fmt.Printf("  Failures:           %d (re-run to retry)\n", result.Failures)
			}
			fmt.Println()
			return nil
		},
	}
}

func eventReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "eventReport <convention_id>",
		Short: "Export the scheduled events to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, file, err := reportFile(args[0] + "_events.csv")
			if err != nil {
				return err
			}
			defer file.Close()

			count, err := services.EventReport(app.ctx, app.client, app.logger, args[0], file)
			if err != nil {
				return err
			}

			fmt.Printf("\nWrote %d events to %s\n\n", count, path)
			return nil
		},
	}
}

func volunteerReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "volunteerReport <convention_id>",
		Short: "Export the volunteer roster and shifts to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, file, err := reportFile(args[0] + "_volunteers.csv")
			if err != nil {
				return err
			}
			defer file.Close()

			count, err := services.VolunteerReport(app.ctx, app.client, app.logger, args[0], file)
			if err != nil {
				return err
			}

			fmt.Printf("\nWrote %d volunteers to %s\n\n", count, path)
			return nil
		},
	}
}

func reportFile(name string) (string, *os.File, error) {
	if err := os.MkdirAll(app.cfg.ReportDir, 0755); err != nil {
		return "", nil, fmt.Errorf("failed to create report directory: %w", err)
	}
	path := filepath.Join(app.cfg.ReportDir, name)
	file, err := os.Create(path)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create report file: %w", err)
	}
	return path, file, nil
}
