package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/hqvu/groundroster/internal/config"
	"github.com/hqvu/groundroster/pkg/clients/excelclient"
	"github.com/hqvu/groundroster/pkg/clients/sheetsclient"
	"github.com/hqvu/groundroster/pkg/core/attendance"
	"github.com/hqvu/groundroster/pkg/core/availability"
	"github.com/hqvu/groundroster/pkg/core/model"
	"github.com/hqvu/groundroster/pkg/core/timewin"
	"github.com/hqvu/groundroster/pkg/utils/logging"
	"github.com/hqvu/groundroster/pkg/workbook"
)

// App holds the application dependencies
type App struct {
	cfg    *config.Config
	store  *workbook.Store
	logger *zap.Logger
	ctx    context.Context
}

var (
	env        string
	filePath   string
	sheetID    string
	configPath string
	app        *App
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "groundroster",
		Short: "Ground-staff roster queries - attendance, flight assignments, availability",
		Long: `A CLI tool for querying airport ground-staff roster spreadsheets:
weekly attendance totals, daily flight assignments, and staff availability
within a time window.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil && app.logger != nil {
				app.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "local", "Environment name, used for log file naming")
	rootCmd.PersistentFlags().StringVarP(&filePath, "file", "f", "", "Path to the roster .xlsx workbook")
	rootCmd.PersistentFlags().StringVar(&sheetID, "sheet-id", "", "Google Sheets spreadsheet ID (alternative to --file)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to groundroster.yaml (optional)")

	rootCmd.AddCommand(listStaffCmd())
	rootCmd.AddCommand(attendanceCmd())
	rootCmd.AddCommand(dayShiftCmd())
	rootCmd.AddCommand(flightsCmd())
	rootCmd.AddCommand(availabilityCmd())
	rootCmd.AddCommand(interactiveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, the workbook source, and loads the store
func initApp() error {
	var err error
	app = &App{
		ctx: context.Background(),
	}

	app.logger, err = logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.logger.Info("Starting application", zap.String("environment", env))

	app.logger.Info("Loading configuration")
	if configPath != "" {
		app.cfg, err = config.LoadFromPath(configPath)
	} else {
		app.cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.logger.Debug("Configuration loaded successfully")

	source, err := buildSource()
	if err != nil {
		return err
	}

	layout := attendance.Layout{
		HeaderRow:     app.cfg.Attendance.HeaderRow,
		NameColumn:    app.cfg.Attendance.NameColumn,
		DayBaseColumn: app.cfg.Attendance.DayBaseColumn,
		DayColumnSpan: app.cfg.Attendance.DayColumnSpan,
	}
	app.store = workbook.NewStore(layout, app.logger)

	app.logger.Info("Loading workbook")
	if err := app.store.Load(app.ctx, source); err != nil {
		return err
	}

	return nil
}

// buildSource picks the workbook source: a local file when --file is given,
// otherwise Google Sheets via --sheet-id or the configured spreadsheet.
func buildSource() (workbook.GridSource, error) {
	if filePath != "" {
		app.logger.Info("Using local workbook", zap.String("file", filePath))
		return excelclient.NewClient(filePath), nil
	}

	id := sheetID
	if id == "" {
		id = app.cfg.SpreadsheetID
	}
	if id == "" {
		return nil, fmt.Errorf("no workbook source: pass --file or --sheet-id (or set spreadsheetID in config)")
	}

	app.logger.Info("Using Google Sheets workbook", zap.String("spreadsheet_id", id))

	oauthCfg, err := config.LoadOAuthClient()
	if err != nil {
		return nil, fmt.Errorf("failed to load OAuth client config: %w", err)
	}

	client, err := sheetsclient.NewClient(app.ctx, oauthCfg, id)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	return client, nil
}

func parseDayArg(arg string) (model.Weekday, error) {
	day, ok := model.ParseWeekday(arg)
	if !ok {
		return 0, fmt.Errorf("invalid day %q (expected MON..SUN)", arg)
	}
	return day, nil
}

// Command definitions

func listStaffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "liststaff",
		Short: "List staff from the attendance sheet (or a daily sheet with --day)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dayArg, _ := cmd.Flags().GetString("day")

			if dayArg != "" {
				day, err := parseDayArg(dayArg)
				if err != nil {
					return err
				}
				names, sheetName, err := app.store.DaySheetStaff(day)
				if err != nil {
					return err
				}
				fmt.Printf("\nFound %d names on sheet %q:\n\n", len(names), sheetName)
				for _, name := range names {
					fmt.Printf("- %s\n", name)
				}
				return nil
			}

			names := app.store.ListStaff()
			app.logger.Info("Staff listed", zap.Int("count", len(names)))

			fmt.Printf("\nFound %d staff on %q:\n\n", len(names), app.store.AttendanceSheetName())
			for _, name := range names {
				fmt.Printf("- %s\n", name)
			}
			return nil
		},
	}

	cmd.Flags().String("day", "", "List names from the daily sheet for MON..SUN instead")

	return cmd
}

func attendanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "attendance <name>",
		Short: "Weekly attendance totals for a staff member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			week, ok := app.store.WeeklyAttendance(name)
			if !ok {
				fmt.Printf("Staff %q not found on the attendance sheet.\n", name)
				return nil
			}

			fmt.Printf("\n%s\n", name)
			fmt.Printf("Total hours:  %g\n", week.TotalHours)
			fmt.Printf("Total shifts: %d\n\n", week.ShiftCount)

			for day := model.Monday; day <= model.Sunday; day++ {
				printDayLine(day, week.Days[day])
			}
			fmt.Println()

			return nil
		},
	}
}

// printDayLine renders one weekday the way the roster team reads it:
// valid shifts win, then an off marker, then unknown codes, else silence.
func printDayLine(day model.Weekday, agg model.DayAggregate) {
	switch {
	case agg.HasShifts():
		details := make([]string, 0, len(agg.Shifts))
		for _, s := range agg.Shifts {
			if s.IsDirect {
				details = append(details, fmt.Sprintf("[%s] %s", s.Code, s.Label))
			} else {
				details = append(details, fmt.Sprintf("[%s] %s-%s", s.Code, timewin.Clock(s.Start), timewin.Clock(s.End)))
			}
		}
		fmt.Printf("  %-6s %-12s %s (%gh)\n", day.Display(), agg.RawDisplay, strings.Join(details, "; "), agg.TotalHours)
	case agg.IsOff:
		fmt.Printf("  %-6s %-12s Nghỉ/Không tính giờ\n", day.Display(), agg.RawDisplay)
	case len(agg.Unknown) > 0:
		fmt.Printf("  %-6s Mã lạ: %s\n", day.Display(), agg.RawDisplay)
	}
}

func dayShiftCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dayshift <name> <day>",
		Short: "Shift and flight assignments for a staff member on one day",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			day, err := parseDayArg(args[1])
			if err != nil {
				return err
			}

			agg, ok := app.store.DayShift(name, day)
			switch {
			case !ok:
				fmt.Printf("Staff %q not found on the attendance sheet.\n", name)
				return nil
			case agg.IsOff && !agg.HasShifts():
				fmt.Printf("\n%s - %s: %s (Nghỉ)\n", name, day.Code(), agg.RawCodes)
			case agg.HasShifts():
				times := make([]string, 0, len(agg.Shifts))
				for _, s := range agg.Shifts {
					if s.IsDirect {
						times = append(times, s.Label)
					} else {
						times = append(times, fmt.Sprintf("%s - %s", timewin.Clock(s.Start), timewin.Clock(s.End)))
					}
				}
				fmt.Printf("\n%s - %s: %s\n", name, day.Code(), agg.RawCodes)
				fmt.Printf("Shift: %s (Tổng: %gh)\n", strings.Join(times, " | "), agg.TotalHours)
			default:
				fmt.Printf("\n%s - %s: Không có ca\n", name, day.Code())
			}

			assignments, sheetName, err := app.store.FlightAssignments(name, day)
			if err != nil {
				fmt.Printf("No flight sheet for %s.\n", day.Code())
				return nil
			}

			if len(assignments) == 0 {
				fmt.Println("No flight assignments.")
				return nil
			}

			fmt.Printf("\nAssignments on %q:\n", sheetName)
			section := model.SectionKind("")
			for _, f := range assignments {
				if f.Section != section {
					section = f.Section
					fmt.Printf("  %s\n", section)
				}
				fmt.Printf("    %-8s %s\n", timewin.FormatCell(f.ETD), f.Flight)
			}
			return nil
		},
	}
}

func flightsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "flights <name> <day>",
		Short: "Flight assignments for a staff member on a daily sheet",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			day, err := parseDayArg(args[1])
			if err != nil {
				return err
			}

			assignments, sheetName, err := app.store.FlightAssignments(name, day)
			if err != nil {
				return err
			}

			if len(assignments) == 0 {
				fmt.Printf("No flights found for %q on %s.\n", name, day.Code())
				return nil
			}

			fmt.Printf("\n%d assignment(s) for %s on %q:\n\n", len(assignments), name, sheetName)
			fmt.Printf("%-12s %-8s %-20s %-8s %s\n", "FLIGHT", "ETD", "POSITION", "GATE", "SECTION")
			for _, f := range assignments {
				fmt.Printf("%-12s %-8s %-20s %-8s %s\n",
					f.Flight, timewin.FormatCell(f.ETD), f.Position, f.Gate, f.Section)
			}
			return nil
		},
	}
}

func availabilityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "availability <day> <start> <end>",
		Short: "Find staff free (vs flight-busy) in a time window",
		Long: `Find staff whose shift covers the given HH:MM window on a day, split into
those free to work and those tied up by a flight around its departure.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDayArg(args[0])
			if err != nil {
				return err
			}
			start, end := args[1], args[2]

			opts := availability.Options{
				BusyLeadMinutes:  app.cfg.BusyLeadMinutes,
				BusyTrailMinutes: app.cfg.BusyTrailMinutes,
			}

			outcome := <-availability.ResolveAsync(app.ctx, app.store, app.logger, opts, day, start, end)
			if outcome.Err != nil {
				return outcome.Err
			}
			result := outcome.Result

			fmt.Printf("\n%d staff available %s %s-%s:\n\n", len(result.Available), day.Code(), start, end)
			for _, s := range result.Available {
				fmt.Printf("  %s  [%s]\n", s.Name, strings.Join(s.ShiftLabels, " "))
			}

			if len(result.Busy) > 0 {
				fmt.Printf("\n%d staff busy with flights:\n\n", len(result.Busy))
				for _, s := range result.Busy {
					fmt.Printf("  %s\n", s.Name)
					for _, f := range s.BusyFlights {
						fmt.Printf("    %s (%s) - %s\n", f.Flight, timewin.FormatCell(f.ETD), f.Section)
					}
				}
			}
			return nil
		},
	}
}

func interactiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Start an interactive session (load the workbook once, run multiple queries)",
		Long: `Start an interactive session where you can run multiple queries without
reloading the workbook. The session keeps running until you type 'exit' or 'quit'.

Type 'help' to see available commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("\nStarting interactive session...")
			fmt.Println("Type 'help' for available commands, 'exit' or 'quit' to leave")

			// Get all sibling commands (excluding interactive itself)
			rootCmd := cmd.Parent()
			commands := make(map[string]*cobra.Command)
			for _, subCmd := range rootCmd.Commands() {
				if subCmd.Name() != "interactive" && subCmd.Name() != "completion" && subCmd.Name() != "help" {
					commands[subCmd.Name()] = subCmd
				}
			}

			scanner := bufio.NewScanner(os.Stdin)

			for {
				fmt.Print("> ")

				if !scanner.Scan() {
					break
				}

				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}

				parts, err := parseCommandLine(line)
				if err != nil {
					fmt.Printf("Error parsing command: %v\n\n", err)
					continue
				}
				if len(parts) == 0 {
					continue
				}
				cmdName := parts[0]
				cmdArgs := parts[1:]

				if cmdName == "exit" || cmdName == "quit" {
					fmt.Println("Goodbye!")
					return nil
				}

				if cmdName == "help" {
					printInteractiveHelp(commands)
					continue
				}

				targetCmd, exists := commands[cmdName]
				if !exists {
					fmt.Printf("Unknown command: %s (type 'help' for available commands)\n\n", cmdName)
					continue
				}

				// Reset command flags and args
				targetCmd.Flags().VisitAll(func(flag *pflag.Flag) {
					flag.Changed = false
					flag.Value.Set(flag.DefValue)
				})

				// Execute the command's RunE directly, bypassing the full
				// Execute() flow so PersistentPreRunE does not reload the
				// workbook on every query.
				if err := targetCmd.ParseFlags(cmdArgs); err != nil {
					fmt.Printf("Error parsing flags: %v\n\n", err)
					continue
				}

				cmdArgs = targetCmd.Flags().Args()

				if err := targetCmd.Args(targetCmd, cmdArgs); err != nil {
					fmt.Printf("Error: %v\n\n", err)
					continue
				}

				if targetCmd.RunE != nil {
					if err := targetCmd.RunE(targetCmd, cmdArgs); err != nil {
						fmt.Printf("Error: %v\n\n", err)
					}
				}
			}

			if err := scanner.Err(); err != nil {
				return fmt.Errorf("error reading input: %w", err)
			}

			return nil
		},
	}

	return cmd
}

// parseCommandLine splits a command line into arguments, respecting quoted
// strings. Staff names contain spaces, so `attendance "Nguyễn Văn A"` must
// come through as two arguments. Supports both single and double quotes.
func parseCommandLine(line string) ([]string, error) {
	var args []string
	var current strings.Builder
	var inQuote rune // 0 if not in quote, '"' or '\'' if in quote

	for _, r := range line {
		switch {
		case inQuote != 0:
			if r == inQuote {
				inQuote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			inQuote = r
		case unicode.IsSpace(r):
			if current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}

	if inQuote != 0 {
		return nil, fmt.Errorf("unclosed quote: %c", inQuote)
	}

	if current.Len() > 0 {
		args = append(args, current.String())
	}

	return args, nil
}

func printInteractiveHelp(commands map[string]*cobra.Command) {
	fmt.Println("\nAvailable commands:")

	for _, cmd := range commands {
		fmt.Printf("  %-35s %s\n", cmd.Use, cmd.Short)
	}

	fmt.Println("\n  help                                Show this help message")
	fmt.Println("  exit, quit                          Exit the interactive session")
}
