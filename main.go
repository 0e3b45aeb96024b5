package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"sales-console/app"
	"sales-console/config"
	"sales-console/leads"
	"sales-console/log"
)

var (
	version       = "0.3.0"
	configFlag    string
	dataFlag      string
	storeFlag     string
	redisAddrFlag string

	searchFlag string
	statusFlag string
	sortFlag   string
	pagesFlag  int

	rootCmd = &cobra.Command{
		Use:   "sales-console",
		Short: "Sales Console - browse leads and convert them to opportunities",
		// main prints the error once
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup()
			if err != nil {
				return err
			}
			defer env.close()

			return app.Run(cmd.Context(), app.Options{Config: env.cfg, Store: env.store})
		},
	}

	listCmd = &cobra.Command{
		Use:   "list",
		Short: "Print the lead list with the saved filters",
		Long: "Print the lead list with the saved filters. Filters given as flags are " +
			"saved, so the console opens with them next time.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup()
			if err != nil {
				return err
			}
			defer env.close()

			filters := leads.NewFilterController(env.store)
			if err := applyFilterFlags(cmd, filters); err != nil {
				return err
			}
			return printLeads(cmd.Context(), cmd.OutOrStdout(), env.cfg, filters.Filters(), pagesFlag)
		},
	}

	resetFiltersCmd = &cobra.Command{
		Use:   "reset-filters",
		Short: "Restore the default search, status filter and sort order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup()
			if err != nil {
				return err
			}
			defer env.close()

			leads.NewFilterController(env.store).ResetFilters()
			fmt.Fprintln(cmd.OutOrStdout(), "Filters have been reset")
			return nil
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of sales-console",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "sales-console version %s\n", version)
		},
	}
)

// environment is what every command needs: the configuration, an initialized
// logger and the open state store.
type environment struct {
	cfg        *config.Config
	store      config.Store
	closeStore func() error
}

func (e *environment) close() {
	if err := e.closeStore(); err != nil {
		log.WarningLog.Printf("failed to close store: %v", err)
	}
	log.Close()
}

func setup() (*environment, error) {
	cfg, err := config.LoadConfig(configFlag)
	if err != nil {
		return nil, err
	}
	if dataFlag != "" {
		cfg.DataFile = dataFlag
	}
	if storeFlag != "" {
		cfg.Store = storeFlag
	}
	if redisAddrFlag != "" {
		cfg.Redis.Addr = redisAddrFlag
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log.Initialize(cfg.LogOptions())
	store, closeStore, err := cfg.OpenStore()
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to open state store: %w", err)
	}
	return &environment{cfg: cfg, store: store, closeStore: closeStore}, nil
}

// applyFilterFlags saves the filters given on the command line.
func applyFilterFlags(cmd *cobra.Command, filters *leads.FilterController) error {
	flags := cmd.Flags()
	if flags.Changed("status") {
		f, err := leads.ParseStatusFilter(statusFlag)
		if err != nil {
			return err
		}
		filters.UpdateStatusFilter(f)
	}
	if flags.Changed("sort") {
		o, err := leads.ParseSortOrder(sortFlag)
		if err != nil {
			return err
		}
		filters.UpdateSortOrder(o)
	}
	if flags.Changed("search") {
		filters.UpdateSearchTerm(searchFlag)
	}
	return nil
}

func printLeads(ctx context.Context, out io.Writer, cfg *config.Config, f leads.FilterState, pages int) error {
	var source leads.Source
	if cfg.DataFile != "" {
		source = leads.FileSource{Path: cfg.DataFile}
	}
	store := leads.NewStore(source)
	if err := store.Load(ctx, cfg.InitialLoadDelay); err != nil {
		return fmt.Errorf("failed to load leads: %w", err)
	}
	all := store.All()

	engine := leads.NewEngine(leads.PageSize)
	engine.SetInput(all, f, f.SearchTerm)
	for i := 1; i < pages; i++ {
		more, err := engine.LoadMore(ctx, cfg.LoadMoreDelay)
		if err != nil {
			return err
		}
		if !more {
			break
		}
	}

	if _, err := fmt.Fprintln(out, leadTable(engine.Visible())); err != nil {
		return err
	}

	window := engine.Window()
	summary := fmt.Sprintf("Showing %d of %d leads", window.Revealed, window.TotalFiltered)
	if window.TotalFiltered != len(all) {
		summary += fmt.Sprintf(" (filtered from %d total)", len(all))
	}
	if window.HasMore {
		summary += "; use --pages to see more"
	}
	_, err := fmt.Fprintln(out, summary)
	return err
}

// leadTable lays the leads out in aligned columns with no borders, so the
// output stays easy to grep and cut.
func leadTable(rows []leads.Lead) string {
	headers := []string{"ID", "NAME", "COMPANY", "EMAIL", "SCORE", "STATUS", "AMOUNT"}
	cell := lipgloss.NewStyle().PaddingRight(2)
	t := table.New().
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == len(headers)-1 {
				return lipgloss.NewStyle()
			}
			return cell
		})
	for _, l := range rows {
		t.Row(l.ID, l.Name, l.Company, l.Email, strconv.Itoa(l.Score),
			leads.StatusLabel(l.Status), leads.FormatCurrency(l.Amount))
	}
	return t.String()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "",
		"Path to a config file (default ~/.sales-console/config.json)")
	rootCmd.PersistentFlags().StringVar(&dataFlag, "data", "",
		"JSON file with the leads to load instead of the bundled set")
	rootCmd.PersistentFlags().StringVar(&storeFlag, "store", "",
		"Where filters are saved: file, redis or memory")
	rootCmd.PersistentFlags().StringVar(&redisAddrFlag, "redis-addr", "",
		"Redis address for the redis store")

	listCmd.Flags().StringVar(&searchFlag, "search", "", "Only show leads whose name or company contains this text")
	listCmd.Flags().StringVar(&statusFlag, "status", "", "Status filter: all, new, contacted, qualified or unqualified")
	listCmd.Flags().StringVar(&sortFlag, "sort", "", "Score order: asc or desc")
	listCmd.Flags().IntVar(&pagesFlag, "pages", 1, "Number of pages of 20 leads to print")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(resetFiltersCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
