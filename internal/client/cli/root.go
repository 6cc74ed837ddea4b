package cli

import (
	"context"
	"log/slog"

	"github.com/iudanet/skirent/internal/client/iocli"
	"github.com/iudanet/skirent/internal/config"
	"github.com/iudanet/skirent/internal/models"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Options configures the root command
type Options struct {
	IO      iocli.IO
	Logger  *slog.Logger
	Level   *slog.LevelVar // Level уровень логгера, выставляется из конфига перед запуском команды
	Version string
}

type runner struct {
	opts  Options
	viper *viper.Viper
}

// NewRootCommand builds the skirent command tree
func NewRootCommand(opts Options) *cobra.Command {
	if opts.IO == nil {
		opts.IO = iocli.NewStdio()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	r := &runner{opts: opts, viper: viper.New()}

	root := &cobra.Command{
		Use:           "skirent",
		Short:         "Offline-first point of sale client for the ski rental backend",
		Version:       opts.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringP("config", "c", "", "config file (default ~/.skirent/config.json)")
	flags.StringP("server", "s", "", "backend URL")
	flags.StringP("data-dir", "d", "", "directory holding the local replica")
	flags.Bool("offline", false, "start offline: never call the backend")
	flags.String("log-level", "", "debug, info, warn or error")

	root.AddCommand(
		r.newLoginCmd(),
		r.newLogoutCmd(),
		r.newStatusCmd(),
		r.newDownloadCmd(),
		r.newSyncCmd(),
		r.newListCmd(),
		r.newCustomerCmd(),
		r.newRentalCmd(),
	)
	return root
}

// run loads the configuration, opens the client and runs fn against it
func (r *runner) run(fn func(ctx context.Context, c *Cli, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(r.viper, cmd)
		if err != nil {
			return err
		}

		if r.opts.Level != nil {
			level, _ := config.ParseLevel(cfg.LogLevel) // уровень уже проверен в Validate
			r.opts.Level.Set(level)
		}

		app, err := Open(cmd.Context(), cfg, r.opts.IO, r.opts.Logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := app.Close(); err != nil {
				r.opts.Logger.Error("failed to close local storage", "error", err)
			}
		}()

		return fn(cmd.Context(), app.Cli, args)
	}
}

func (r *runner) newLoginCmd() *cobra.Command {
	var token, shop string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store the bearer token issued by the backend",
		Args:  cobra.NoArgs,
		RunE: r.run(func(ctx context.Context, c *Cli, _ []string) error {
			return c.runLogin(ctx, token, shop)
		}),
	}
	cmd.Flags().StringVar(&token, "token", "", "access token (prompted when omitted)")
	cmd.Flags().StringVar(&shop, "shop", "", "shop identifier")
	return cmd
}

func (r *runner) newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored token",
		Args:  cobra.NoArgs,
		RunE: r.run(func(ctx context.Context, c *Cli, _ []string) error {
			return c.runLogout(ctx)
		}),
	}
}

func (r *runner) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show session, last sync and queued operations",
		Args:  cobra.NoArgs,
		RunE: r.run(func(ctx context.Context, c *Cli, _ []string) error {
			return c.runStatus(ctx)
		}),
	}
}

func (r *runner) newDownloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "download",
		Short: "Replace the local replica with a full server snapshot",
		Args:  cobra.NoArgs,
		RunE: r.run(func(ctx context.Context, c *Cli, _ []string) error {
			return c.runDownload(ctx)
		}),
	}
}

func (r *runner) newSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Send queued operations to the server in order",
		Args:  cobra.NoArgs,
		RunE: r.run(func(ctx context.Context, c *Cli, _ []string) error {
			return c.runSync(ctx)
		}),
	}
}

func (r *runner) newListCmd() *cobra.Command {
	var filter listFilter
	cmd := &cobra.Command{
		Use:   "list <collection>",
		Short: "List records from the local replica",
		Long:  "Collections: customers, items, rentals, tariffs, packs, sources, item-types.",
		Args:  cobra.ExactArgs(1),
		RunE: r.run(func(ctx context.Context, c *Cli, args []string) error {
			return c.runList(ctx, args[0], filter)
		}),
	}
	cmd.Flags().StringVar(&filter.Search, "search", "", "customers: name, DNI or phone prefix")
	cmd.Flags().IntVar(&filter.Limit, "limit", 0, "customers: maximum number of results")
	cmd.Flags().StringVar(&filter.Status, "status", "", "items, rentals: status")
	cmd.Flags().StringVar(&filter.ItemTypeID, "type", "", "items: item type id")
	cmd.Flags().StringVar(&filter.Code, "code", "", "items: barcode")
	cmd.Flags().StringVar(&filter.CustomerID, "customer", "", "rentals: customer id")
	return cmd
}

func (r *runner) newCustomerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customer",
		Short: "Manage customers",
	}

	var customer models.Customer
	save := &cobra.Command{
		Use:   "save",
		Short: "Create a customer, or update it when --id is given",
		Args:  cobra.NoArgs,
		RunE: r.run(func(ctx context.Context, c *Cli, _ []string) error {
			return c.runSaveCustomer(ctx, customer)
		}),
	}
	f := save.Flags()
	f.StringVar(&customer.ID, "id", "", "existing customer id (server or temporary)")
	f.StringVar(&customer.Name, "name", "", "full name")
	f.StringVar(&customer.DNI, "dni", "", "identity document number")
	f.StringVar(&customer.Phone, "phone", "", "phone number")
	f.StringVar(&customer.Email, "email", "", "email")
	f.StringVar(&customer.Address, "address", "", "address")
	f.StringVar(&customer.Notes, "notes", "", "notes")

	cmd.AddCommand(save)
	return cmd
}

func (r *runner) newRentalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rental",
		Short: "Create rentals and process returns",
	}

	var (
		rental models.Rental
		items  []string
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a rental and mark its items rented",
		Args:  cobra.NoArgs,
		RunE: r.run(func(ctx context.Context, c *Cli, _ []string) error {
			lines, err := parseRentalItems(items)
			if err != nil {
				return err
			}
			rental.Items = lines
			return c.runCreateRental(ctx, rental)
		}),
	}
	f := create.Flags()
	f.StringVar(&rental.CustomerID, "customer", "", "customer id (server or temporary)")
	f.StringArrayVar(&items, "item", nil, "item_id[:tariff_id[:price]], repeatable")
	f.StringVar(&rental.ExpectedEndDate, "until", "", "expected return date")
	f.StringVar(&rental.PaymentMethod, "payment", "", "payment method")
	f.Float64Var(&rental.Deposit, "deposit", 0, "deposit amount")
	f.Float64Var(&rental.Total, "total", 0, "total amount")
	f.StringVar(&rental.SourceID, "source", "", "customer source id")
	f.StringVar(&rental.Notes, "notes", "", "notes")

	var ret models.ReturnRequest
	returnCmd := &cobra.Command{
		Use:   "return <rental-id>",
		Short: "Return all items of a rental, or only the ones given with --item",
		Args:  cobra.ExactArgs(1),
		RunE: r.run(func(ctx context.Context, c *Cli, args []string) error {
			ret.RentalID = args[0]
			return c.runReturn(ctx, ret)
		}),
	}
	rf := returnCmd.Flags()
	rf.StringArrayVar(&ret.ItemIDs, "item", nil, "item id to return, repeatable")
	rf.Float64Var(&ret.ExtraCharges, "extra", 0, "extra charges")
	rf.StringVar(&ret.Notes, "notes", "", "notes")

	cmd.AddCommand(create, returnCmd)
	return cmd
}
