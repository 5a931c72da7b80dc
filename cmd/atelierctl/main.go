// Command atelierctl runs operator tasks against the Atelier database:
// bootstrapping back-office admins, seeding the product catalog and listing
// partners.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	adminapp "github.com/luminform/atelier/internal/application/admin"
	catalogapp "github.com/luminform/atelier/internal/application/catalog"
	partnerapp "github.com/luminform/atelier/internal/application/partner"
	"github.com/luminform/atelier/internal/domain/shared"
	"github.com/luminform/atelier/internal/infrastructure/config"
	"github.com/luminform/atelier/internal/infrastructure/logger"
	"github.com/luminform/atelier/internal/infrastructure/persistence"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// adminPasswordEnv is read when --password is not given
const adminPasswordEnv = "ATELIER_ADMIN_PASSWORD"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type options struct {
	logLevel string
	timeout  time.Duration
	log      *zap.Logger
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          "atelierctl",
		Short:        "Operator tasks for Atelier Luminform",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			log, err := logger.New(&logger.Config{
				Level:      opts.logLevel,
				Format:     "console",
				Output:     "stderr",
				TimeFormat: "2006-01-02 15:04:05",
			})
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			opts.log = log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if opts.log != nil {
				_ = logger.Sync(opts.log)
			}
		},
	}
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", time.Minute, "overall timeout of the command")

	root.AddCommand(newCreateAdminCmd(opts), newSeedCatalogCmd(opts), newListPartnersCmd(opts))
	return root
}

func newCreateAdminCmd(opts *options) *cobra.Command {
	var req adminapp.CreateUserRequest
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create a back-office admin user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if req.Password == "" {
				req.Password = os.Getenv(adminPasswordEnv)
			}
			if len(req.Password) < 8 {
				return fmt.Errorf("password must be at least 8 characters (use --password or %s)", adminPasswordEnv)
			}
			return withDatabase(cmd.Context(), opts, func(ctx context.Context, db *persistence.Database) error {
				users := adminapp.NewUserService(persistence.NewGormAdminUserRepository(db.DB), opts.log)
				user, err := users.Create(ctx, req)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created %s admin %s (%s)\n", user.Role, user.Email, user.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&req.Email, "email", "", "login email")
	cmd.Flags().StringVar(&req.DisplayName, "name", "", "display name")
	cmd.Flags().StringVar(&req.Role, "role", "super_admin", "role (super_admin, operations, support, finance)")
	cmd.Flags().StringVar(&req.Password, "password", "", "initial password, defaults to $"+adminPasswordEnv)
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newSeedCatalogCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "seed-catalog <file.json>",
		Short: "Create catalog products from a JSON array; existing SKUs are skipped",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			products, err := parseCatalog(f)
			if err != nil {
				return err
			}
			return withDatabase(cmd.Context(), opts, func(ctx context.Context, db *persistence.Database) error {
				service := catalogapp.NewProductService(persistence.NewGormProductRepository(db.DB), opts.log)
				created, skipped, err := seedCatalog(ctx, service, products)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d products created, %d already present\n", created, skipped)
				return nil
			})
		},
	}
}

// productCreator is the part of the product service used for seeding
type productCreator interface {
	Create(ctx context.Context, req catalogapp.CreateProductRequest) (*catalogapp.ProductResponse, error)
}

func parseCatalog(r io.Reader) ([]catalogapp.CreateProductRequest, error) {
	var products []catalogapp.CreateProductRequest
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&products); err != nil {
		return nil, fmt.Errorf("invalid catalog file: %w", err)
	}
	if len(products) == 0 {
		return nil, errors.New("catalog file contains no products")
	}
	return products, nil
}

func seedCatalog(ctx context.Context, service productCreator, products []catalogapp.CreateProductRequest) (created, skipped int, err error) {
	for _, p := range products {
		if _, err := service.Create(ctx, p); err != nil {
			if errors.Is(err, shared.ErrAlreadyExists) {
				skipped++
				continue
			}
			return created, skipped, fmt.Errorf("product %s: %w", p.SKU, err)
		}
		created++
	}
	return created, skipped, nil
}

func newListPartnersCmd(opts *options) *cobra.Command {
	var status, search string
	var limit int
	cmd := &cobra.Command{
		Use:   "list-partners",
		Short: "List partners, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDatabase(cmd.Context(), opts, func(ctx context.Context, db *persistence.Database) error {
				service := partnerapp.NewService(
					persistence.NewGormPartnerRepository(db.DB),
					persistence.NewGormPartnerUserRepository(db.DB),
					nil, nil, nil, 0, opts.log)

				filter := shared.DefaultFilter()
				filter.PageSize = limit
				filter.Search = search
				if status != "" {
					filter.Filters["status"] = status
				}
				partners, total, err := service.List(ctx, filter)
				if err != nil {
					return err
				}
				return printPartners(cmd.OutOrStdout(), partners, total)
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "only partners in this status")
	cmd.Flags().StringVar(&search, "search", "", "match name, slug or contact email")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum rows (up to 100)")
	return cmd
}

func printPartners(w io.Writer, partners []partnerapp.PartnerResponse, total int64) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSLUG\tNAME\tTYPE\tSTATUS\tCONTACT\tCREATED")
	for _, p := range partners {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			p.ID, p.Slug, p.Name, p.BusinessType, p.Status, p.ContactEmail, p.CreatedAt.Format("2006-01-02"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d of %d partners\n", len(partners), total)
	return err
}

func withDatabase(parent context.Context, opts *options, fn func(context.Context, *persistence.Database) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	db, err := persistence.NewDatabase(&cfg.Database, opts.log, persistence.Options{LogLevel: gormlogger.Warn})
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			opts.log.Warn("Failed to close database", zap.Error(err))
		}
	}()

	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithTimeout(parent, opts.timeout)
	defer cancel()
	return fn(ctx, db)
}
