package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/steelcity-drags/roster-api/internal/adapters/httpapi"
	"github.com/steelcity-drags/roster-api/internal/adapters/postgres"
	"github.com/steelcity-drags/roster-api/internal/app/exports"
	"github.com/steelcity-drags/roster-api/internal/app/imports"
	"github.com/steelcity-drags/roster-api/internal/bootstrap"
	"github.com/steelcity-drags/roster-api/internal/domain"
	"github.com/steelcity-drags/roster-api/internal/platform/auth/jwtverifier"
	platformclock "github.com/steelcity-drags/roster-api/internal/platform/clock"
	"github.com/steelcity-drags/roster-api/internal/platform/config"
	"github.com/steelcity-drags/roster-api/internal/platform/logging"
)

// globals are the persistent flags shared by every subcommand.
type globals struct {
	envFile  string
	subject  string
	role     string
	logLevel string
}

func (g *globals) principal() (domain.Principal, error) {
	r := domain.Role(g.role)
	if !r.Valid() {
		return domain.Principal{}, fmt.Errorf("--role must be one of admin, full_editor, member_editor")
	}
	return domain.Principal{Subject: domain.SubjectID(g.subject), Role: r}, nil
}

// session is an opened backend plus the services over it.
type session struct {
	stores *bootstrap.Stores
	svcs   httpapi.Services
	policy *config.Policy
	log    *zap.Logger
}

func (g *globals) open(ctx context.Context, migrate bool) (*session, error) {
	if err := config.LoadDotEnv(g.envFile); err != nil {
		return nil, err
	}
	cfg, err := config.LoadServerConfigFromEnv()
	if err != nil {
		return nil, err
	}
	log, err := logging.New(g.logLevel, false)
	if err != nil {
		return nil, err
	}
	policy, err := config.LoadPolicy(cfg.PolicyPath)
	if err != nil {
		return nil, err
	}
	stores, err := bootstrap.OpenStores(ctx, cfg, migrate)
	if err != nil {
		return nil, err
	}
	if stores.Pool == nil {
		log.Warn("STORAGE_BACKEND=memory; changes are discarded when rosterctl exits")
	}
	svcs := bootstrap.NewServices(stores, policy, platformclock.NewSystemClockIn(policy.Location()), nil, log)
	return &session{stores: stores, svcs: svcs, policy: policy, log: log}, nil
}

func (s *session) Close() {
	s.stores.Close()
	_ = s.log.Sync()
}

func rootCmd() *cobra.Command {
	g := &globals{}
	cmd := &cobra.Command{
		Use:           "rosterctl",
		Short:         "Club roster administration",
		SilenceUsage:  true,
		SilenceErrors: true,
		Long: `rosterctl manages the club roster outside the HTTP API.

Storage is selected the same way as the api binary (STORAGE_BACKEND, DATABASE_URL),
and the roster policy file is read from ROSTER_CONFIG.`,
	}
	cmd.PersistentFlags().StringVar(&g.envFile, "env-file", ".env", "Env file loaded before reading configuration")
	cmd.PersistentFlags().StringVar(&g.subject, "subject", "rosterctl", "Subject recorded as the acting user")
	cmd.PersistentFlags().StringVar(&g.role, "role", string(domain.RoleAdmin), "Role of the acting user")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		migrateCmd(g),
		seedOptionsCmd(g),
		importCmd(g),
		exportCmd(g),
		statsCmd(g),
		pruneKeysCmd(g),
		tokenCmd(g),
	)
	return cmd
}

func migrateCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the Postgres schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := g.open(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer s.Close()
			if s.stores.Pool == nil {
				return fmt.Errorf("migrate requires STORAGE_BACKEND=postgres")
			}
			if err := postgres.Migrate(cmd.Context(), s.stores.Pool); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema applied")
			return nil
		},
	}
}

func seedOptionsCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "seed-options",
		Short: "Seed default vehicle statuses and reasons into empty option types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := g.open(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer s.Close()
			n, err := s.svcs.Options.SeedDefaults(cmd.Context(), s.policy.OptionDefaults())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d options\n", n)
			return nil
		},
	}
}

func importCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "import <member|vehicle> <file.csv>",
		Short: "Import members or vehicles from a CSV file",
		Long: `Import members or vehicles from a CSV file ("-" reads stdin).

The result, including every failed row, is printed as JSON.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := imports.ParseKind(args[0])
			if err != nil {
				return err
			}
			p, err := g.principal()
			if err != nil {
				return err
			}
			src, closeSrc, err := openInput(cmd, args[1])
			if err != nil {
				return err
			}
			defer closeSrc()

			s, err := g.open(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer s.Close()

			res, err := s.svcs.Imports.Import(cmd.Context(), p, kind, src)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
}

func exportCmd(g *globals) *cobra.Command {
	var (
		output        string
		receiveEmails string
		receiveSMS    string
		interest      string
		filter        string
	)
	cmd := &cobra.Command{
		Use:   "export <members|report>",
		Short: "Export members or the member report as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := g.principal()
			if err != nil {
				return err
			}
			s, err := g.open(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer s.Close()

			var f exports.File
			switch args[0] {
			case "members":
				filters, ferr := memberFilters(receiveEmails, receiveSMS, interest)
				if ferr != nil {
					return ferr
				}
				f, err = s.svcs.Exports.ExportMembers(cmd.Context(), p, filters)
			case "report":
				f, err = s.svcs.Exports.ExportReport(cmd.Context(), p, filter)
			default:
				return fmt.Errorf("unknown export %q (want members or report)", args[0])
			}
			if err != nil {
				return err
			}

			if output == "" {
				output = f.Filename
			}
			if output == "-" {
				_, err = cmd.OutOrStdout().Write(f.Content)
				return err
			}
			if err := os.WriteFile(output, f.Content, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d rows to %s\n", f.Rows, output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", `Output path ("-" for stdout, default: generated filename)`)
	cmd.Flags().StringVar(&receiveEmails, "receive-emails", "", "Only members with this receive_emails value (true|false)")
	cmd.Flags().StringVar(&receiveSMS, "receive-sms", "", "Only members with this receive_sms value (true|false)")
	cmd.Flags().StringVar(&interest, "interest", "", "Only members with this interest")
	cmd.Flags().StringVar(&filter, "filter", "all", "Report filter (all, unfinancial, with_vehicle, unfinancial_with_vehicle)")
	return cmd
}

func statsCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print dashboard statistics as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := g.principal()
			if err != nil {
				return err
			}
			s, err := g.open(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer s.Close()
			stats, err := s.svcs.Reports.Dashboard(cmd.Context(), p)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), stats)
		},
	}
}

func pruneKeysCmd(g *globals) *cobra.Command {
	var olderThan time.Duration
	cmd := &cobra.Command{
		Use:   "prune-keys",
		Short: "Delete stored import responses older than --older-than",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if olderThan <= 0 {
				return fmt.Errorf("--older-than must be positive")
			}
			s, err := g.open(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer s.Close()
			n, err := s.stores.Idem.Prune(cmd.Context(), time.Now().Add(-olderThan))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d idempotency records\n", n)
			return nil
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 24*time.Hour, "Age beyond which records are removed")
	return cmd
}

func tokenCmd(g *globals) *cobra.Command {
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for --subject and --role signed with JWT_SECRET",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.LoadDotEnv(g.envFile); err != nil {
				return err
			}
			p, err := g.principal()
			if err != nil {
				return err
			}
			secret := os.Getenv("JWT_SECRET")
			if secret == "" {
				return fmt.Errorf("JWT_SECRET is required")
			}
			issuer := os.Getenv("JWT_ISSUER")
			if issuer == "" {
				issuer = "roster-api"
			}
			tok, err := jwtverifier.New(config.AuthConfig{Secret: secret, Issuer: issuer}).Mint(p, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", 12*time.Hour, "Token lifetime")
	return cmd
}

func openInput(cmd *cobra.Command, path string) (io.Reader, func(), error) {
	if path == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

func memberFilters(receiveEmails, receiveSMS, interest string) (exports.MemberFilters, error) {
	var f exports.MemberFilters
	var err error
	if f.ReceiveEmails, err = parseBoolFlag("receive-emails", receiveEmails); err != nil {
		return f, err
	}
	if f.ReceiveSMS, err = parseBoolFlag("receive-sms", receiveSMS); err != nil {
		return f, err
	}
	if interest != "" {
		i := domain.Interest(interest)
		f.Interest = &i
	}
	return f, nil
}

func parseBoolFlag(name, v string) (*bool, error) {
	switch v {
	case "":
		return nil, nil
	case "true":
		b := true
		return &b, nil
	case "false":
		b := false
		return &b, nil
	}
	return nil, fmt.Errorf("--%s must be true or false", name)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
