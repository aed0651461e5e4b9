// Package admin implements pressroom-admin, the operator CLI: schema
// migrations and creation of users without going through the public API.
package admin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/pressroom/internal/logging"
	"github.com/dmitrijs2005/pressroom/internal/server/auth"
	"github.com/dmitrijs2005/pressroom/internal/server/config"
	"github.com/dmitrijs2005/pressroom/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/pressroom/internal/server/services"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"
)

// Admin holds the configuration and the seams the commands run through.
type Admin struct {
	config  *config.Config
	out     io.Writer
	logger  logging.Logger
	manager repomanager.RepositoryManager

	openDB       func(dsn string) (*sql.DB, error)
	readPassword func(fd int) ([]byte, error)
}

func New(cfg *config.Config, out io.Writer) *Admin {
	return &Admin{
		config:  cfg,
		out:     out,
		logger:  logging.NewJSONLogger(os.Stderr, slog.LevelWarn),
		manager: repomanager.NewPostgresRepositoryManager(),
		openDB: func(dsn string) (*sql.DB, error) {
			return sql.Open("pgx", dsn)
		},
		readPassword: term.ReadPassword,
	}
}

// App builds the urfave/cli application.
func (a *Admin) App() *cli.App {
	return &cli.App{
		Name:      "pressroom-admin",
		Usage:     "pressroom maintenance tool",
		Writer:    a.out,
		ErrWriter: a.out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to JSON config file",
			},
			&cli.StringFlag{
				Name:    "dsn",
				Aliases: []string{"d"},
				Usage:   "PostgreSQL DSN (overrides config)",
			},
		},
		Before: func(c *cli.Context) error {
			if c.IsSet("dsn") {
				a.config.DatabaseDSN = c.String("dsn")
			}
			if a.config.DatabaseDSN == "" {
				return errors.New("database dsn is empty")
			}
			return nil
		},
		Commands: []*cli.Command{
			a.migrateCommand(),
			a.createUserCommand(),
		},
	}
}

func (a *Admin) migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply pending schema migrations",
		Action: func(c *cli.Context) error {
			return a.withDB(c.Context, func(ctx context.Context, db *sql.DB) error {
				if err := a.manager.RunMigrations(ctx, db); err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
				fmt.Fprintln(a.out, "Migrations applied")
				return nil
			})
		},
	}
}

func (a *Admin) createUserCommand() *cli.Command {
	return &cli.Command{
		Name:  "create-user",
		Usage: "Create a user; the password is read from the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "email",
				Aliases:  []string{"e"},
				Usage:    "email of the new user",
				Required: true,
			},
		},
		Action: func(c *cli.Context) error {
			fmt.Fprint(a.out, "Enter password: ")
			pw, err := a.readPassword(int(os.Stdin.Fd()))
			fmt.Fprintln(a.out)
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}

			hasher, err := auth.NewBcryptHasher(a.config.BcryptCost)
			if err != nil {
				return err
			}

			return a.withDB(c.Context, func(ctx context.Context, db *sql.DB) error {
				us := services.NewUserService(db, a.manager, hasher, a.logger)
				u, err := us.Create(ctx, c.String("email"), string(pw))
				if err != nil {
					return fmt.Errorf("create user: %w", err)
				}
				fmt.Fprintf(a.out, "Created user %d <%s>\n", u.ID, u.Email)
				return nil
			})
		},
	}
}

func (a *Admin) withDB(ctx context.Context, fn func(ctx context.Context, db *sql.DB) error) error {
	db, err := a.openDB(a.config.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	defer db.Close()

	return fn(ctx, db)
}
