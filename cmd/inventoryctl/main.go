// cmd/inventoryctl/main.go
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/inventory-admin/internal/config"
	"github.com/javajoker/inventory-admin/internal/database"
	"github.com/javajoker/inventory-admin/internal/utils"
)

const usage = `Usage: inventoryctl <command> [flags]

Commands:
  migrate                       create or update the database schema
  seed                          insert the default product types
  token -email <e> [-name <n>]  ensure a user exists and print a bearer token for it
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	db, err := database.Initialize(cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize database")
	}
	defer database.Close(db)

	if err := run(db, cfg, os.Args[1], os.Args[2:]); err != nil {
		logrus.WithError(err).Error("Command failed")
		database.Close(db)
		os.Exit(1)
	}
}

func run(db *gorm.DB, cfg *config.Config, command string, args []string) error {
	switch command {
	case "migrate":
		return database.RunMigrations(db)

	case "seed":
		created, err := database.SeedProductTypes(db)
		if err != nil {
			return err
		}
		fmt.Printf("%d product types created\n", created)
		return nil

	case "token":
		fs := flag.NewFlagSet("token", flag.ContinueOnError)
		email := fs.String("email", "", "user email")
		name := fs.String("name", "", "user name, defaults to the email")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if *email == "" {
			return errors.New("-email is required")
		}

		user, err := database.EnsureUser(db, *email, *name)
		if err != nil {
			return err
		}

		utils.SetJWTSecret(cfg.JWT.SecretKey)
		token, err := utils.GenerateJWT(user.ID, user.Email, cfg.JWT.AccessTokenTTL)
		if err != nil {
			return fmt.Errorf("failed to sign token: %w", err)
		}
		fmt.Println(token)
		return nil

	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}
