// Command admin bootstraps an administrator account against the configured
// database. The regular registration endpoint requires no privileges, but
// user management does, so the first admin has to come from outside the API.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"golang.org/x/term"

	"github.com/dmitrijs2005/cfsexam/internal/dbx"
	"github.com/dmitrijs2005/cfsexam/internal/flagx"
	"github.com/dmitrijs2005/cfsexam/internal/server/config"
	"github.com/dmitrijs2005/cfsexam/internal/server/db"
	"github.com/dmitrijs2005/cfsexam/internal/server/models"
	"github.com/dmitrijs2005/cfsexam/internal/server/users"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// getPassword reads the admin password from the terminal without echo.
func getPassword(w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, "Enter password: "); err != nil {
		return "", err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

func main() {

	args := flagx.FilterArgs(os.Args[1:], []string{"-email", "-username", "-full-name", "-birth-date", "-rank"})

	fs := flag.NewFlagSet("admin", flag.ExitOnError)
	email := fs.String("email", "", "admin email (required)")
	username := fs.String("username", "", "admin username (defaults to the email local part)")
	fullName := fs.String("full-name", "", "admin full name (required)")
	birthDateRaw := fs.String("birth-date", "", "admin birth date, YYYY-MM-DD (required)")
	rank := fs.String("rank", "", "admin rank (optional)")
	if err := fs.Parse(args); err != nil {
		log.Fatalf("%v", err)
	}

	cfg := config.LoadConfig()
	ctx := context.Background()

	birthDate, err := models.ParseBirthDate(*birthDateRaw)
	if err != nil {
		log.Fatalf("%v", err)
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		log.Fatalf("reading password: %v", err)
	}

	conn, err := db.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer conn.Close()

	// The duplicate pre-checks and the insert run in one transaction.
	err = dbx.WithTx(ctx, conn, nil, func(ctx context.Context, tx dbx.DBTX) error {
		svc := users.NewService(users.NewPostgresRepository(tx), cfg)

		admin, err := svc.Register(ctx, users.RegisterParams{
			Username:  *username,
			Email:     *email,
			Password:  password,
			FullName:  *fullName,
			BirthDate: birthDate,
			Role:      string(models.RoleAdmin),
			Rank:      *rank,
		})
		if err != nil {
			return err
		}

		fmt.Printf("created admin %q (%s)\n", admin.Username, admin.ID)
		return nil
	})
	if err != nil {
		log.Fatalf("%v", err)
	}
}
