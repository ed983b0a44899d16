// create-user registers an account directly in the database.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/repospector/repospector/backend/internal/service"
	"github.com/repospector/repospector/backend/internal/storage/pg"
	"github.com/repospector/repospector/backend/internal/utils/email"
	"github.com/repospector/repospector/shared/config"
	"github.com/repospector/repospector/shared/domain"
	sharedpg "github.com/repospector/repospector/shared/storage/pg"
)

// readPassword is replaced in tests.
var readPassword = term.ReadPassword

func main() {
	var (
		configFolder string
		userEmail    string
		name         string
		admin        bool
	)
	flag.StringVar(&configFolder, "config_folder", "backend/config", "path to folder with configs")
	flag.StringVar(&userEmail, "email", "", "email of the new user")
	flag.StringVar(&name, "name", "", "display name used in emails")
	flag.BoolVar(&admin, "admin", false, "grant admin rights")
	flag.Parse()

	if userEmail == "" {
		color.Red("-email is required")
		os.Exit(2)
	}

	if err := run(configFolder, domain.User{Email: userEmail, Name: name, Admin: admin}, os.Stdout); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func run(configFolder string, user domain.User, w io.Writer) error {
	private, err := config.LoadPrivate(configFolder)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	password, err := promptPassword(w)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	storage, err := pg.New(ctx, private.Pg, sharedpg.LightweightConnectionConfig())
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer storage.Cleanup()

	auth := service.NewAuth(storage, email.NewSMTP(&private.Email), nil)
	id, err := auth.CreateUser(ctx, user, domain.Password(password))
	if err != nil {
		return err
	}

	color.New(color.FgGreen).Fprintf(w, "Created user %s (%s)\n", user.Email, id)
	if user.Admin {
		color.New(color.FgYellow).Fprintln(w, "User has admin rights")
	}
	return nil
}

func promptPassword(w io.Writer) ([]byte, error) {
	fmt.Fprint(w, "Password: ")
	first, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, fmt.Errorf("read password: %w", err)
	}

	fmt.Fprint(w, "Repeat password: ")
	second, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, fmt.Errorf("read password: %w", err)
	}

	if !bytes.Equal(first, second) {
		return nil, fmt.Errorf("passwords do not match")
	}
	return first, nil
}
