// Command provision ensures a privileged (admin or employee) account exists.
// When the account is created, the generated temporary credential is printed
// exactly once for operator handoff; it must be changed on first login.
// Running the command again for the same email is a no-op.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"dollers-electro/config"
	"dollers-electro/logger"
	"dollers-electro/seed"
	"dollers-electro/store"
)

func main() {
	_ = godotenv.Load()

	var (
		email      = flag.String("email", "", "account email (required)")
		username   = flag.String("username", "", "display username (defaults to the email's local part)")
		role       = flag.String("role", "admin", "account role: admin or employee")
		employeeID = flag.String("employee-id", "", "employee ID")
		department = flag.String("department", "", "department")
		position   = flag.String("position", "", "position title")
		supervisor = flag.String("supervisor", "", "supervisor user ID")
	)
	flag.Parse()

	if *email == "" {
		fmt.Fprintln(os.Stderr, "usage: provision -email admin@example.com [-role admin|employee]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx := context.Background()
	st, cleanup, err := store.Open(ctx, store.Options{
		Backend:  cfg.Store.Backend,
		DataDir:  cfg.Store.DataDir,
		Strict:   cfg.Store.Strict,
		MongoURI: cfg.Mongo.URI,
		MongoDB:  cfg.Mongo.Database,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open store")
	}
	defer cleanup()

	res, err := seed.EnsureAccount(ctx, st, log, seed.ProvisionRequest{
		Email:        *email,
		Username:     *username,
		Role:         *role,
		EmployeeID:   *employeeID,
		Department:   *department,
		Position:     *position,
		SupervisorID: *supervisor,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("provisioning failed")
	}

	if !res.Created {
		fmt.Printf("account %s already exists (role %s); credential untouched\n", res.User.Email, res.User.Role)
		return
	}

	fmt.Printf("created %s account %s\n", res.User.Role, res.User.Email)
	fmt.Printf("temporary password: %s\n", res.TempPassword)
	fmt.Println("this password must be changed on first login and will not be shown again")
}
