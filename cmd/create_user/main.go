// create_user bootstraps an account directly against the database, typically
// the first admin before anyone can log in.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"astra/telemetry-backend/internal/config"
	"astra/telemetry-backend/internal/constants"
	"astra/telemetry-backend/internal/db"
	"astra/telemetry-backend/internal/db/repositories"
	"astra/telemetry-backend/internal/logging"
	"astra/telemetry-backend/internal/models/dtos"
	"astra/telemetry-backend/internal/services"
)

func main() {
	username := flag.String("username", "", "login name (required)")
	email := flag.String("email", "", "email address (required)")
	password := flag.String("password", "", "password, at least 8 characters (required)")
	role := flag.String("role", string(constants.RoleAdmin), "admin, operator or viewer")
	firstName := flag.String("first-name", "", "first name")
	lastName := flag.String("last-name", "", "last name")
	flag.Parse()

	if *username == "" || *email == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := logging.Init(cfg.AppEnv); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logging.Close()

	gdb, err := db.Open(cfg)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	users := services.NewUserService(repositories.NewUserRepositoryGORM(gdb))
	u, err := users.Create(context.Background(), dtos.CreateUserReq{
		Username:        *username,
		Email:           *email,
		FirstName:       *firstName,
		LastName:        *lastName,
		Role:            constants.Role(*role),
		Password:        *password,
		PasswordConfirm: *password,
	})
	if err != nil {
		var se *services.ServiceError
		if errors.As(err, &se) && len(se.Fields) > 0 {
			for field, msg := range se.Fields {
				fmt.Fprintf(os.Stderr, "  %s: %s\n", field, msg)
			}
		}
		log.Fatalf("create user: %v", err)
	}

	fmt.Printf("Created %s %q (id %d)\n", u.Role, u.Username, u.ID)
}
