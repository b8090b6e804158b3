package config

import (
	"context"
	"log/slog"
	"os"
	"time"

	"citysync-be/models"
	"citysync-be/repositories"
)

// defaultEmployees are the department workers created on first start so a
// fresh install can assign issues right away. Passwords are hashed before
// insertion like any registered account.
var defaultEmployees = []struct {
	name       string
	email      string
	department string
}{
	{"Water Dept Officer", "water@citysync.local", "water"},
	{"Road Dept Officer", "road@citysync.local", "road"},
	{"Sanitation Dept Officer", "sanitation@citysync.local", "sanitation"},
	{"Electricity Dept Officer", "electricity@citysync.local", "electricity"},
}

// SeedEmployees inserts the default employees when the collection is empty.
func SeedEmployees(ctx context.Context, employees repositories.EmployeeRepository, logger *slog.Logger) error {
	count, err := employees.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	password := os.Getenv("SEED_EMPLOYEE_PASSWORD")
	if password == "" {
		password = "changeme123"
	}

	for _, seed := range defaultEmployees {
		email := seed.email
		employee := models.Employee{
			Name:       seed.name,
			Email:      &email,
			Password:   password,
			Department: seed.department,
			CreatedAt:  time.Now(),
			UpdatedAt:  time.Now(),
		}
		if err := employee.HashPassword(); err != nil {
			return err
		}
		if err := employees.Create(ctx, &employee); err != nil {
			return err
		}
		logger.Info("seeded employee", "department", seed.department)
	}
	return nil
}
