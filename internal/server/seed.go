package server

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// SeedDemo creates the demo account if it does not exist. Idempotent.
func SeedDemo(ctx context.Context, logger *slog.Logger, store Store) error {
	hash, err := bcrypt.GenerateFromPassword([]byte("demo-password"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = store.CreateUser(ctx, "demo", string(hash))
	if errors.Is(err, ErrUsernameTaken) {
		return nil
	}
	if err != nil {
		return err
	}

	logger.Info("demo user created", "username", "demo")
	return nil
}
