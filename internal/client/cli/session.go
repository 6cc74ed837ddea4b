package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/iudanet/skirent/internal/client/auth"
	"github.com/iudanet/skirent/internal/client/storage"
)

func (c *Cli) runLogin(ctx context.Context, token, shopID string) error {
	if token == "" {
		var err error
		token, err = c.io.ReadPassword("Access token: ")
		if err != nil {
			return fmt.Errorf("failed to read token: %w", err)
		}
	}

	session, err := c.authService.Login(ctx, token, shopID)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			return fmt.Errorf("token has already expired, request a new one")
		}
		return err
	}

	c.io.Println("✓ Logged in")
	c.printSession(session)
	return nil
}

func (c *Cli) runLogout(ctx context.Context) error {
	if err := c.authService.Logout(ctx); err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			c.io.Println("Not logged in.")
			return nil
		}
		return err
	}

	c.io.Println("✓ Logged out. Queued operations stay on this device until the next login.")
	return nil
}

func (c *Cli) printSession(session *storage.Session) {
	if session.Username != "" {
		c.io.Printf("Operator:      %s\n", session.Username)
	}
	if session.ShopID != "" {
		c.io.Printf("Shop:          %s\n", session.ShopID)
	}

	if session.ExpiresAt == 0 {
		c.io.Println("Token expires: unknown")
		return
	}

	expiresAt := time.Unix(session.ExpiresAt, 0)
	if c.now().After(expiresAt) {
		c.io.Printf("Token expired: %s. Run 'skirent login' again.\n", humanize.RelTime(expiresAt, c.now(), "ago", "from now"))
		return
	}
	c.io.Printf("Token expires: %s (%s)\n", expiresAt.Format(time.RFC3339), humanize.RelTime(expiresAt, c.now(), "ago", "from now"))
}
