package supabase

import (
	"fmt"

	"github.com/supabase-community/gotrue-go/types"
	"github.com/supabase-community/supabase-go"
	"audiobook-backend/internal/config"
)

// Client wraps the Supabase project client. Auth (signup) is delegated to its
// gotrue client; session verification happens in middleware against the
// project JWT secret.
type Client struct {
	Supabase *supabase.Client
	Config   *config.Config
}

func NewClient(cfg *config.Config) (*Client, error) {
	client, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabasePublishableKey, nil)
	if err != nil {
		return nil, err
	}

	return &Client{
		Supabase: client,
		Config:   cfg,
	}, nil
}

// SignUp creates an account with the auth collaborator. Verification happens
// out-of-band via the emailed link; no session is returned here.
func (c *Client) SignUp(email, password, displayName string) error {
	_, err := c.Supabase.Auth.Signup(types.SignupRequest{
		Email:    email,
		Password: password,
		Data: map[string]interface{}{
			"display_name": displayName,
		},
	})
	if err != nil {
		return fmt.Errorf("signup failed: %w", err)
	}
	return nil
}
