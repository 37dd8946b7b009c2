package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mhollis/festival-crew/internal/config"
	"github.com/mhollis/festival-crew/pkg/clients/mailclient"
	"github.com/mhollis/festival-crew/pkg/db"
	"github.com/mhollis/festival-crew/pkg/utils"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg      *config.Config
	Database db.Database
	Logger   *zap.Logger
	Ctx      context.Context
	Env      string

	mail *mailclient.Client
}

// MailSender builds the Gmail client on first use. Commands that never send
// mail then skip the OAuth flow entirely.
func (a *AppContext) MailSender() (mailclient.Sender, error) {
	if a.mail != nil {
		return a.mail, nil
	}

	oauthCfg, err := config.LoadOAuthClientWithEnv(a.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to load OAuth client config: %w", err)
	}

	oauthConfig, err := utils.GetOAuthConfig(oauthCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build OAuth config: %w", err)
	}

	token, err := utils.GetTokenWithFlow(a.Ctx, oauthConfig, a.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to obtain OAuth token: %w", err)
	}

	client, err := mailclient.NewClient(a.Ctx, oauthCfg, token, a.Cfg.GmailSender)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}

	a.mail = client
	return a.mail, nil
}
