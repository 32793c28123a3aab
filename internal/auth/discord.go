package auth

import (
	"context"
	"fmt"

	"github.com/PancyStudios/DiscordNova/pkg/logger"
	"github.com/bwmarrin/discordgo"
	"golang.org/x/oauth2"
)

// Discord OAuth endpoints
var discordEndpoint = oauth2.Endpoint{
	AuthURL:   "https://discord.com/oauth2/authorize",
	TokenURL:  "https://discord.com/api/oauth2/token",
	AuthStyle: oauth2.AuthStyleInParams,
}

// Guild is a guild the user belongs to, as reported by Discord.
type Guild struct {
	ID          string
	Name        string
	Icon        string
	Owner       bool
	Permissions int64
}

// CanManage reports whether the user owns the guild or administers it.
func (g Guild) CanManage() bool {
	return g.Owner || g.Permissions&discordgo.PermissionAdministrator != 0
}

// Identity is the result of a successful code exchange.
type Identity struct {
	ID            string
	Username      string
	Discriminator string
	Avatar        string
	AccessToken   string
	RefreshToken  string
	Guilds        []Guild
}

// Exchanger turns an OAuth authorization code into a Discord identity.
type Exchanger interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (Identity, error)
}

// DiscordExchanger talks to the Discord API.
type DiscordExchanger struct {
	config *oauth2.Config
}

// NewDiscordExchanger creates an exchanger for the application credentials.
func NewDiscordExchanger(clientID, clientSecret, redirectURI string) *DiscordExchanger {
	return &DiscordExchanger{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Scopes:       []string{"identify", "guilds"},
			Endpoint:     discordEndpoint,
		},
	}
}

// AuthCodeURL returns the URL that starts the OAuth flow.
func (d *DiscordExchanger) AuthCodeURL(state string) string {
	return d.config.AuthCodeURL(state)
}

// Exchange redeems the code and loads the user and their guilds.
func (d *DiscordExchanger) Exchange(ctx context.Context, code string) (Identity, error) {
	token, err := d.config.Exchange(ctx, code)
	if err != nil {
		return Identity{}, fmt.Errorf("canjear código: %w", err)
	}

	session, err := discordgo.New("Bearer " + token.AccessToken)
	if err != nil {
		return Identity{}, fmt.Errorf("crear sesión: %w", err)
	}

	user, err := session.User("@me", discordgo.WithContext(ctx))
	if err != nil {
		return Identity{}, fmt.Errorf("leer usuario: %w", err)
	}

	// Without the guild list the user can still sign in; no servers are
	// registered for them this time.
	userGuilds, err := session.UserGuilds(100, "", "", false, discordgo.WithContext(ctx))
	if err != nil {
		logger.Warn(fmt.Sprintf("No se pudieron leer los servidores de %s: %v", user.Username, err), "Auth")
		userGuilds = nil
	}

	identity := newIdentity(user, token, userGuilds)
	logger.Debug(fmt.Sprintf("OAuth completado para %s (%d servidores)", user.Username, len(identity.Guilds)), "Auth")
	return identity, nil
}

// newIdentity assembles the exchange result. userGuilds may be nil.
func newIdentity(user *discordgo.User, token *oauth2.Token, userGuilds []*discordgo.UserGuild) Identity {
	guilds := make([]Guild, 0, len(userGuilds))
	for _, g := range userGuilds {
		guilds = append(guilds, Guild{
			ID:          g.ID,
			Name:        g.Name,
			Icon:        g.Icon,
			Owner:       g.Owner,
			Permissions: g.Permissions,
		})
	}
	return Identity{
		ID:            user.ID,
		Username:      user.Username,
		Discriminator: user.Discriminator,
		Avatar:        user.Avatar,
		AccessToken:   token.AccessToken,
		RefreshToken:  token.RefreshToken,
		Guilds:        guilds,
	}
}
