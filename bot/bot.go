package bot

import (
	"fmt"

	"lotterypool/application"
	"lotterypool/bot/features/pool"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Config holds bot configuration
type Config struct {
	Token           string
	StartingBalance int64 // Base units credited to a Discord user's first account
}

// Bot manages the Discord session and the pool feature
type Bot struct {
	config  Config
	session *discordgo.Session

	pool *pool.Feature
}

// New opens a Discord session and registers the slash commands
func New(config Config, pools application.LotteryPoolHandler) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds

	bot := &Bot{
		config:  config,
		session: dg,
		pool:    pool.NewFeature(pools, config.StartingBalance),
	}

	dg.AddHandler(bot.handleCommands)
	dg.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.WithField("user", s.State.User.Username).Info("Discord bot connected")
	})

	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	return bot, nil
}

// Close gracefully shuts down the bot
func (b *Bot) Close() error {
	return b.session.Close()
}

// handleCommands routes slash commands to appropriate handlers
func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "pool":
		b.pool.HandleCommand(s, i)
	default:
		log.Warnf("Unknown command: %s", i.ApplicationCommandData().Name)
	}
}
