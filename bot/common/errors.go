package common

import (
	"errors"
	"fmt"

	"lotterypool/domain"
	"lotterypool/domain/entities"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// BotError represents a structured error with user-facing and internal messages
type BotError struct {
	UserMessage string // Message shown to Discord user
	LogMessage  string // Internal message for logging
	Ephemeral   bool
	UserCaused  bool
	Err         error
}

// Error implements the error interface
func (e *BotError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.LogMessage, e.Err)
	}
	return e.LogMessage
}

// Unwrap returns the underlying error
func (e *BotError) Unwrap() error {
	return e.Err
}

// NewUserError creates an error for user-caused issues (validation, insufficient funds, etc)
func NewUserError(userMessage string, err error) *BotError {
	return &BotError{
		UserMessage: userMessage,
		LogMessage:  "Rejected bot command",
		Ephemeral:   true,
		UserCaused:  true,
		Err:         err,
	}
}

// NewSystemError creates an error for system issues (database, unexpected state, etc)
func NewSystemError(err error, logMessage string) *BotError {
	return &BotError{
		UserMessage: "Something went wrong. Please try again later.",
		LogMessage:  logMessage,
		Ephemeral:   true,
		Err:         err,
	}
}

// ToBotError translates domain errors into messages a Discord user can act on.
// Anything unrecognised becomes a system error.
func ToBotError(err error) *BotError {
	var botErr *BotError
	if errors.As(err, &botErr) {
		return botErr
	}

	switch {
	case errors.Is(err, domain.ErrTransferFailure):
		return NewUserError("The payout to the winner failed, so the draw was cancelled. The pool is unchanged.", err)
	case errors.Is(err, domain.ErrInsufficientStake):
		return NewUserError(fmt.Sprintf("The minimum entry is %s.", FormatCoinsWithUnit(entities.MinimumEntry)), err)
	case errors.Is(err, domain.ErrInvalidAmount):
		return NewUserError("Please enter a valid amount, e.g. `0.02`.", err)
	case errors.Is(err, domain.ErrUnauthorized):
		return NewUserError("Only the pool manager can draw a winner.", err)
	case errors.Is(err, domain.ErrNoParticipants):
		return NewUserError("Nobody has entered this round yet.", err)
	case errors.Is(err, domain.ErrPoolNotFound):
		return NewUserError("This server has no pool yet. Use `/pool create` to start one.", err)
	case errors.Is(err, domain.ErrPoolAlreadyExists):
		return NewUserError("This server already has a pool.", err)
	case errors.Is(err, domain.ErrInsufficientFunds):
		return NewUserError("You don't have enough coins for that.", err)
	case errors.Is(err, domain.ErrAccountFrozen):
		return NewUserError("Your account is frozen.", err)
	}
	return NewSystemError(err, "Unexpected error in bot command")
}

// RespondWithError sends an error message as an interaction response
func RespondWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("❌ %s", message),
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Error sending error response: %v", err)
	}
}

// UpdateMessageWithError replaces a deferred response with an error message
func UpdateMessageWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	content := fmt.Sprintf("❌ %s", message)
	_, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content: &content,
		Embeds:  &[]*discordgo.MessageEmbed{},
	})
	if err != nil {
		log.Errorf("Error updating deferred response with error: %v", err)
	}
}

// HandleError logs err and tells the user what went wrong
func HandleError(s *discordgo.Session, i *discordgo.InteractionCreate, err error, deferred bool) {
	botErr := ToBotError(err)

	fields := log.Fields{
		"command":      i.ApplicationCommandData().Name,
		"error":        botErr.Error(),
		"user_message": botErr.UserMessage,
	}
	if user := InteractionUser(i); user != nil {
		fields["user_id"] = user.ID
	}

	if botErr.UserCaused {
		log.WithFields(fields).Debug(botErr.LogMessage)
	} else {
		log.WithFields(fields).Error(botErr.LogMessage)
	}

	if deferred {
		UpdateMessageWithError(s, i, botErr.UserMessage)
	} else {
		RespondWithError(s, i, botErr.UserMessage)
	}
}
