package common

import "time"

// Discord color constants
const (
	ColorPrimary = 0x5865F2 // Discord blurple
	ColorSuccess = 0x57F287 // Green
	ColorDanger  = 0xED4245 // Red
	ColorError   = 0xED4245 // Red (alias for ColorDanger)
	ColorWarning = 0xFEE75C // Yellow
	ColorInfo    = 0x3498DB // Blue
	ColorGold    = 0xF1C40F
)

// Currency display
const (
	CurrencyName  = "coins"
	CurrencyEmoji = "🪙"
)

// InteractionTimeout bounds the work done for a single slash command
const InteractionTimeout = 10 * time.Second

// Embed limits
const (
	MaxPlayersListed = 20
	DrawHistoryLimit = 5
)
