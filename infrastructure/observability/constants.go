package observability

// Metric name prefixes
const (
	MetricPrefix = "lotterypool"
)

// Metric names
const (
	// Pool metrics
	PoolEntriesTotal  = MetricPrefix + ".pool.entries_total"
	PoolDrawsTotal    = MetricPrefix + ".pool.draws_total"
	PoolPayoutVolume  = MetricPrefix + ".pool.payout_volume"
	PoolRejectedTotal = MetricPrefix + ".pool.rejected_total"
	PoolStakeVolume   = MetricPrefix + ".pool.stake_volume"

	// NATS metrics
	NATSMessagesPublishedTotal = MetricPrefix + ".nats.messages_published_total"

	// HTTP metrics
	HTTPRequestsTotal   = MetricPrefix + ".http.requests_total"
	HTTPRequestDuration = MetricPrefix + ".http.request_duration"
)

// Label keys
const (
	LabelEventType = "event_type"
	LabelOperation = "operation"
	LabelReason    = "reason"

	// HTTP labels
	LabelMethod = "method"
	LabelRoute  = "route"
	LabelStatus = "status"
)

// Operations
const (
	OperationDeploy     = "deploy"
	OperationEnter      = "enter"
	OperationPickWinner = "pick_winner"
	OperationFund       = "fund"
)

// Rejection reasons
const (
	ReasonInsufficientStake = "insufficient_stake"
	ReasonUnauthorized      = "unauthorized"
	ReasonNoParticipants    = "no_participants"
	ReasonTransferFailure   = "transfer_failure"
	ReasonInsufficientFunds = "insufficient_funds"
	ReasonAccountFrozen     = "account_frozen"
	ReasonNotFound          = "not_found"
	ReasonAlreadyExists     = "already_exists"
	ReasonInvalidInput      = "invalid_input"
	ReasonInternal          = "internal"
)
