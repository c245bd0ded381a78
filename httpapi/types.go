// Package httpapi is the HTTP/admin facade (spec §6): it translates
// outside requests into scheduler command calls. None of the core
// simulation algorithm lives here.
package httpapi

// RegisterRequest is the POST /api/register body.
type RegisterRequest struct {
	Name       string `json:"name" validate:"required,min=1,max=20"`
	AIFunction string `json:"aiFunction" validate:"required,min=1,max=10000"`
}

// RegisterResponse is the POST /api/register response.
type RegisterResponse struct {
	SnakeID string `json:"snakeId"`
	Color   string `json:"color"`
	Message string `json:"message"`
}

// SubmitRequest is the POST /api/submit body.
type SubmitRequest struct {
	SnakeID    string `json:"snakeId" validate:"required"`
	AIFunction string `json:"aiFunction" validate:"required,min=1,max=10000"`
}

// ConfigPatch is the POST /api/admin/config body — every field is a
// pointer so only present keys are applied (spec §6's partial-update
// semantics).
type ConfigPatch struct {
	TickRateMs     *int     `json:"tickRateMs" validate:"omitempty,min=20,max=1000"`
	ArenaRadius    *float64 `json:"arenaRadius" validate:"omitempty,min=500,max=10000"`
	RespawnOnDeath *bool    `json:"respawnOnDeath"`
	RespawnDelayMs *int     `json:"respawnDelayMs" validate:"omitempty,min=0,max=30000"`
	SnakeSpeed     *float64 `json:"snakeSpeed" validate:"omitempty,min=1,max=20"`
	MaxTurnRate    *float64 `json:"maxTurnRate" validate:"omitempty,min=0.01,max=0.5"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// AIContractDoc is the machine-readable shape served from
// GET /api/docs/ai-contract (spec §6 "AI input contract").
type AIContractDoc struct {
	Entrypoint string   `json:"entrypoint"`
	Returns    []string `json:"returns"`
	Helpers    []string `json:"helpers"`
	Input      struct {
		You    []string `json:"you"`
		Arena  []string `json:"arena"`
		Snakes []string `json:"snakes"`
		Food   []string `json:"food"`
		Tick   string   `json:"tick"`
	} `json:"input"`
}
