package handler

import (
	"context"
	"encoding/json"
	"fmt"

	"go-bookstore-backoffice/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// CommandFunc runs one domain method against a raw JSON payload
type CommandFunc func(ctx context.Context, payload json.RawMessage) (any, error)

// Command is the request envelope of POST /command
type Command struct {
	Cmd     string          `json:"cmd"`
	Method  string          `json:"method"`
	Payload json.RawMessage `json:"payload"`
}

// legacy kebab-case method names kept for older callers
var methodAliases = map[string]string{
	"create-in-stock": "createInStock",
	"update-stock":    "updateStock",
	"create-order":    "createOrder",
}

type CommandHandler struct {
	routes map[string]CommandFunc
	log    *logger.Logger
}

func NewCommandHandler(baseLog *logger.Logger) *CommandHandler {
	return &CommandHandler{
		routes: make(map[string]CommandFunc),
		log:    baseLog.With("component", "CommandHandler"),
	}
}

// Mount registers every method of one domain. Re-mounting a method replaces it.
func (h *CommandHandler) Mount(domain string, methods map[string]CommandFunc) {
	for method, fn := range methods {
		h.routes[domain+"."+method] = fn
	}
}

func (h *CommandHandler) Dispatch(ctx context.Context, cmd Command) (any, error) {
	method := cmd.Method
	if alias, found := methodAliases[method]; found {
		method = alias
	}
	fn, found := h.routes[cmd.Cmd+"."+method]
	if !found {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownCommand, cmd.Cmd, cmd.Method)
	}
	return fn(ctx, cmd.Payload)
}

func (h *CommandHandler) Handle(c *fiber.Ctx) error {
	var cmd Command
	if err := c.BodyParser(&cmd); err != nil {
		return fail(c, h.log, "command", errPayload)
	}

	op := cmd.Cmd + "." + cmd.Method
	result, err := h.Dispatch(c.UserContext(), cmd)
	if err != nil {
		return fail(c, h.log, op, err)
	}
	return ok(c, result)
}
