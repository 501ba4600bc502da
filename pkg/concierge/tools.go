package concierge

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/tripkit-ai/tripkit/pkg/core/types"
)

// The closed set of tools declared to the model. Anything else the model
// asks for resolves to an explicit ignored result rather than an error, so
// a stale declaration can never crash a turn.
const (
	ToolNotifyHotel    = "notifyHotel"
	ToolGetBookingLink = "getBookingLink"
)

// BookingDomain hosts the booking links handed out by getBookingLink.
const BookingDomain = "booking.tripkit.ai"

// Declarations returns the fixed tool set declared at session creation.
func Declarations() []types.Tool {
	return []types.Tool{
		{
			Name:        ToolNotifyHotel,
			Description: "Notify the hotel about a delay or special request.",
			Parameters: types.ObjectSchema(map[string]string{
				"hotelName": "Name of the hotel",
				"message":   "Message to send to the hotel",
			}, "hotelName", "message"),
		},
		{
			Name:        ToolGetBookingLink,
			Description: "Get the booking link or QR code for a specific activity or hotel.",
			Parameters: types.ObjectSchema(map[string]string{
				"activityName": "Name of the activity or hotel",
			}, "activityName"),
		},
	}
}

// HotelNotifier delivers a message to an external hotel system. In this
// system delivery is fire-and-forget; a production deployment would need
// confirmation and retry.
type HotelNotifier interface {
	NotifyHotel(ctx context.Context, hotelName, message string) error
}

// LogNotifier is the in-repo HotelNotifier: it only logs the notification.
type LogNotifier struct {
	Logger *slog.Logger
}

// NotifyHotel implements HotelNotifier.
func (n LogNotifier) NotifyHotel(_ context.Context, hotelName, message string) error {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("notifying hotel", "hotel", hotelName, "message", message)
	return nil
}

// Dispatcher resolves model-requested tool calls against local handlers.
type Dispatcher struct {
	notifier HotelNotifier
	logger   *slog.Logger
}

// NewDispatcher creates a dispatcher. A nil notifier falls back to the
// logging notifier.
func NewDispatcher(notifier HotelNotifier, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = LogNotifier{Logger: logger}
	}
	return &Dispatcher{notifier: notifier, logger: logger}
}

// DispatchAll resolves calls sequentially in arrival order, producing one
// structured response per call in the same order.
func (d *Dispatcher) DispatchAll(ctx context.Context, calls []types.FunctionCall) []types.FunctionResponse {
	responses := make([]types.FunctionResponse, 0, len(calls))
	for _, call := range calls {
		responses = append(responses, d.Dispatch(ctx, call))
	}
	return responses
}

// Dispatch resolves one call to its structured result.
func (d *Dispatcher) Dispatch(ctx context.Context, call types.FunctionCall) types.FunctionResponse {
	switch call.Name {
	case ToolNotifyHotel:
		hotel := stringArg(call.Args, "hotelName")
		message := stringArg(call.Args, "message")
		if err := d.notifier.NotifyHotel(ctx, hotel, message); err != nil {
			// The declared contract is that notification cannot fail; a
			// notifier error is logged and still reported as delivered.
			d.logger.Warn("hotel notifier error", "hotel", hotel, "error", err)
		}
		return types.FunctionResponse{
			Name: call.Name,
			Response: map[string]any{
				"success": true,
				"details": fmt.Sprintf("Successfully notified %s.", hotel),
			},
		}

	case ToolGetBookingLink:
		activity := stringArg(call.Args, "activityName")
		return types.FunctionResponse{
			Name:     call.Name,
			Response: map[string]any{"link": BookingLink(activity)},
		}

	default:
		d.logger.Warn("ignoring unknown tool call", "tool", call.Name)
		return types.FunctionResponse{
			Name:     call.Name,
			Response: map[string]any{"ignored": true},
		}
	}
}

var nonSlugRun = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lower-cases name and collapses every run of characters outside
// [a-z0-9] into a single hyphen, trimming leading and trailing hyphens.
func Slugify(name string) string {
	return strings.Trim(nonSlugRun.ReplaceAllString(strings.ToLower(name), "-"), "-")
}

// BookingLink returns the booking URL for an activity or hotel name.
func BookingLink(activity string) string {
	return "https://" + BookingDomain + "/" + Slugify(activity)
}

func stringArg(args map[string]any, key string) string {
	if args == nil {
		return ""
	}
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}
