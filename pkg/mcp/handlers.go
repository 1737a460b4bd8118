package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/unowned-ai/medtrack/pkg/calendar"
	"github.com/unowned-ai/medtrack/pkg/controller"
)

// ToolNames lists every registered tool, in registration order.
var ToolNames = []string{
	"ping",
	"get_day",
	"list_medications",
	"add_medication",
	"take_medication",
	"delete_medication",
	"add_event",
	"delete_event",
}

const dateDescription = "Day as YYYY-MM-DD. Defaults to today."

func (s *MedtrackMCPServer) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("ping",
		mcp.WithDescription("Responds with 'pong' to check if the medtrack MCP server is alive."),
	), pingHandler)

	s.mcpServer.AddTool(mcp.NewTool("get_day",
		mcp.WithDescription("Lists the medications and events of a day, sorted by time, with the action each one offers (take, taken, not_taken)."),
		mcp.WithString("date", mcp.Description(dateDescription)),
	), s.handleGetDay)

	s.mcpServer.AddTool(mcp.NewTool("list_medications",
		mcp.WithDescription("Lists every daily medication with its id and scheduled time."),
	), s.handleListMedications)

	s.mcpServer.AddTool(mcp.NewTool("add_medication",
		mcp.WithDescription("Adds a medication taken every day at the given time."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Name of the medication.")),
		mcp.WithString("time", mcp.Required(), mcp.Description("Scheduled time as HH:MM (24h).")),
	), s.handleAddMedication)

	s.mcpServer.AddTool(mcp.NewTool("take_medication",
		mcp.WithDescription("Marks a medication as taken on a day, at the current time. Future days are rejected; taking twice is a no-op."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Medication id.")),
		mcp.WithString("date", mcp.Description(dateDescription)),
	), s.handleTakeMedication)

	s.mcpServer.AddTool(mcp.NewTool("delete_medication",
		mcp.WithDescription("Deletes a medication and its taken history on every day."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Medication id.")),
		mcp.WithBoolean("confirm", mcp.Required(), mcp.Description("Must be true to delete.")),
	), s.handleDeleteMedication)

	s.mcpServer.AddTool(mcp.NewTool("add_event",
		mcp.WithDescription("Records an event on a day."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Name of the event.")),
		mcp.WithString("time", mcp.Description("Time as HH:MM (24h). Defaults to now.")),
		mcp.WithString("date", mcp.Description(dateDescription)),
	), s.handleAddEvent)

	s.mcpServer.AddTool(mcp.NewTool("delete_event",
		mcp.WithDescription("Deletes an event from the day it was recorded on."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Event id.")),
		mcp.WithString("date", mcp.Description(dateDescription)),
		mcp.WithBoolean("confirm", mcp.Required(), mcp.Description("Must be true to delete.")),
	), s.handleDeleteEvent)
}

// pingHandler is the simple handler for the ping tool.
func pingHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText("pong_medtrack"), nil
}

func (s *MedtrackMCPServer) handleGetDay(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.dispatch(ctx, request, controller.Request{Intent: controller.SelectDay}, false)
}

func (s *MedtrackMCPServer) handleListMedications(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return jsonResult(s.store.Medications())
}

func (s *MedtrackMCPServer) handleAddMedication(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.dispatch(ctx, request, controller.Request{
		Intent: controller.AddMedication,
		Name:   stringArg(request, "name"),
		Time:   stringArg(request, "time"),
	}, false)
}

func (s *MedtrackMCPServer) handleTakeMedication(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := idArg(request, "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.dispatch(ctx, request, controller.Request{Intent: controller.Take, ID: id}, false)
}

func (s *MedtrackMCPServer) handleDeleteMedication(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := idArg(request, "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.dispatch(ctx, request, controller.Request{Intent: controller.DeleteMedication, ID: id}, boolArg(request, "confirm"))
}

func (s *MedtrackMCPServer) handleAddEvent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.dispatch(ctx, request, controller.Request{
		Intent: controller.AddEvent,
		Name:   stringArg(request, "name"),
		Time:   stringArg(request, "time"),
	}, false)
}

func (s *MedtrackMCPServer) handleDeleteEvent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := idArg(request, "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.dispatch(ctx, request, controller.Request{Intent: controller.DeleteEvent, ID: id}, boolArg(request, "confirm"))
}

// dispatch runs one intent through a controller bound to this call and
// returns the resulting day as JSON. confirm answers any delete prompt.
func (s *MedtrackMCPServer) dispatch(ctx context.Context, request mcp.CallToolRequest, req controller.Request, confirm bool) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	date, err := dateArg(request, s.store.Today())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	req.Date = date

	var notices []string
	strip := calendar.NewStrip(calendar.NewBuilder(s.store.Today(), s.loc, s.cal), 0)
	ctl := controller.New(s.store, strip, s.loc,
		controller.WithConfirmer(controller.ConfirmFunc(func(string) bool { return confirm })),
		controller.WithNotifier(controller.NotifyFunc(func(msg string) { notices = append(notices, msg) })),
		controller.WithLogger(s.log),
	)

	if err := ctl.Dispatch(ctx, req); err != nil {
		s.log.Debug().Err(err).Str("intent", string(req.Intent)).Msg("tool call failed")
		if errors.Is(err, controller.ErrDeclined) {
			return mcp.NewToolResultError("Deletion not performed: set 'confirm' to true."), nil
		}
		if len(notices) > 0 && notices[0] != err.Error() {
			return mcp.NewToolResultError(fmt.Sprintf("%s (%v)", strings.Join(notices, " "), err)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(ctl.Day())
}
