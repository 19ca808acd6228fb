package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/pomo/pkg/coordinator"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	registerTimerStatusTool(srv, svc)
	registerTimerControlTools(srv, svc)
	registerCompletePomodoroTool(srv, svc)
	registerUpdateSettingsTool(srv, svc)
	registerListTasksTool(srv, svc)
	registerAddTaskTool(srv, svc)
	registerMoveTaskTool(srv, svc)
	registerDeleteTaskTool(srv, svc)
	registerSetCurrentTaskTool(srv, svc)
	registerGetPlanTool(srv, svc)
	registerAssignTaskTool(srv, svc)
	registerUnassignSlotTool(srv, svc)
	registerDayStatsTool(srv, svc)
}

func registerTimerStatusTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"timer_status",
		mcp.WithDescription("Show the pomodoro timer: session, remaining time, cycle and current task."),
	)

	srv.AddTool(tool, func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dto, err := svc.TimerStatus(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerTimerControlTools(srv *server.MCPServer, svc *Service) {
	for _, c := range []struct {
		name   string
		desc   string
		action coordinator.Action
	}{
		{"start_timer", "Start or resume the pomodoro timer.", coordinator.ActionStart},
		{"pause_timer", "Pause the pomodoro timer, keeping the elapsed time.", coordinator.ActionStop},
		{"reset_timer", "Reset to a fresh work session in the first cycle.", coordinator.ActionReset},
	} {
		action := c.action
		srv.AddTool(mcp.NewTool(c.name, mcp.WithDescription(c.desc)),
			func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				dto, err := svc.Control(ctx, action)
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}
				return toJSONResult(dto)
			})
	}
}

func registerCompletePomodoroTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"complete_pomodoro",
		mcp.WithDescription("Credit one finished pomodoro to the current plan slot, or to the current task when nothing is planned."),
	)

	srv.AddTool(tool, func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dto, err := svc.CompletePomodoro(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerUpdateSettingsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"update_settings",
		mcp.WithDescription("Change session lengths, cycles or sound. Lengths are minutes, or seconds in debug mode. Values are clamped to the allowed ranges."),
		mcp.WithNumber("workDuration", mcp.Description("Work session length.")),
		mcp.WithNumber("shortBreakDuration", mcp.Description("Short break length.")),
		mcp.WithNumber("longBreakDuration", mcp.Description("Long break length.")),
		mcp.WithBoolean("debugMode", mcp.Description("Count lengths in seconds.")),
		mcp.WithNumber("totalCycles", mcp.Description("Work sessions in a run, 1 to 10.")),
		mcp.WithNumber("longBreakInterval", mcp.Description("Long break after this many work sessions, 2 to 8.")),
		mcp.WithBoolean("soundEnabled", mcp.Description("Play a sound when a session ends.")),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args SettingsDTO
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		snap, err := svc.UpdateSettings(ctx, args)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"timeSettings":  snap.TimeSettings,
			"cycleSettings": snap.CycleSettings,
			"soundEnabled":  snap.Settings.SoundEnabled,
		})
	})
}

func registerListTasksTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_tasks",
		mcp.WithDescription("List tasks on the kanban board."),
		mcp.WithString("status",
			mcp.Description("Only list tasks with this status."),
			mcp.Enum("backlog", "doing", "done"),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tasks, err := svc.ListTasks(ctx, request.GetString("status", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{"tasks": tasks, "count": len(tasks)})
	})
}

func registerAddTaskTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"add_task",
		mcp.WithDescription("Add a task to the backlog."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Short name of the task."),
		),
		mcp.WithString("description",
			mcp.Description("Optional longer description."),
		),
		mcp.WithNumber("estimate",
			mcp.Description("Pomodoros the task is expected to take, at least 1."),
		),
		mcp.WithArray("tags",
			mcp.Description("Optional tags."),
			mcp.WithStringItems(),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Name        string   `json:"name"`
			Description string   `json:"description"`
			Estimate    int      `json:"estimate"`
			Tags        []string `json:"tags"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		dto, err := svc.AddTask(ctx, args.Name, args.Description, args.Estimate, args.Tags)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerMoveTaskTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"move_task",
		mcp.WithDescription("Move a task between backlog, doing and done. Moving to doing makes it the current task."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Task id, unique id prefix or name."),
		),
		mcp.WithString("status",
			mcp.Required(),
			mcp.Enum("backlog", "doing", "done"),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		status, err := request.RequireString("status")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.MoveTask(ctx, id, status)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerDeleteTaskTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"delete_task",
		mcp.WithDescription("Delete a task and free its slots in today's plan."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Task id, unique id prefix or name."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := svc.DeleteTask(ctx, id); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText("deleted"), nil
	})
}

func registerSetCurrentTaskTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"set_current_task",
		mcp.WithDescription("Choose the task finished pomodoros are credited to. Omit id to clear it."),
		mcp.WithString("id",
			mcp.Description("Task id, unique id prefix or name."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dto, err := svc.SetCurrentTask(ctx, request.GetString("id", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerGetPlanTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_plan",
		mcp.WithDescription("Show the pomodoro slots of a day plan."),
		mcp.WithString("date",
			mcp.Description("Day as YYYY-MM-DD, defaults to today."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dto, err := svc.Plan(ctx, request.GetString("date", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerAssignTaskTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"assign_task",
		mcp.WithDescription("Plan a task into today's slots, filling one slot per estimated pomodoro from the given slot on."),
		mcp.WithString("slot",
			mcp.Required(),
			mcp.Description("Slot id or 1-based position."),
		),
		mcp.WithString("task",
			mcp.Required(),
			mcp.Description("Task id, unique id prefix or name."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		slot, err := request.RequireString("slot")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		ref, err := request.RequireString("task")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.AssignTask(ctx, slot, ref)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerUnassignSlotTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"unassign_slot",
		mcp.WithDescription("Free a slot of today's plan and every other slot of its task."),
		mcp.WithString("slot",
			mcp.Required(),
			mcp.Description("Slot id or 1-based position."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		slot, err := request.RequireString("slot")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.UnassignSlot(ctx, slot)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerDayStatsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"day_stats",
		mcp.WithDescription("Planned and completed pomodoros of a day."),
		mcp.WithString("date",
			mcp.Description("Day as YYYY-MM-DD, defaults to today."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		stats, err := svc.Statistics(ctx, request.GetString("date", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(stats)
	})
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
