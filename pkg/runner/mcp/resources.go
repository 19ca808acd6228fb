package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerResources(srv *server.MCPServer, svc *Service) {
	registerTimerResource(srv, svc)
	registerTasksResource(srv, svc)
	registerTodayResource(srv, svc)
	registerPlanTemplate(srv, svc)
}

func registerTimerResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"pomo://timer",
		"Timer",
		mcp.WithResourceDescription("The running pomodoro timer with its cycle and current task."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		dto, err := svc.TimerStatus(ctx)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, dto)
	})
}

func registerTasksResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"pomo://tasks",
		"Tasks",
		mcp.WithResourceDescription("Every task on the kanban board."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		tasks, err := svc.ListTasks(ctx, "")
		if err != nil {
			return nil, err
		}
		payload := map[string]any{
			"tasks": tasks,
			"count": len(tasks),
		}
		return encodeResourceJSON(request.Params.URI, payload)
	})
}

func registerTodayResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"pomo://plans/today",
		"Today's Plan",
		mcp.WithResourceDescription("Pomodoro slots planned for today."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		dto, err := svc.Plan(ctx, "")
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, dto)
	})
}

func registerPlanTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"pomo://plans/{date}",
		"Day Plan",
		mcp.WithTemplateDescription("Pomodoro slots of a day given as YYYY-MM-DD."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		date := argument(request.Params.Arguments["date"])
		if date == "" {
			return nil, fmt.Errorf("date is required")
		}
		dto, err := svc.Plan(ctx, date)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, dto)
	})
}

// argument unwraps a template variable, which may arrive as a string or a
// list of strings.
func argument(v any) string {
	switch a := v.(type) {
	case string:
		return a
	case []string:
		if len(a) > 0 {
			return a[0]
		}
	}
	return ""
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
