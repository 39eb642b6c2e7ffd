package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

const dayFormat = "2006-01-02"

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("deployment_status",
			mcp.WithDescription("Get the most recent deployment record, including per-service results and logs"),
		),
		s.handleDeploymentStatus,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("monitor_report",
			mcp.WithDescription("Get the production monitor's daily health report"),
			mcp.WithString("date",
				mcp.Description("Report date as YYYY-MM-DD, defaults to today"),
			),
		),
		s.handleMonitorReport,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("recent_alerts",
			mcp.WithDescription("Get the most recent monitoring alerts for a day"),
			mcp.WithString("date",
				mcp.Description("Alert log date as YYYY-MM-DD, defaults to today"),
			),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of alerts to return, newest last (default 10)"),
			),
		),
		s.handleRecentAlerts,
	)
}

func (s *Server) handleDeploymentStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, name, err := s.cfg.Store.LatestDeployment()
	if err != nil {
		if os.IsNotExist(err) {
			return mcp.NewToolResultText("No deployments recorded yet"), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("Failed to read deployment records: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Latest deployment record (%s):\n%s", name, data)), nil
}

func (s *Server) handleMonitorReport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	day, errResult := dayParam(req)
	if errResult != nil {
		return errResult, nil
	}

	data, err := s.cfg.Store.DailyReport(day)
	if err != nil {
		if os.IsNotExist(err) {
			return mcp.NewToolResultText(fmt.Sprintf("No monitor report for %s", day.Format(dayFormat))), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("Failed to read monitor report: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleRecentAlerts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	day, errResult := dayParam(req)
	if errResult != nil {
		return errResult, nil
	}
	limit := req.GetInt("limit", 10)
	if limit <= 0 {
		limit = 10
	}

	data, err := s.cfg.Store.AlertLog(day)
	if err != nil {
		if os.IsNotExist(err) {
			return mcp.NewToolResultText(fmt.Sprintf("No alerts recorded for %s", day.Format(dayFormat))), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("Failed to read alert log: %v", err)), nil
	}

	var alerts []json.RawMessage
	if err := json.Unmarshal(data, &alerts); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Alert log for %s is corrupt: %v", day.Format(dayFormat), err)), nil
	}
	if len(alerts) > limit {
		alerts = alerts[len(alerts)-limit:]
	}

	out, err := json.MarshalIndent(alerts, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode alerts: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

// dayParam reads the optional date argument, defaulting to today.
func dayParam(req mcp.CallToolRequest) (time.Time, *mcp.CallToolResult) {
	raw := req.GetString("date", "")
	if raw == "" {
		return time.Now(), nil
	}
	day, err := time.Parse(dayFormat, raw)
	if err != nil {
		return time.Time{}, mcp.NewToolResultError(fmt.Sprintf("Invalid date %q, expected YYYY-MM-DD", raw))
	}
	return day, nil
}
