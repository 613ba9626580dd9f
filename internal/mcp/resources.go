// ABOUTME: MCP resource implementations for the practice log.
// ABOUTME: Provides the practice://summary dashboard resource.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/practice/internal/models"
	"github.com/harperreed/practice/internal/query"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const summaryURI = "practice://summary"

func (s *Server) registerResources() {
	// practice://summary - Stats, active goals and the latest sessions
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         summaryURI,
		Name:        "Practice Summary Dashboard",
		Description: "Practice stats, today's progress against the daily goal, active goals and recent sessions",
		MIMEType:    "application/json",
	}, s.handleSummaryResource)
}

// Resource handlers

func (s *Server) handleSummaryResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	now := time.Now()
	stats, err := s.stats(now)
	if err != nil {
		return nil, err
	}
	settings, err := s.app.Settings()
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	sessions, err := s.app.Records.GetItems(models.CollectionSessions, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	goals, err := s.app.Records.GetItems(models.CollectionGoals, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	cats, err := s.app.Records.GetItems(models.CollectionCategories, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	categories := models.Categories(cats)

	recent := query.Paginate(query.Run(sessions, categories, query.Criteria{}), 1, 5)
	active := query.Run(goals, categories, query.Criteria{Status: query.StatusActive})

	result := map[string]interface{}{
		"generated_at": now.Format(time.RFC3339),
		"stats":        stats,
		"daily_goal": map[string]int{
			"target_minutes": settings.DailyGoalMinutes,
			"today_minutes":  stats.TodayMinutes,
		},
		"active_goals":    models.Goals(active),
		"recent_sessions": models.Sessions(recent.Items),
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      summaryURI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
