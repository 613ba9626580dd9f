// ABOUTME: MCP tool implementations for the practice log.
// ABOUTME: Provides listing through the query engine plus session, goal and category mutations.
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

func (s *Server) registerTools() {
	// list_records
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_records",
		Description: "List sessions, goals, media or categories, newest first, with optional category, status, search and date filters",
	}, s.handleListRecords)

	// add_session
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_session",
		Description: "Log a practice session",
	}, s.handleAddSession)

	// add_goal
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_goal",
		Description: "Create a practice goal",
	}, s.handleAddGoal)

	// toggle_goal
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "toggle_goal",
		Description: "Mark a goal completed, or active again, by ID or ID prefix",
	}, s.handleToggleGoal)

	// add_category
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_category",
		Description: "Create a practice category",
	}, s.handleAddCategory)

	// archive_category
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "archive_category",
		Description: "Archive a category so it is hidden from pickers but kept on past records",
	}, s.handleArchiveCategory)

	// delete_record
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_record",
		Description: "Delete a session, goal or media item by ID or ID prefix",
	}, s.handleDeleteRecord)

	// stats
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "stats",
		Description: "Practice totals, minutes per category, streak and the last seven days",
	}, s.handleStats)
}

// Tool input/output types

type listRecordsInput struct {
	Collection string `json:"collection" jsonschema:"One of sessions, goals, media, categories"`
	CategoryID string `json:"category_id,omitempty" jsonschema:"Only records in this category (all when empty)"`
	Status     string `json:"status,omitempty" jsonschema:"Goals: active or completed. Media: photo, video or note"`
	Search     string `json:"search,omitempty" jsonschema:"Case-insensitive text search"`
	StartDate  string `json:"start_date,omitempty" jsonschema:"Earliest date, YYYY-MM-DD, inclusive"`
	EndDate    string `json:"end_date,omitempty" jsonschema:"Latest date, YYYY-MM-DD, inclusive"`
	Page       int    `json:"page,omitempty" jsonschema:"Page number, starting at 1"`
	PageSize   int    `json:"page_size,omitempty" jsonschema:"Results per page (default 20)"`
}

type listRecordsOutput struct {
	Collection string           `json:"collection"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	Pages      int              `json:"pages"`
	HasMore    bool             `json:"has_more"`
	Items      []map[string]any `json:"items"`
}

type addSessionInput struct {
	CategoryID string `json:"category_id,omitempty" jsonschema:"Category ID or prefix"`
	Minutes    int    `json:"minutes" jsonschema:"Session length in minutes"`
	Notes      string `json:"notes,omitempty" jsonschema:"What was practiced"`
	StartTime  string `json:"start_time,omitempty" jsonschema:"Start timestamp (ISO 8601), defaults to now"`
}

type recordOutput struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

type addGoalInput struct {
	Title       string `json:"title" jsonschema:"Goal title"`
	Description string `json:"description,omitempty" jsonschema:"Longer description"`
	CategoryID  string `json:"category_id,omitempty" jsonschema:"Category ID or prefix"`
	DueDate     string `json:"due_date,omitempty" jsonschema:"Due date, YYYY-MM-DD"`
}

type idInput struct {
	ID string `json:"id" jsonschema:"Record ID or prefix"`
}

type addCategoryInput struct {
	Name         string `json:"name" jsonschema:"Category name"`
	InstrumentID string `json:"instrument_id,omitempty" jsonschema:"Instrument this category belongs to"`
}

type deleteRecordInput struct {
	Collection string `json:"collection" jsonschema:"One of sessions, goals, media"`
	ID         string `json:"id" jsonschema:"Record ID or prefix"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

type statsInput struct{}

// Tool handlers

func (s *Server) handleListRecords(ctx context.Context, req *mcp.CallToolRequest, input listRecordsInput) (*mcp.CallToolResult, listRecordsOutput, error) {
	c, err := models.ParseCollection(input.Collection)
	if err != nil {
		return nil, listRecordsOutput{}, err
	}
	if input.PageSize <= 0 {
		input.PageSize = s.app.ViewOptions().PageSize
	}

	records, err := s.app.Records.GetItems(c, true)
	if err != nil {
		return nil, listRecordsOutput{}, fmt.Errorf("failed to list %s: %w", c.Lower(), err)
	}
	cats, err := s.app.Records.GetItems(models.CollectionCategories, true)
	if err != nil {
		return nil, listRecordsOutput{}, fmt.Errorf("failed to list categories: %w", err)
	}

	criteria := query.Criteria{
		CategoryID: input.CategoryID,
		Status:     input.Status,
		Search:     input.Search,
		StartDate:  input.StartDate,
		EndDate:    input.EndDate,
	}
	page := query.Paginate(query.Run(records, models.Categories(cats), criteria), input.Page, input.PageSize)

	out := listRecordsOutput{
		Collection: c.Lower(),
		Total:      page.Total,
		Page:       page.Page,
		Pages:      page.Pages,
		HasMore:    page.HasMore,
		Items:      make([]map[string]any, 0, len(page.Items)),
	}
	for _, r := range page.Items {
		data, err := models.Encode(r)
		if err != nil {
			return nil, listRecordsOutput{}, err
		}
		var item map[string]any
		if err := json.Unmarshal(data, &item); err != nil {
			return nil, listRecordsOutput{}, err
		}
		out.Items = append(out.Items, item)
	}
	return nil, out, nil
}

func (s *Server) handleAddSession(ctx context.Context, req *mcp.CallToolRequest, input addSessionInput) (*mcp.CallToolResult, recordOutput, error) {
	if input.Minutes <= 0 {
		return nil, recordOutput{}, fmt.Errorf("minutes must be positive")
	}
	categoryID, err := s.resolveCategory(input.CategoryID)
	if err != nil {
		return nil, recordOutput{}, err
	}

	sess := models.NewSession(categoryID, time.Duration(input.Minutes)*time.Minute).WithNotes(input.Notes)
	if input.StartTime != "" {
		t, ok := models.ParseTime(input.StartTime, time.Local)
		if !ok {
			return nil, recordOutput{}, fmt.Errorf("invalid start_time: %s", input.StartTime)
		}
		sess.WithStartTime(t)
	}

	if err := s.app.Records.AddItem(models.CollectionSessions, sess); err != nil {
		return nil, recordOutput{}, fmt.Errorf("failed to add session: %w", err)
	}
	return nil, recordOutput{
		ID:      sess.ID,
		Message: fmt.Sprintf("Logged %d minute session (ID: %s)", input.Minutes, shortID(sess.ID)),
	}, nil
}

func (s *Server) handleAddGoal(ctx context.Context, req *mcp.CallToolRequest, input addGoalInput) (*mcp.CallToolResult, recordOutput, error) {
	if input.Title == "" {
		return nil, recordOutput{}, fmt.Errorf("title is required")
	}
	categoryID, err := s.resolveCategory(input.CategoryID)
	if err != nil {
		return nil, recordOutput{}, err
	}

	g := models.NewGoal(input.Title, categoryID)
	g.Description = input.Description
	if input.DueDate != "" {
		if _, err := time.Parse(models.DateLayout, input.DueDate); err != nil {
			return nil, recordOutput{}, fmt.Errorf("invalid due_date: %s", input.DueDate)
		}
		g.DueDate = input.DueDate
	}

	if err := s.app.Records.AddItem(models.CollectionGoals, g); err != nil {
		return nil, recordOutput{}, fmt.Errorf("failed to add goal: %w", err)
	}
	return nil, recordOutput{
		ID:      g.ID,
		Message: fmt.Sprintf("Added goal %q (ID: %s)", g.Title, shortID(g.ID)),
	}, nil
}

func (s *Server) handleToggleGoal(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, recordOutput, error) {
	id, err := s.app.Records.ResolveID(models.CollectionGoals, input.ID)
	if err != nil {
		return nil, recordOutput{}, fmt.Errorf("goal not found: %s", input.ID)
	}
	g, err := s.app.ToggleGoal(id)
	if err != nil {
		return nil, recordOutput{}, fmt.Errorf("failed to toggle goal: %w", err)
	}
	state := "active"
	if g.Completed {
		state = "completed"
	}
	return nil, recordOutput{
		ID:      g.ID,
		Message: fmt.Sprintf("Goal %q is now %s", g.Title, state),
	}, nil
}

func (s *Server) handleAddCategory(ctx context.Context, req *mcp.CallToolRequest, input addCategoryInput) (*mcp.CallToolResult, recordOutput, error) {
	if input.Name == "" {
		return nil, recordOutput{}, fmt.Errorf("name is required")
	}
	c := models.NewCategory(input.Name, input.InstrumentID)
	if err := s.app.Records.AddItem(models.CollectionCategories, c); err != nil {
		return nil, recordOutput{}, fmt.Errorf("failed to add category: %w", err)
	}
	return nil, recordOutput{
		ID:      c.ID,
		Message: fmt.Sprintf("Added category %q (ID: %s)", c.Name, shortID(c.ID)),
	}, nil
}

func (s *Server) handleArchiveCategory(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, simpleOutput, error) {
	id, err := s.app.Records.ResolveID(models.CollectionCategories, input.ID)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("category not found: %s", input.ID)
	}
	c, err := s.app.ArchiveCategory(id)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to archive category: %w", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Archived category %q", c.Name)}, nil
}

func (s *Server) handleDeleteRecord(ctx context.Context, req *mcp.CallToolRequest, input deleteRecordInput) (*mcp.CallToolResult, simpleOutput, error) {
	c, err := models.ParseCollection(input.Collection)
	if err != nil {
		return nil, simpleOutput{}, err
	}
	switch c {
	case models.CollectionSessions, models.CollectionGoals, models.CollectionMedia:
	default:
		return nil, simpleOutput{}, fmt.Errorf("cannot delete %s records with this tool", c.Lower())
	}

	id, err := s.app.Records.ResolveID(c, input.ID)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("%s not found: %s", c.Lower(), input.ID)
	}
	if c == models.CollectionMedia {
		err = s.app.DeleteMedia(ctx, id)
	} else {
		err = s.app.Records.DeleteItem(c, id)
	}
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete: %w", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Deleted %s: %s", c.Lower(), shortID(id))}, nil
}

func (s *Server) handleStats(ctx context.Context, req *mcp.CallToolRequest, input statsInput) (*mcp.CallToolResult, query.Stats, error) {
	stats, err := s.stats(time.Now())
	if err != nil {
		return nil, query.Stats{}, err
	}
	return nil, stats, nil
}

func (s *Server) stats(now time.Time) (query.Stats, error) {
	sessions, err := s.app.Records.GetItems(models.CollectionSessions, true)
	if err != nil {
		return query.Stats{}, fmt.Errorf("failed to list sessions: %w", err)
	}
	cats, err := s.app.Records.GetItems(models.CollectionCategories, true)
	if err != nil {
		return query.Stats{}, fmt.Errorf("failed to list categories: %w", err)
	}
	return query.Summarize(models.Sessions(sessions), models.Categories(cats), now), nil
}

// resolveCategory expands an optional category id prefix.
func (s *Server) resolveCategory(idOrPrefix string) (string, error) {
	if idOrPrefix == "" {
		return "", nil
	}
	id, err := s.app.Records.ResolveID(models.CollectionCategories, idOrPrefix)
	if err != nil {
		return "", fmt.Errorf("category not found: %s", idOrPrefix)
	}
	return id, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
