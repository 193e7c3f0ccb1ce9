// ABOUTME: MCP resource implementations for the training log.
// ABOUTME: Provides lift://recent, lift://readiness and lift://records resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/lift/internal/models"
)

func (s *Server) registerResources() {
	// lift://recent - Last 10 workouts
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "lift://recent",
		Name:        "Recent Workouts",
		Description: "Last 10 logged workouts",
		MIMEType:    "application/json",
	}, s.handleRecentResource)

	// lift://readiness - Current readiness summary
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "lift://readiness",
		Name:        "Training Readiness",
		Description: "Acute:chronic load ratio, readiness score and suggestion",
		MIMEType:    "application/json",
	}, s.handleReadinessResource)

	// lift://records - Personal records for every catalog exercise
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "lift://records",
		Name:        "Personal Records",
		Description: "Best estimated 1RM, heaviest weight, most reps and best set volume per exercise",
		MIMEType:    "application/json",
	}, s.handleRecordsResource)
}

// Resource handlers

func (s *Server) handleRecentResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	workouts, err := s.svc.Repository().ListWorkouts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list workouts: %w", err)
	}
	if len(workouts) > 10 {
		workouts = workouts[:10]
	}
	return jsonResource("lift://recent", map[string]any{
		"workouts": workouts,
		"count":    len(workouts),
	})
}

func (s *Server) handleReadinessResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	r, err := s.svc.Readiness(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute readiness: %w", err)
	}
	return jsonResource("lift://readiness", r)
}

func (s *Server) handleRecordsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	exercises, err := s.svc.Repository().ListExercises(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list exercises: %w", err)
	}

	type entry struct {
		Exercise string         `json:"exercise"`
		Records  models.Records `json:"records"`
	}
	var out []entry
	for _, ex := range exercises {
		r, _, err := s.svc.Records(ctx, ex.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get records: %w", err)
		}
		if r.IsEmpty() {
			continue
		}
		out = append(out, entry{Exercise: ex.Name, Records: r})
	}
	return jsonResource("lift://records", map[string]any{"records": out})
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
