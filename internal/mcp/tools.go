// ABOUTME: MCP tool implementations for workouts and training analytics.
// ABOUTME: Logging, listing, records, plateau, readiness, volume, balance, block and optimizer tools.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/lift/internal/models"
	"github.com/harperreed/lift/internal/storage"
)

func (s *Server) registerTools() {
	// log_workout
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_workout",
		Description: "Log a finished workout and report any personal records it set",
	}, s.handleLogWorkout)

	// list_workouts
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_workouts",
		Description: "List recent workouts, newest first",
	}, s.handleListWorkouts)

	// get_workout
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_workout",
		Description: "Get a workout with all its exercises and sets",
	}, s.handleGetWorkout)

	// delete_workout
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_workout",
		Description: "Delete a workout by ID or ID prefix",
	}, s.handleDeleteWorkout)

	// get_records
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_records",
		Description: "Get personal records (estimated 1RM, heaviest weight, most reps, best set volume) for an exercise",
	}, s.handleGetRecords)

	// detect_plateau
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "detect_plateau",
		Description: "Check whether an exercise has stopped progressing",
	}, s.handleDetectPlateau)

	// readiness
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "readiness",
		Description: "Acute:chronic training load ratio and readiness score",
	}, s.handleReadiness)

	// volume_landmarks
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "volume_landmarks",
		Description: "Weekly work-set ranges per muscle derived from recent history",
	}, s.handleVolumeLandmarks)

	// muscle_balance
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "muscle_balance",
		Description: "Push/pull, chest/back and quads/hamstrings balance for the week and current block",
	}, s.handleMuscleBalance)

	// block_progress
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "block_progress",
		Description: "Adherence to the periodized block attached to a template",
	}, s.handleBlockProgress)

	// optimize_session
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "optimize_session",
		Description: "Trim a template's sets so the session fits a time limit",
	}, s.handleOptimizeSession)
}

// Tool input/output types

type setInput struct {
	Kg      float64 `json:"kg" jsonschema:"Weight in kilograms"`
	Reps    int     `json:"reps" jsonschema:"Repetitions performed"`
	SetType string  `json:"set_type,omitempty" jsonschema:"One of warmup, work, drop, failure, tempo, pause (default work)"`
}

type exerciseInput struct {
	Name string     `json:"name" jsonschema:"Exercise name, created in the catalog if new"`
	Sets []setInput `json:"sets" jsonschema:"Completed sets"`
}

type logWorkoutInput struct {
	Name      string          `json:"name,omitempty" jsonschema:"Workout name"`
	Date      string          `json:"date,omitempty" jsonschema:"Timestamp (ISO 8601), defaults to now"`
	Duration  int             `json:"duration_minutes,omitempty" jsonschema:"Duration in minutes"`
	Tags      []string        `json:"tags,omitempty" jsonschema:"Tags such as #stress or #sleep-bad"`
	Exercises []exerciseInput `json:"exercises" jsonschema:"Exercises performed"`
}

type logWorkoutOutput struct {
	ID       string   `json:"id"`
	Records  []string `json:"records,omitempty"`
	Feedback []string `json:"feedback"`
	Message  string   `json:"message"`
}

type listWorkoutsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type idInput struct {
	ID string `json:"id" jsonschema:"Workout ID or prefix"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

type exerciseRefInput struct {
	Exercise string `json:"exercise" jsonschema:"Exercise name, ID or ID prefix"`
}

type templateRefInput struct {
	Template string `json:"template" jsonschema:"Template name, ID or ID prefix"`
}

type optimizeInput struct {
	Template string  `json:"template" jsonschema:"Template name, ID or ID prefix"`
	Minutes  float64 `json:"minutes" jsonschema:"Time available in minutes"`
}

type noInput struct{}

// Tool handlers

func (s *Server) handleLogWorkout(ctx context.Context, req *mcp.CallToolRequest, input logWorkoutInput) (*mcp.CallToolResult, logWorkoutOutput, error) {
	if len(input.Exercises) == 0 {
		return nil, logWorkoutOutput{}, errors.New("at least one exercise is required")
	}

	name := input.Name
	if name == "" {
		name = "workout"
	}
	w := models.NewWorkout(name).WithDate(s.svc.Now())
	if input.Date != "" {
		t, err := parseTime(input.Date)
		if err != nil {
			return nil, logWorkoutOutput{}, err
		}
		w.WithDate(t)
	}
	if input.Duration > 0 {
		w.WithDuration(input.Duration)
	}
	w.WithTags(input.Tags...)

	for _, e := range input.Exercises {
		ex, err := s.svc.EnsureExercise(ctx, strings.TrimSpace(e.Name), "")
		if err != nil {
			return nil, logWorkoutOutput{}, err
		}
		we := models.WorkoutExercise{ExerciseID: ex.ID, Name: ex.Name, Category: ex.Category}
		for _, set := range e.Sets {
			we.Sets = append(we.Sets, models.Set{
				Kg:        set.Kg,
				Reps:      set.Reps,
				Completed: true,
				SetType:   models.SetType(strings.ToLower(set.SetType)),
			})
		}
		w.AddExercise(we)
	}

	res, err := s.svc.FinishWorkout(ctx, *w)
	if err != nil {
		return nil, logWorkoutOutput{}, fmt.Errorf("failed to log workout: %w", err)
	}

	out := logWorkoutOutput{
		ID:       res.Workout.ID,
		Feedback: res.Feedback,
		Message:  fmt.Sprintf("Logged %s (ID: %s)", res.Workout.Name, res.Workout.ID[:8]),
	}
	for _, ex := range res.PRs {
		for _, t := range ex.RecordTypes {
			out.Records = append(out.Records, fmt.Sprintf("%s: %s", ex.ExerciseName, t))
		}
	}
	return nil, out, nil
}

func (s *Server) handleListWorkouts(ctx context.Context, req *mcp.CallToolRequest, input listWorkoutsInput) (*mcp.CallToolResult, any, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	workouts, err := s.svc.Repository().ListWorkouts(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list workouts: %w", err)
	}

	if len(workouts) == 0 {
		return nil, map[string]any{"message": "No workouts found."}, nil
	}
	if len(workouts) > input.Limit {
		workouts = workouts[:input.Limit]
	}
	return nil, map[string]any{"workouts": workouts}, nil
}

func (s *Server) handleGetWorkout(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, any, error) {
	w, err := s.svc.Repository().GetWorkout(ctx, input.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("workout not found: %s", input.ID)
	}
	return nil, w, nil
}

func (s *Server) handleDeleteWorkout(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, simpleOutput, error) {
	w, err := s.svc.DeleteWorkout(ctx, input.ID)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete workout: %w", err)
	}
	return nil, simpleOutput{
		Message: fmt.Sprintf("Deleted workout: %s", w.ID),
	}, nil
}

func (s *Server) handleGetRecords(ctx context.Context, req *mcp.CallToolRequest, input exerciseRefInput) (*mcp.CallToolResult, any, error) {
	ex, err := s.exercise(ctx, input.Exercise)
	if err != nil {
		return nil, nil, err
	}
	r, cached, err := s.svc.Records(ctx, ex.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get records: %w", err)
	}
	return nil, map[string]any{
		"exercise": ex.Name,
		"records":  r,
		"cached":   cached,
	}, nil
}

func (s *Server) handleDetectPlateau(ctx context.Context, req *mcp.CallToolRequest, input exerciseRefInput) (*mcp.CallToolResult, any, error) {
	ex, err := s.exercise(ctx, input.Exercise)
	if err != nil {
		return nil, nil, err
	}
	p, err := s.svc.Plateau(ctx, ex.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to detect plateau: %w", err)
	}
	return nil, p, nil
}

func (s *Server) handleReadiness(ctx context.Context, req *mcp.CallToolRequest, input noInput) (*mcp.CallToolResult, any, error) {
	r, err := s.svc.Readiness(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compute readiness: %w", err)
	}
	return nil, r, nil
}

func (s *Server) handleVolumeLandmarks(ctx context.Context, req *mcp.CallToolRequest, input noInput) (*mcp.CallToolResult, any, error) {
	v, err := s.svc.VolumeLandmarks(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compute volume landmarks: %w", err)
	}
	return nil, v, nil
}

func (s *Server) handleMuscleBalance(ctx context.Context, req *mcp.CallToolRequest, input noInput) (*mcp.CallToolResult, any, error) {
	b, err := s.svc.MuscleBalance(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compute muscle balance: %w", err)
	}
	return nil, b, nil
}

func (s *Server) handleBlockProgress(ctx context.Context, req *mcp.CallToolRequest, input templateRefInput) (*mcp.CallToolResult, any, error) {
	p, err := s.svc.BlockProgress(ctx, input.Template)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compute block progress: %w", err)
	}
	return nil, p, nil
}

func (s *Server) handleOptimizeSession(ctx context.Context, req *mcp.CallToolRequest, input optimizeInput) (*mcp.CallToolResult, any, error) {
	res, err := s.svc.OptimizeTemplate(ctx, input.Template, input.Minutes)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to optimize session: %w", err)
	}
	return nil, res, nil
}

func (s *Server) exercise(ctx context.Context, ref string) (*models.Exercise, error) {
	ex, err := s.svc.Repository().GetExercise(ctx, strings.TrimSpace(ref))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("exercise not found: %s", ref)
	}
	if err != nil {
		return nil, err
	}
	return ex, nil
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q (use ISO 8601)", s)
}
