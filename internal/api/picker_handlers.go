package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bookden/bookden-server/internal/service"
)

func (s *Server) registerPickerRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getPickerOptions",
		Method:      http.MethodGet,
		Path:        "/api/v1/picker/options",
		Summary:     "Get picker options",
		Description: "Returns the choices for the next location picker step",
		Tags:        []string{"Picker"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetPickerOptions)

	huma.Register(s.api, huma.Operation{
		OperationID: "confirmPickerChoice",
		Method:      http.MethodPost,
		Path:        "/api/v1/picker/confirm",
		Summary:     "Confirm picker choice",
		Description: "Resolves a picker choice into a real location node",
		Tags:        []string{"Picker"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleConfirmPickerChoice)
}

// === DTOs ===

type GetPickerOptionsInput struct {
	Authorization string `header:"Authorization"`
	ParentID      string `query:"parent_id" doc:"Location to descend into (empty to start at rooms)"`
}

type PickerOptionResponse struct {
	ID        string `json:"id" doc:"Location ID, or a temporary ID for suggestions"`
	Name      string `json:"name" doc:"Option label"`
	Suggested bool   `json:"suggested" doc:"True for fallback suggestions not yet in the tree"`
}

type PickerOptionsResponse struct {
	Step       string                 `json:"step" doc:"Picker step: room, container, or spot"`
	ParentID   string                 `json:"parent_id,omitempty" doc:"Node whose children are offered"`
	Path       string                 `json:"path,omitempty" doc:"Breadcrumb of the choices so far"`
	Options    []PickerOptionResponse `json:"options" doc:"Available choices"`
	CanUseHere bool                   `json:"can_use_here" doc:"The current node can be chosen as-is"`
	Degraded   bool                   `json:"degraded" doc:"Store was unreachable; options are suggestions only"`
}

type PickerOptionsOutput struct {
	Body PickerOptionsResponse
}

type ConfirmPickerRequest struct {
	ParentID string `json:"parent_id,omitempty" doc:"Parent of the chosen option"`
	OptionID string `json:"option_id,omitempty" doc:"Chosen option ID (real or temporary)"`
	Name     string `json:"name,omitempty" validate:"max=100" doc:"Typed name when no option was chosen"`
}

type ConfirmPickerInput struct {
	Authorization string `header:"Authorization"`
	Body          ConfirmPickerRequest
}

type PickedLocationResponse struct {
	Location LocationResponse `json:"location" doc:"The resolved location node"`
	FullPath string           `json:"full_path" doc:"Breadcrumb path from the root"`
	Created  bool             `json:"created" doc:"True if this confirm created the node"`
}

type PickedLocationOutput struct {
	Body PickedLocationResponse
}

// === Handlers ===

func (s *Server) handleGetPickerOptions(ctx context.Context, input *GetPickerOptionsInput) (*PickerOptionsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	opts, err := s.services.Picker.Options(ctx, userID, input.ParentID)
	if err != nil {
		return nil, err
	}

	return &PickerOptionsOutput{Body: mapPickerOptions(opts)}, nil
}

func (s *Server) handleConfirmPickerChoice(ctx context.Context, input *ConfirmPickerInput) (*PickedLocationOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	picked, err := s.services.Picker.Confirm(ctx, userID, input.Body.ParentID, input.Body.OptionID, input.Body.Name)
	if err != nil {
		return nil, err
	}

	return &PickedLocationOutput{Body: mapPickedLocation(picked)}, nil
}

// === Mappers ===

func mapPickerOptions(opts *service.PickerOptions) PickerOptionsResponse {
	resp := PickerOptionsResponse{
		Step:       string(opts.Step),
		ParentID:   opts.ParentID,
		Path:       opts.Path,
		CanUseHere: opts.CanUseHere,
		Degraded:   opts.Degraded,
	}
	for _, opt := range opts.Options {
		resp.Options = append(resp.Options, PickerOptionResponse{
			ID:        opt.ID,
			Name:      opt.Name,
			Suggested: opt.Suggested,
		})
	}
	return resp
}

func mapPickedLocation(p *service.PickedLocation) PickedLocationResponse {
	return PickedLocationResponse{
		Location: mapLocationResponse(p.Location),
		FullPath: p.FullPath,
		Created:  p.Created,
	}
}
