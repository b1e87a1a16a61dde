package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bookden/bookden-server/internal/domain"
)

func (s *Server) registerLocationRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listLocations",
		Method:      http.MethodGet,
		Path:        "/api/v1/locations",
		Summary:     "List locations",
		Description: "Returns the user's full location tree with paths",
		Tags:        []string{"Locations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListLocations)

	huma.Register(s.api, huma.Operation{
		OperationID: "createLocation",
		Method:      http.MethodPost,
		Path:        "/api/v1/locations",
		Summary:     "Create location",
		Description: "Creates a new location node",
		Tags:        []string{"Locations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateLocation)

	huma.Register(s.api, huma.Operation{
		OperationID: "listRootLocations",
		Method:      http.MethodGet,
		Path:        "/api/v1/locations/roots",
		Summary:     "List root locations",
		Description: "Returns the user's room-level locations",
		Tags:        []string{"Locations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListRootLocations)

	huma.Register(s.api, huma.Operation{
		OperationID: "suggestLocations",
		Method:      http.MethodGet,
		Path:        "/api/v1/locations/suggest",
		Summary:     "Suggest locations",
		Description: "Returns locations at one level of the tree similar to the typed name",
		Tags:        []string{"Locations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSuggestLocations)

	huma.Register(s.api, huma.Operation{
		OperationID: "getLocation",
		Method:      http.MethodGet,
		Path:        "/api/v1/locations/{id}",
		Summary:     "Get location",
		Description: "Returns a location by ID",
		Tags:        []string{"Locations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetLocation)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateLocation",
		Method:      http.MethodPatch,
		Path:        "/api/v1/locations/{id}",
		Summary:     "Update location",
		Description: "Changes a location's name and/or preset flag, keeping its place in the tree",
		Tags:        []string{"Locations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateLocation)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteLocation",
		Method:      http.MethodDelete,
		Path:        "/api/v1/locations/{id}",
		Summary:     "Delete location",
		Description: "Soft-deletes an empty location",
		Tags:        []string{"Locations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteLocation)

	huma.Register(s.api, huma.Operation{
		OperationID: "getLocationChildren",
		Method:      http.MethodGet,
		Path:        "/api/v1/locations/{id}/children",
		Summary:     "Get location children",
		Description: "Returns direct children of a location",
		Tags:        []string{"Locations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetLocationChildren)

	huma.Register(s.api, huma.Operation{
		OperationID: "getLocationPath",
		Method:      http.MethodGet,
		Path:        "/api/v1/locations/{id}/path",
		Summary:     "Get location path",
		Description: "Returns a location's full breadcrumb path",
		Tags:        []string{"Locations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetLocationPath)

	huma.Register(s.api, huma.Operation{
		OperationID: "getLocationBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/locations/{id}/books",
		Summary:     "Get location books",
		Description: "Returns the user's books stored at a location",
		Tags:        []string{"Locations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetLocationBooks)
}

// === DTOs ===

type LocationResponse struct {
	ID        string    `json:"id" doc:"Location ID"`
	ParentID  string    `json:"parent_id,omitempty" doc:"Parent location ID"`
	Name      string    `json:"name" doc:"Location name"`
	Preset    bool      `json:"preset" doc:"Created by the preset seeder"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update time"`
}

type LocationNodeResponse struct {
	LocationResponse
	FullPath string                 `json:"full_path" doc:"Breadcrumb path from the root"`
	Level    int                    `json:"level" doc:"Depth in the tree"`
	Children []LocationNodeResponse `json:"children,omitempty" doc:"Child locations"`
}

type ListLocationsInput struct {
	Authorization string `header:"Authorization"`
}

type ListLocationsResponse struct {
	Locations []LocationNodeResponse `json:"locations" doc:"Location forest"`
}

type ListLocationsOutput struct {
	Body ListLocationsResponse
}

type CreateLocationRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100" doc:"Location name"`
	ParentID string `json:"parent_id,omitempty" doc:"Parent location ID (empty for a root)"`
}

type CreateLocationInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateLocationRequest
}

type LocationOutput struct {
	Body LocationResponse
}

type ListRootLocationsInput struct {
	Authorization string `header:"Authorization"`
}

type FlatLocationsResponse struct {
	Locations []LocationResponse `json:"locations" doc:"Flat list of locations"`
}

type FlatLocationsOutput struct {
	Body FlatLocationsResponse
}

type SuggestLocationsInput struct {
	Authorization string `header:"Authorization"`
	Query         string `query:"q" doc:"Typed location name to match against"`
	ParentID      string `query:"parent_id" doc:"Scope matching to this node's children (empty for roots)"`
}

type LocationSuggestion struct {
	LocationNodeResponse
	Score float64 `json:"score" doc:"Similarity score in [0, 1]"`
}

type SuggestLocationsResponse struct {
	Suggestions []LocationSuggestion `json:"suggestions" doc:"Similar locations, best first"`
}

type SuggestLocationsOutput struct {
	Body SuggestLocationsResponse
}

type GetLocationInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Location ID"`
}

type UpdateLocationRequest struct {
	Name   *string `json:"name,omitempty" validate:"omitempty,min=1,max=100" doc:"New location name"`
	Preset *bool   `json:"preset,omitempty" doc:"New preset flag"`
}

type UpdateLocationInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Location ID"`
	Body          UpdateLocationRequest
}

type DeleteLocationInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Location ID"`
}

type GetLocationChildrenInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Location ID"`
}

type LocationPathResponse struct {
	ID       string `json:"id" doc:"Location ID"`
	FullPath string `json:"full_path" doc:"Breadcrumb path from the root"`
}

type LocationPathOutput struct {
	Body LocationPathResponse
}

// === Handlers ===

func (s *Server) handleListLocations(ctx context.Context, input *ListLocationsInput) (*ListLocationsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	tree, err := s.services.Location.GetLocationTree(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ListLocationsOutput{Body: ListLocationsResponse{Locations: mapLocationForest(tree)}}, nil
}

func (s *Server) handleCreateLocation(ctx context.Context, input *CreateLocationInput) (*LocationOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	loc, err := s.services.Location.CreateLocation(ctx, userID, input.Body.ParentID, input.Body.Name, false)
	if err != nil {
		return nil, err
	}

	return &LocationOutput{Body: mapLocationResponse(loc)}, nil
}

func (s *Server) handleListRootLocations(ctx context.Context, input *ListRootLocationsInput) (*FlatLocationsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	roots, err := s.services.Location.RootLocations(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &FlatLocationsOutput{Body: FlatLocationsResponse{Locations: mapLocationList(roots)}}, nil
}

func (s *Server) handleSuggestLocations(ctx context.Context, input *SuggestLocationsInput) (*SuggestLocationsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	matches, err := s.services.Location.FindSimilarLocations(ctx, userID, input.ParentID, input.Query)
	if err != nil {
		return nil, err
	}

	resp := make([]LocationSuggestion, len(matches))
	for i, m := range matches {
		resp[i] = LocationSuggestion{
			LocationNodeResponse: mapLocationNode(m.Location),
			Score:                m.Score,
		}
	}

	return &SuggestLocationsOutput{Body: SuggestLocationsResponse{Suggestions: resp}}, nil
}

func (s *Server) handleGetLocation(ctx context.Context, input *GetLocationInput) (*LocationOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	loc, err := s.services.Location.GetLocation(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &LocationOutput{Body: mapLocationResponse(loc)}, nil
}

func (s *Server) handleUpdateLocation(ctx context.Context, input *UpdateLocationInput) (*LocationOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	loc, err := s.services.Location.UpdateLocation(ctx, userID, input.ID, input.Body.Name, input.Body.Preset)
	if err != nil {
		return nil, err
	}

	return &LocationOutput{Body: mapLocationResponse(loc)}, nil
}

func (s *Server) handleDeleteLocation(ctx context.Context, input *DeleteLocationInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Location.DeleteLocation(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Location deleted"}}, nil
}

func (s *Server) handleGetLocationChildren(ctx context.Context, input *GetLocationChildrenInput) (*FlatLocationsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	children, err := s.services.Location.ChildLocations(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &FlatLocationsOutput{Body: FlatLocationsResponse{Locations: mapLocationList(children)}}, nil
}

func (s *Server) handleGetLocationPath(ctx context.Context, input *GetLocationInput) (*LocationPathOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	path, err := s.services.Location.LocationPath(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &LocationPathOutput{Body: LocationPathResponse{ID: input.ID, FullPath: path}}, nil
}

func (s *Server) handleGetLocationBooks(ctx context.Context, input *GetLocationInput) (*ListBooksOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	books, err := s.services.Book.ListBooksAtLocation(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &ListBooksOutput{Body: ListBooksResponse{Books: mapBookList(books)}}, nil
}

// === Mappers ===

func mapLocationResponse(l *domain.Location) LocationResponse {
	return LocationResponse{
		ID:        l.ID,
		ParentID:  l.ParentID,
		Name:      l.Name,
		Preset:    l.Preset,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

func mapLocationList(locations []*domain.Location) []LocationResponse {
	resp := make([]LocationResponse, len(locations))
	for i, l := range locations {
		resp[i] = mapLocationResponse(l)
	}
	return resp
}

func mapLocationNode(node *domain.LocationWithPath) LocationNodeResponse {
	resp := LocationNodeResponse{
		LocationResponse: mapLocationResponse(&node.Location),
		FullPath:         node.FullPath,
		Level:            node.Level,
	}
	for _, child := range node.Children {
		resp.Children = append(resp.Children, mapLocationNode(child))
	}
	return resp
}

func mapLocationForest(roots []*domain.LocationWithPath) []LocationNodeResponse {
	resp := make([]LocationNodeResponse, len(roots))
	for i, root := range roots {
		resp[i] = mapLocationNode(root)
	}
	return resp
}
