package workspace

// CreateWorkspaceRequest creates a workspace owned by the caller
type CreateWorkspaceRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
}
