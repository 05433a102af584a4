package services

import "journal-management-api/models"

// Actor identifies the authenticated user performing a workflow operation.
// Controllers build one from the request context and pass it down explicitly;
// services never reach into ambient request state.
type Actor struct {
	UserID int
	Email  string
	RoleID int
}

func (a Actor) IsAuthor() bool {
	return a.RoleID == models.RoleAuthor
}

func (a Actor) IsReviewer() bool {
	return a.RoleID == models.RoleReviewer
}

func (a Actor) IsEditor() bool {
	return a.RoleID == models.RoleEditor || a.RoleID == models.RoleAdmin
}

func (a Actor) IsAdmin() bool {
	return a.RoleID == models.RoleAdmin
}
