package handler

import "net/http"

// RegisterMemberRequest is the body of POST /members.
type RegisterMemberRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// RegisterMember handles POST /members.
func (s *Server) RegisterMember(w http.ResponseWriter, r *http.Request) {
	var body RegisterMemberRequest
	if !s.decode(w, r, &body) {
		return
	}
	m, err := s.svc.Members.Register(r.Context(), body.Name, body.Email)
	if err != nil {
		s.fail(w, r, "member", err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

// ListMembers handles GET /members.
func (s *Server) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := s.svc.Members.List(r.Context())
	if err != nil {
		s.fail(w, r, "member", err)
		return
	}
	writeJSON(w, http.StatusOK, members)
}
