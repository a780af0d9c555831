package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/recipeapi/internal/common"
)

// attributeResponse is the wire form of tags and ingredients.
type attributeResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type attributeRequest struct {
	Name *string `json:"name"`
}

// decodeName reads {"name": ...}; the field is required.
func decodeName(w http.ResponseWriter, r *http.Request) (string, error) {
	var req attributeRequest
	if err := decodeBody(w, r, &req); err != nil {
		return "", err
	}
	if req.Name == nil {
		return "", common.NewValidationError("name", "This field is required.")
	}
	return *req.Name, nil
}

func (s *HTTPServer) listTags(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	items, err := s.tags.List(r.Context(), userID, isTruthy(r.URL.Query().Get("assigned_only")))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]attributeResponse, 0, len(items))
	for _, t := range items {
		out = append(out, attributeResponse{ID: t.ID, Name: t.Name})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *HTTPServer) createTag(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	name, err := decodeName(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	tag, err := s.tags.Create(r.Context(), userID, name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, attributeResponse{ID: tag.ID, Name: tag.Name})
}

func (s *HTTPServer) updateTag(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	name, err := decodeName(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	tag, err := s.tags.Update(r.Context(), userID, id, name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, attributeResponse{ID: tag.ID, Name: tag.Name})
}

func (s *HTTPServer) deleteTag(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.tags.Delete(r.Context(), userID, id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *HTTPServer) listIngredients(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	items, err := s.ingredients.List(r.Context(), userID, isTruthy(r.URL.Query().Get("assigned_only")))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]attributeResponse, 0, len(items))
	for _, i := range items {
		out = append(out, attributeResponse{ID: i.ID, Name: i.Name})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *HTTPServer) createIngredient(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	name, err := decodeName(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ingredient, err := s.ingredients.Create(r.Context(), userID, name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, attributeResponse{ID: ingredient.ID, Name: ingredient.Name})
}

func (s *HTTPServer) updateIngredient(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	name, err := decodeName(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ingredient, err := s.ingredients.Update(r.Context(), userID, id, name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, attributeResponse{ID: ingredient.ID, Name: ingredient.Name})
}

func (s *HTTPServer) deleteIngredient(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.ingredients.Delete(r.Context(), userID, id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
