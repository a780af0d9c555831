package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/recipeapi/internal/common"
	"github.com/dmitrijs2005/recipeapi/internal/money"
	"github.com/dmitrijs2005/recipeapi/internal/server/models"
	"github.com/dmitrijs2005/recipeapi/internal/server/services"
)

type recipeRequest struct {
	Title       *string         `json:"title"`
	TimeMinutes *int            `json:"time_minutes"`
	Price       json.RawMessage `json:"price"`
	Link        *string         `json:"link"`
	Tags        *[]int64        `json:"tags"`
	Ingredients *[]int64        `json:"ingredients"`
}

type recipeSummary struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	TimeMinutes int         `json:"time_minutes"`
	Price       money.Price `json:"price"`
	Link        string      `json:"link"`
	Tags        []int64     `json:"tags"`
	Ingredients []int64     `json:"ingredients"`
}

type recipeDetail struct {
	ID          int64               `json:"id"`
	Title       string              `json:"title"`
	TimeMinutes int                 `json:"time_minutes"`
	Price       money.Price         `json:"price"`
	Link        string              `json:"link"`
	Image       *string             `json:"image"`
	Tags        []attributeResponse `json:"tags"`
	Ingredients []attributeResponse `json:"ingredients"`
}

type imageUploadResponse struct {
	ID        int64  `json:"id"`
	Image     string `json:"image"`
	UploadURL string `json:"upload_url"`
}

func toSummary(rc *models.Recipe) recipeSummary {
	return recipeSummary{
		ID:          rc.ID,
		Title:       rc.Title,
		TimeMinutes: rc.TimeMinutes,
		Price:       rc.Price,
		Link:        rc.Link,
		Tags:        rc.TagIDs(),
		Ingredients: rc.IngredientIDs(),
	}
}

func toDetail(rc *models.Recipe, imageURL string) recipeDetail {
	d := recipeDetail{
		ID:          rc.ID,
		Title:       rc.Title,
		TimeMinutes: rc.TimeMinutes,
		Price:       rc.Price,
		Link:        rc.Link,
		Tags:        make([]attributeResponse, 0, len(rc.Tags)),
		Ingredients: make([]attributeResponse, 0, len(rc.Ingredients)),
	}
	if imageURL != "" {
		d.Image = &imageURL
	}
	for _, t := range rc.Tags {
		d.Tags = append(d.Tags, attributeResponse{ID: t.ID, Name: t.Name})
	}
	for _, i := range rc.Ingredients {
		d.Ingredients = append(d.Ingredients, attributeResponse{ID: i.ID, Name: i.Name})
	}
	return d
}

// decodeRecipe reads a recipe body into service input. Price may be a JSON
// number or a decimal string.
func decodeRecipe(w http.ResponseWriter, r *http.Request) (services.RecipeInput, error) {
	var req recipeRequest
	if err := decodeBody(w, r, &req); err != nil {
		return services.RecipeInput{}, err
	}

	in := services.RecipeInput{
		Title:       req.Title,
		TimeMinutes: req.TimeMinutes,
		Link:        req.Link,
		Tags:        req.Tags,
		Ingredients: req.Ingredients,
	}

	if raw := bytes.TrimSpace(req.Price); len(raw) > 0 && !bytes.Equal(raw, []byte("null")) {
		var p money.Price
		if err := p.UnmarshalJSON(raw); err != nil {
			return in, common.NewValidationError("price", sentence(err))
		}
		in.Price = &p
	}
	return in, nil
}

func (s *HTTPServer) listRecipes(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	q := r.URL.Query()
	tagIDs, err := parseIDList("tags", q.Get("tags"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ingredientIDs, err := parseIDList("ingredients", q.Get("ingredients"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	items, err := s.recipes.List(r.Context(), userID, models.RecipeFilter{TagIDs: tagIDs, IngredientIDs: ingredientIDs})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]recipeSummary, 0, len(items))
	for _, rc := range items {
		out = append(out, toSummary(rc))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *HTTPServer) createRecipe(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	in, err := decodeRecipe(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rc, err := s.recipes.Create(r.Context(), userID, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSummary(rc))
}

func (s *HTTPServer) retrieveRecipe(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rc, err := s.recipes.Retrieve(r.Context(), userID, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	imageURL, err := s.recipes.ImageURL(r.Context(), rc)
	if err != nil {
		s.logger.Warn(r.Context(), "image url presign failed", "recipe_id", rc.ID, "error", err)
	}
	writeJSON(w, http.StatusOK, toDetail(rc, imageURL))
}

func (s *HTTPServer) updateRecipe(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	in, err := decodeRecipe(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rc, err := s.recipes.Update(r.Context(), userID, id, in, r.Method == http.MethodPatch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSummary(rc))
}

func (s *HTTPServer) deleteRecipe(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.recipes.Delete(r.Context(), userID, id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *HTTPServer) uploadImage(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rc, url, err := s.recipes.RequestImageUpload(r.Context(), userID, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, imageUploadResponse{ID: rc.ID, Image: rc.Image, UploadURL: url})
}

func (s *HTTPServer) recipeCard(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	pdf, err := s.recipes.RenderCard(r.Context(), userID, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=\"recipe-%d.pdf\"", id))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
