package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/recipeapi/internal/server/models"
	"github.com/jung-kurt/gofpdf"
)

// RenderCard renders one of the caller's recipes as a single-page PDF.
func (s *RecipeService) RenderCard(ctx context.Context, userID, id int64) ([]byte, error) {
	rc, err := s.Retrieve(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return BuildRecipeCard(rc)
}

// BuildRecipeCard lays out title, time, price, link, tags and ingredients.
func BuildRecipeCard(rc *models.Recipe) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A5", "")
	pdf.SetTitle(rc.Title, true)
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	// cp1252 covers the core fonts; anything else degrades to '?'.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFillColor(230, 126, 34)
	pdf.Rect(0, 0, 6, 210, "F")

	pdf.SetFont("Arial", "B", 20)
	pdf.MultiCell(0, 10, tr(rc.Title), "", "L", false)
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 11)
	pdf.SetTextColor(90, 90, 90)
	pdf.Cell(0, 7, fmt.Sprintf("Time: %d min   |   Price: %s", rc.TimeMinutes, rc.Price))
	pdf.Ln(7)
	if rc.Link != "" {
		pdf.CellFormat(0, 7, tr(rc.Link), "", 1, "L", false, 0, rc.Link)
	}
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	section := func(title string, names []string) {
		pdf.SetFont("Arial", "B", 13)
		pdf.Cell(0, 8, title)
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 11)
		if len(names) == 0 {
			pdf.SetTextColor(150, 150, 150)
			pdf.Cell(0, 6, "none")
			pdf.SetTextColor(0, 0, 0)
			pdf.Ln(8)
			return
		}
		for _, n := range names {
			pdf.Cell(0, 6, tr("- "+n))
			pdf.Ln(6)
		}
		pdf.Ln(2)
	}

	ingredients := make([]string, 0, len(rc.Ingredients))
	for _, i := range rc.Ingredients {
		ingredients = append(ingredients, i.Name)
	}
	tags := make([]string, 0, len(rc.Tags))
	for _, t := range rc.Tags {
		tags = append(tags, t.Name)
	}

	section("Ingredients", ingredients)
	pdf.SetFont("Arial", "I", 10)
	pdf.SetTextColor(90, 90, 90)
	if len(tags) > 0 {
		pdf.MultiCell(0, 6, tr("Tags: "+strings.Join(tags, ", ")), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
