package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/recipeapi/internal/client/api"
	"github.com/dmitrijs2005/recipeapi/internal/filex"
)

var errUsage = errors.New("usage")

// Recipes lists recipes; optional args are tag ids to filter by.
func (a *App) Recipes(ctx context.Context, args []string) error {
	tagIDs, err := ParseIDs(strings.Join(args, ","))
	if err != nil {
		return a.fail(err)
	}

	items, err := a.api.ListRecipes(ctx, tagIDs)
	if err != nil {
		return a.fail(err)
	}
	if len(items) == 0 {
		fmt.Fprintln(a.out, "(none)")
		return nil
	}
	for _, r := range items {
		fmt.Fprintf(a.out, "%6d  %-30s %4d min  %s\n", r.ID, r.Title, r.TimeMinutes, r.Price)
	}
	return nil
}

// parseArgs checks for want args, the first being a recipe id.
func (a *App) parseArgs(args []string, want int, usage string) (int64, error) {
	if len(args) != want {
		fmt.Fprintln(a.out, "Usage:", usage)
		return 0, errUsage
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Fprintln(a.out, "Usage:", usage)
		return 0, errUsage
	}
	return id, nil
}

func (a *App) Show(ctx context.Context, args []string) error {
	id, err := a.parseArgs(args, 1, "show <id>")
	if err != nil {
		return err
	}

	r, err := a.api.GetRecipe(ctx, id)
	if err != nil {
		return a.fail(err)
	}

	fmt.Fprintf(a.out, "#%d %s\n", r.ID, r.Title)
	fmt.Fprintf(a.out, "Time: %d min  Price: %s\n", r.TimeMinutes, r.Price)
	if r.Link != "" {
		fmt.Fprintf(a.out, "Link: %s\n", r.Link)
	}
	if r.Image != nil {
		fmt.Fprintf(a.out, "Image: %s\n", *r.Image)
	}
	fmt.Fprintf(a.out, "Tags: %s\n", names(r.Tags))
	fmt.Fprintf(a.out, "Ingredients: %s\n", names(r.Ingredients))
	return nil
}

func (a *App) AddRecipe(ctx context.Context) error {
	var in api.RecipeInput
	var err error

	if in.Title, err = getSimpleText(a.reader, "Title", a.out); err != nil {
		return err
	}
	if in.TimeMinutes, err = GetInt(a.reader, "Time (minutes)", a.out); err != nil {
		return err
	}
	if in.Price, err = getSimpleText(a.reader, "Price (e.g. 5.00)", a.out); err != nil {
		return err
	}
	if in.Link, err = getSimpleText(a.reader, "Link (optional)", a.out); err != nil {
		return err
	}
	if in.Tags, err = a.readIDs("Tag ids (comma separated, optional)"); err != nil {
		return err
	}
	if in.Ingredients, err = a.readIDs("Ingredient ids (comma separated, optional)"); err != nil {
		return err
	}

	r, err := a.api.CreateRecipe(ctx, in)
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.out, "Created recipe %d\n", r.ID)
	return nil
}

func (a *App) readIDs(prompt string) ([]int64, error) {
	for {
		s, err := getSimpleText(a.reader, prompt, a.out)
		if err != nil {
			return nil, err
		}
		ids, err := ParseIDs(s)
		if err == nil {
			return ids, nil
		}
		fmt.Fprintln(a.out, err)
	}
}

func names(items []api.Attribute) string {
	if len(items) == 0 {
		return "-"
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Name)
	}
	return strings.Join(out, ", ")
}

// Upload sends a local JPEG as the recipe image.
func (a *App) Upload(ctx context.Context, args []string) error {
	id, err := a.parseArgs(args, 2, "upload <id> <file.jpg>")
	if err != nil {
		return err
	}
	data, err := os.ReadFile(args[1])
	if err != nil {
		return a.fail(err)
	}

	up, err := a.api.UploadImage(ctx, id, data)
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.out, "Uploaded image %s\n", up.Image)
	return nil
}

// Card saves the recipe PDF card to a local file.
func (a *App) Card(ctx context.Context, args []string) error {
	id, err := a.parseArgs(args, 2, "card <id> <file.pdf>")
	if err != nil {
		return err
	}

	pdf, err := a.api.RecipeCard(ctx, id)
	if err != nil {
		return a.fail(err)
	}
	if err := filex.WriteFile(args[1], pdf); err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.out, "Saved %s\n", args[1])
	return nil
}
