package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/recipeapi/internal/client/api"
)

func (a *App) printAttributes(items []api.Attribute) {
	if len(items) == 0 {
		fmt.Fprintln(a.out, "(none)")
		return
	}
	for _, it := range items {
		fmt.Fprintf(a.out, "%6d  %s\n", it.ID, it.Name)
	}
}

func (a *App) Tags(ctx context.Context) error {
	items, err := a.api.ListTags(ctx)
	if err != nil {
		return a.fail(err)
	}
	a.printAttributes(items)
	return nil
}

func (a *App) AddTag(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Tag name", a.out)
	if err != nil {
		return err
	}
	t, err := a.api.CreateTag(ctx, name)
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.out, "Created tag %d\n", t.ID)
	return nil
}

func (a *App) Ingredients(ctx context.Context) error {
	items, err := a.api.ListIngredients(ctx)
	if err != nil {
		return a.fail(err)
	}
	a.printAttributes(items)
	return nil
}

func (a *App) AddIngredient(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Ingredient name", a.out)
	if err != nil {
		return err
	}
	i, err := a.api.CreateIngredient(ctx, name)
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.out, "Created ingredient %d\n", i.ID)
	return nil
}

// fail reports err to the user and returns it. A lost session logs the
// shell out.
func (a *App) fail(err error) error {
	if errors.Is(err, api.ErrNotLoggedIn) {
		a.email = ""
		fmt.Fprintln(a.out, "Session expired, please log in again")
		return err
	}
	fmt.Fprintln(a.out, "Error:", err)
	return err
}
