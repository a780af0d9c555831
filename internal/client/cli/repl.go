package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Tags(ctx context.Context) error
	AddTag(ctx context.Context) error
	Ingredients(ctx context.Context) error
	AddIngredient(ctx context.Context) error
	Recipes(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	AddRecipe(ctx context.Context) error
	Upload(ctx context.Context, args []string) error
	Card(ctx context.Context, args []string) error
}

// runREPL reads commands until EOF or "exit".
//
//	Not logged in:
//	  help, register, login, exit
//
//	Logged in:
//	  help, tags, addtag, ingredients, addingredient,
//	  recipes [tag ids], show <id>, addrecipe, upload <id> <file>,
//	  card <id> <file>, logout, exit
//
// Handler errors are already reported to the user, so the loop ignores them.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("rcli %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if !a.isLoggedIn() {
			switch cmd {
			case "tags", "addtag", "ingredients", "addingredient", "recipes", "show", "addrecipe", "upload", "card", "logout":
				printlnFn("Please log in first")
				continue
			}
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: tags, addtag, ingredients, addingredient, recipes [tag ids], show <id>, addrecipe, upload <id> <file>, card <id> <file>, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "tags":
			_ = a.Tags(ctx)

		case "addtag":
			_ = a.AddTag(ctx)

		case "ingredients":
			_ = a.Ingredients(ctx)

		case "addingredient":
			_ = a.AddIngredient(ctx)

		case "recipes":
			_ = a.Recipes(ctx, args)

		case "show":
			_ = a.Show(ctx, args)

		case "addrecipe":
			_ = a.AddRecipe(ctx)

		case "upload":
			_ = a.Upload(ctx, args)

		case "card":
			_ = a.Card(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
