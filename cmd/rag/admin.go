package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/fwojciec/rag"
)

func (a *app) admin(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("admin: expected a subcommand: %w", rag.ErrValidation)
	}
	sub, rest := args[0], args[1:]

	actions := map[string]struct {
		fn   func(context.Context, string) error
		done string
	}{
		"promote":  {a.client.Promote, "Promoted"},
		"demote":   {a.client.Demote, "Demoted"},
		"freeze":   {a.client.Freeze, "Froze"},
		"unfreeze": {a.client.Unfreeze, "Unfroze"},
		"delete":   {a.client.DeleteUser, "Deleted"},
	}

	switch sub {
	case "users":
		return a.listUsers(ctx)
	case "revoke":
		if len(rest) != 1 {
			return fmt.Errorf("admin revoke: expected a token or token ID: %w", rag.ErrValidation)
		}
		jti, err := a.client.RevokeToken(ctx, rest[0])
		if err != nil {
			return fmt.Errorf("admin revoke: %w", err)
		}
		fmt.Fprintf(a.stdout, "Revoked token %s.\n", jti)
		return nil
	case "revoked":
		return a.listRevoked(ctx)
	}

	action, ok := actions[sub]
	if !ok {
		return fmt.Errorf("admin: unknown subcommand %q: %w", sub, rag.ErrValidation)
	}
	if len(rest) != 1 {
		return fmt.Errorf("admin %s: expected exactly one username: %w", sub, rag.ErrValidation)
	}
	if err := action.fn(ctx, rest[0]); err != nil {
		return fmt.Errorf("admin %s: %w", sub, err)
	}
	fmt.Fprintf(a.stdout, "%s %s.\n", action.done, rest[0])
	return nil
}

func (a *app) listUsers(ctx context.Context) error {
	users, err := a.client.Users(ctx)
	if err != nil {
		return fmt.Errorf("admin users: %w", err)
	}
	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSERNAME\tADMIN\tACTIVE\tCREATED")
	for _, u := range users {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", u.ID, u.Username, yesNo(u.IsAdmin), yesNo(u.IsActive), formatTime(u.CreatedAt))
	}
	return tw.Flush()
}

func (a *app) listRevoked(ctx context.Context) error {
	revoked, err := a.client.RevokedTokens(ctx)
	if err != nil {
		return fmt.Errorf("admin revoked: %w", err)
	}
	if len(revoked) == 0 {
		fmt.Fprintln(a.stdout, "No revoked tokens.")
		return nil
	}
	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tJTI\tREVOKED\tBY")
	for _, r := range revoked {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", r.ID, r.JTI, formatTime(r.RevokedAt), r.RevokedBy)
	}
	return tw.Flush()
}
