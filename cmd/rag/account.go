package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fwojciec/rag"
	ragjwt "github.com/fwojciec/rag/jwt"
)

func (a *app) credentials(cmd string, args []string) (rag.Credentials, error) {
	if len(args) != 1 {
		return rag.Credentials{}, fmt.Errorf("%s: expected exactly one username: %w", cmd, rag.ErrValidation)
	}
	password, err := a.readPassword("Password: ")
	if err != nil {
		return rag.Credentials{}, fmt.Errorf("%s: %w", cmd, err)
	}
	creds := rag.Credentials{Username: args[0], Password: password}
	if err := creds.Validate(); err != nil {
		return rag.Credentials{}, fmt.Errorf("%s: %w", cmd, err)
	}
	return creds, nil
}

func (a *app) login(ctx context.Context, args []string) error {
	creds, err := a.credentials("login", args)
	if err != nil {
		return err
	}
	login, err := a.client.Login(ctx, creds)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if err := a.store.Save(login.Token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	role := ""
	if login.IsAdmin {
		role = " (admin)"
	}
	fmt.Fprintf(a.stdout, "Signed in as %s%s.\n", creds.Username, role)
	return nil
}

func (a *app) register(ctx context.Context, args []string) error {
	creds, err := a.credentials("register", args)
	if err != nil {
		return err
	}
	if err := a.client.Register(ctx, creds); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	fmt.Fprintf(a.stdout, "Registered %s. Run \"rag login %s\" to sign in.\n", creds.Username, creds.Username)
	return nil
}

func (a *app) logout() error {
	if err := a.store.Clear(); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	fmt.Fprintln(a.stdout, "Signed out.")
	if _, ok := a.token.(rag.StaticToken); ok {
		fmt.Fprintln(a.stderr, "RAG_TOKEN is still set in the environment.")
	}
	return nil
}

func (a *app) whoami() error {
	token := a.token.Token()
	if token == "" {
		fmt.Fprintln(a.stdout, "Not signed in.")
		return nil
	}
	claims, err := ragjwt.Peek(token)
	if err != nil {
		return fmt.Errorf("whoami: %w", err)
	}
	role := "user"
	if claims.IsAdmin {
		role = "admin"
	}
	fmt.Fprintf(a.stdout, "Username: %s\nRole:     %s\n", claims.Subject, role)
	if claims.JTI != "" {
		fmt.Fprintf(a.stdout, "Token ID: %s\n", claims.JTI)
	}
	if !claims.ExpiresAt.IsZero() {
		expires := claims.ExpiresAt.Local().Format(time.DateTime)
		if claims.Expired(a.now()) {
			expires += " (expired)"
		}
		fmt.Fprintf(a.stdout, "Expires:  %s\n", expires)
	}
	return nil
}

// readLine reads one line from r without the line terminator.
func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
