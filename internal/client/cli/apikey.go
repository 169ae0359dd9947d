package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/Yijia-Z/dalle2-app/internal/common"
	"github.com/fatih/color"
)

func (a *App) APIKey(ctx context.Context, args []string) error {
	sub := "status"
	if len(args) > 0 {
		sub = args[0]
	}

	switch sub {
	case "status":
		return a.keyStatus(ctx)
	case "set":
		return a.saveKey(ctx)
	case "unlock":
		return a.unlockKey(ctx)
	case "clear":
		if err := a.creds.Clear(ctx); err != nil {
			return err
		}
		if a.keySource == keyVault {
			a.apiKey, a.keySource = "", keyNone
		}
		fmt.Fprintln(a.out, "Stored API key removed")
		return nil
	}
	return errors.New("usage: apikey set|unlock|status|clear")
}

func (a *App) keyStatus(ctx context.Context) error {
	fmt.Fprintf(a.out, "Active key: %s\n", a.keySource)
	fp, err := a.creds.Fingerprint(ctx)
	if err != nil {
		return err
	}
	if fp == "" {
		fmt.Fprintln(a.out, "No key stored")
	} else {
		fmt.Fprintf(a.out, "Stored key fingerprint: %s\n", fp)
	}
	return nil
}

func (a *App) saveKey(ctx context.Context) error {
	key, err := GetSecret(a.out, "OpenAI API key: ")
	if err != nil {
		return err
	}
	pass, err := GetPassword(a.out, "Passphrase: ")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pass)

	if err := a.creds.Save(ctx, key, pass); err != nil {
		return err
	}
	a.apiKey, a.keySource = key, keyVault
	color.New(color.FgGreen).Fprintln(a.out, "API key saved")
	return nil
}

func (a *App) unlockKey(ctx context.Context) error {
	pass, err := GetPassword(a.out, "Passphrase: ")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pass)

	key, err := a.creds.Load(ctx, pass)
	if errors.Is(err, common.ErrorNotFound) {
		return fmt.Errorf("%w: use 'apikey set' first", common.ErrNoAPIKey)
	}
	if err != nil {
		return err
	}
	a.apiKey, a.keySource = key, keyVault
	color.New(color.FgGreen).Fprintln(a.out, "API key unlocked")
	return nil
}

// requireKey returns the active key, unlocking the stored one on first use.
func (a *App) requireKey(ctx context.Context) (string, error) {
	if a.apiKey != "" {
		return a.apiKey, nil
	}

	ok, err := a.creds.Exists(ctx)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: set OPENAI_API_KEY or run 'apikey set'", common.ErrNoAPIKey)
	}
	if err := a.unlockKey(ctx); err != nil {
		return "", err
	}
	return a.apiKey, nil
}
