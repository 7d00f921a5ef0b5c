package cli

import (
	"fmt"

	"github.com/jurebordon/meal-frame/internal/keyring"
)

type AuthSetCmd struct {
	Token string `arg:"" help:"API token to store in the OS keyring."`
}

func (c *AuthSetCmd) Run(ctx *Context) error {
	if err := keyring.SetToken(c.Token); err != nil {
		return err
	}
	fmt.Println("Token stored.")
	return nil
}

type AuthClearCmd struct{}

func (c *AuthClearCmd) Run(ctx *Context) error {
	if err := keyring.DeleteToken(); err != nil {
		if err == keyring.ErrNotFound {
			fmt.Println("No token stored.")
			return nil
		}
		return err
	}
	fmt.Println("Token removed.")
	return nil
}
