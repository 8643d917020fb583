package client

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"zonefinder.dev/backend/internal/client/zoneclient"
)

func userCommand() *cli.Command {
	return &cli.Command{
		Name:  "user",
		Usage: "manage the signed in account",
		Subcommands: []*cli.Command{
			{
				Name:      "login",
				Usage:     "store the access token issued by the social login",
				ArgsUsage: "<token>",
				Action: func(c *cli.Context) error {
					e, err := newEnv(c)
					if err != nil {
						return err
					}
					if c.NArg() != 1 {
						return cli.Exit("usage: user login <token>", 2)
					}
					return e.tokens.Save(c.Args().First())
				},
			},
			{
				Name:  "logout",
				Usage: "forget the stored access token",
				Action: func(c *cli.Context) error {
					e, err := newEnv(c)
					if err != nil {
						return err
					}
					return e.tokens.Clear()
				},
			},
			{
				Name:  "show",
				Usage: "print the current user",
				Action: func(c *cli.Context) error {
					e, err := newEnv(c)
					if err != nil {
						return err
					}
					u, err := e.api.CurrentUser(c.Context)
					if err != nil {
						return err
					}
					return printJSON(c, u)
				},
			},
			{
				Name:      "nickname",
				Usage:     "change the nickname",
				ArgsUsage: "<nickname>",
				Action: func(c *cli.Context) error {
					e, err := newEnv(c)
					if err != nil {
						return err
					}
					u, err := e.api.UpdateNickname(c.Context, c.Args().First())
					if err != nil {
						return err
					}
					return printJSON(c, u)
				},
			},
			{
				Name:      "avatar",
				Usage:     "upload a profile image",
				ArgsUsage: "<file>",
				Action: func(c *cli.Context) error {
					e, err := newEnv(c)
					if err != nil {
						return err
					}
					img, err := zoneclient.OpenImage(c.Args().First())
					if err != nil {
						return err
					}
					u, err := e.api.UpdateProfileImage(c.Context, img)
					if err != nil {
						return err
					}
					return printJSON(c, u)
				},
			},
			{
				Name:  "delete",
				Usage: "delete the account",
				Action: func(c *cli.Context) error {
					e, err := newEnv(c)
					if err != nil {
						return err
					}
					if err := e.api.DeleteCurrentUser(c.Context); err != nil {
						return err
					}
					if err := e.tokens.Clear(); err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, "account deleted")
					return nil
				},
			},
		},
	}
}
