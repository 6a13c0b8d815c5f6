package service

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"inkpot/app/repositories"
	"inkpot/app/services"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// withAuth opens the store and hands an AuthService to fn.
func (c *cli) withAuth(fn func(*services.AuthService) error) error {
	store, err := repositories.Open(c.cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(services.NewAuthService(store.Users(), store.Sessions(), c.cfg.SessionLifetime, nil))
}

func (c *cli) userCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage author accounts",
	}
	cmd.AddCommand(c.userCreateCommand(), c.userDeleteCommand(), c.userListCommand())
	return cmd
}

func (c *cli) userCreateCommand() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "create <username>",
		Short: "Create an account that can write and moderate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				var err error
				if password, err = readPassword(cmd); err != nil {
					return err
				}
			}

			return c.withAuth(func(auth *services.AuthService) error {
				user, err := auth.Register(args[0], password)
				if fields := services.FieldErrors(err); fields != nil {
					keys := make([]string, 0, len(fields))
					for k := range fields {
						keys = append(keys, k)
					}
					sort.Strings(keys)
					for _, k := range keys {
						cmd.PrintErrf("%s: %s\n", k, fields[k])
					}
					return errors.New("user not created")
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (id %d)\n", user.Username, user.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "password for the new account (prompted when empty)")
	return cmd
}

// readPassword prompts on the command's output. A terminal on stdin is put
// into no-echo mode; anything else is read a line at a time.
func readPassword(cmd *cobra.Command) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), "Password: ")
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		if len(b) == 0 {
			return "", errors.New("a password is required")
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", errors.New("a password is required")
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (c *cli) userDeleteCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <username>",
		Short: "Delete an account together with its posts and their comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := args[0]
			if !yes && !confirm(cmd, fmt.Sprintf("Delete %s and every post they wrote?", username)) {
				fmt.Fprintln(cmd.OutOrStdout(), "Operation cancelled")
				return nil
			}
			return c.withAuth(func(auth *services.AuthService) error {
				if err := auth.DeleteUser(username); err != nil {
					if errors.Is(err, repositories.ErrNotFound) {
						return fmt.Errorf("no user named %s", username)
					}
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted user %s\n", username)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func (c *cli) userListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withAuth(func(auth *services.AuthService) error {
				users, err := auth.ListUsers()
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tUSERNAME\tCREATED")
				for _, u := range users {
					fmt.Fprintf(tw, "%d\t%s\t%s\n", u.ID, u.Username, u.CreatedAt.Format("2006-01-02 15:04"))
				}
				return tw.Flush()
			})
		},
	}
}
