package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

func newUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "User management commands",
	}

	cmd.AddCommand(newUsersListCmd())
	cmd.AddCommand(newUsersGetCmd())
	cmd.AddCommand(newUsersCreateCmd())
	cmd.AddCommand(newUsersUpdateCmd())
	cmd.AddCommand(newUsersPatchCmd())
	cmd.AddCommand(newUsersDeleteCmd())

	return cmd
}

func newUsersListCmd() *cobra.Command {
	var filter, value string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users, optionally filtered by field substring",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/users"
			if filter != "" || value != "" {
				q := url.Values{}
				q.Set("filter", filter)
				q.Set("value", value)
				path += "?" + q.Encode()
			}

			var result []User
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "Field to filter on: username, displayName")
	cmd.Flags().StringVar(&value, "value", "", "Substring the field must contain")

	return cmd
}

func newUsersGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a user by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result User
			if err := client.Get("/api/users/"+args[0], &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newUsersCreateCmd() *cobra.Command {
	var username, displayName string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"username":    username,
				"displayName": displayName,
			}

			var result CreatedUser
			if err := client.Post("/api/users", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username (required)")
	cmd.Flags().StringVar(&displayName, "display-name", "", "Display name (required)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("display-name")

	return cmd
}

func newUsersUpdateCmd() *cobra.Command {
	var username, displayName string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace a user's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"username":    username,
				"displayName": displayName,
			}

			if err := client.Put("/api/users/"+args[0], req); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("User %s updated", args[0]))
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username (required)")
	cmd.Flags().StringVar(&displayName, "display-name", "", "Display name (required)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("display-name")

	return cmd
}

func newUsersPatchCmd() *cobra.Command {
	var username, displayName string

	cmd := &cobra.Command{
		Use:   "patch <id>",
		Short: "Update some of a user's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Only send the flags that were set; absent fields keep their
			// current values.
			req := map[string]string{}
			if cmd.Flags().Changed("username") {
				req["username"] = username
			}
			if cmd.Flags().Changed("display-name") {
				req["displayName"] = displayName
			}

			if err := client.Patch("/api/users/"+args[0], req); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("User %s patched", args[0]))
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "New username")
	cmd.Flags().StringVar(&displayName, "display-name", "", "New display name")

	return cmd
}

func newUsersDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete("/api/users/" + args[0]); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("User %s deleted", args[0]))
			return nil
		},
	}
}
