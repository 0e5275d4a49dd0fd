package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"pkt.systems/adecon/apiclient"
	"pkt.systems/pslog"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Tenant administration",
	}
	cmd.AddCommand(newAdminUsersCmd())
	cmd.AddCommand(newAdminGroupsCmd())
	cmd.AddCommand(newAdminRolesCmd())
	cmd.AddCommand(newAdminKeysCmd())
	cmd.AddCommand(newAdminInvitationsCmd())
	cmd.AddCommand(newAdminSSOCmd())
	cmd.AddCommand(newAdminSafeModeCmd())
	return cmd
}

func adminClient(cmd *cobra.Command) (*apiclient.Client, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return newAPIClient(cfg, pslog.Ctx(cmd.Context()))
}

func newAdminUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage platform accounts",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "ls",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := adminClient(cmd)
			if err != nil {
				return err
			}
			users, err := client.ListUsers(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tEMAIL\tROLES\tDISABLED")
			for _, u := range users {
				fmt.Fprintf(w, "%s\t%s\t%s\t%v\n", u.ID, u.Email, strings.Join(u.Roles, ","), u.Disabled)
			}
			return w.Flush()
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "rm <id>",
		Short: "Delete an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := adminClient(cmd)
			if err != nil {
				return err
			}
			if err := client.DeleteUser(cmd.Context(), args[0]); err != nil {
				return err
			}
			pslog.Ctx(cmd.Context()).Info("user deleted", "id", args[0])
			return nil
		},
	})
	return cmd
}

func newAdminGroupsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Manage groups",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "ls",
		Short: "List groups",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := adminClient(cmd)
			if err != nil {
				return err
			}
			groups, err := client.ListGroups(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tROLES\tMEMBERS")
			for _, g := range groups {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", g.ID, g.Name, strings.Join(g.Roles, ","), len(g.Members))
			}
			return w.Flush()
		},
	})
	var roles []string
	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := adminClient(cmd)
			if err != nil {
				return err
			}
			created, err := client.CreateGroup(cmd.Context(), apiclient.Group{Name: args[0], Roles: roles})
			if err != nil {
				return err
			}
			pslog.Ctx(cmd.Context()).Info("group created", "id", created.ID, "name", created.Name)
			return nil
		},
	}
	create.Flags().StringSliceVar(&roles, "role", nil, "grant these roles to the group")
	cmd.AddCommand(create)
	cmd.AddCommand(&cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := adminClient(cmd)
			if err != nil {
				return err
			}
			return client.DeleteGroup(cmd.Context(), args[0])
		},
	})
	return cmd
}

func newAdminRolesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roles",
		Short: "Inspect roles",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "ls",
		Short: "List roles",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := adminClient(cmd)
			if err != nil {
				return err
			}
			roles, err := client.ListRoles(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tPERMISSIONS")
			for _, r := range roles {
				fmt.Fprintf(w, "%s\t%s\t%s\n", r.ID, r.Name, strings.Join(r.Permissions, ","))
			}
			return w.Flush()
		},
	})
	return cmd
}

func newAdminSSOCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sso",
		Short: "Inspect the tenant SSO policy",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the SSO policy",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := adminClient(cmd)
			if err != nil {
				return err
			}
			policy, err := client.GetSSOPolicy(cmd.Context())
			if err != nil {
				return err
			}
			state := "disabled"
			if policy.Enabled {
				state = "enabled via " + policy.Provider
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "sso %s domains=%s enforce_for_all=%v\n",
				state, strings.Join(policy.AllowedDomains, ","), policy.EnforceForAll)
			return err
		},
	})
	return cmd
}

func newAdminKeysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage API keys",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "ls",
		Short: "List API keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := adminClient(cmd)
			if err != nil {
				return err
			}
			keys, err := client.ListAPIKeys(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tPREFIX\tCREATED")
			for _, k := range keys {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", k.ID, k.Name, k.Prefix, k.CreatedAt.Format("2006-01-02"))
			}
			return w.Flush()
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "create <name>",
		Short: "Create an API key (the secret prints once)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := adminClient(cmd)
			if err != nil {
				return err
			}
			created, err := client.CreateAPIKey(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), created.Secret)
			return err
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "revoke <id>",
		Short: "Revoke an API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := adminClient(cmd)
			if err != nil {
				return err
			}
			if err := client.RevokeAPIKey(cmd.Context(), args[0]); err != nil {
				return err
			}
			pslog.Ctx(cmd.Context()).Info("api key revoked", "id", args[0])
			return nil
		},
	})
	return cmd
}

func newAdminInvitationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invitations",
		Short: "Manage pending invitations",
	}
	var roles []string
	invite := &cobra.Command{
		Use:   "create <email>",
		Short: "Invite an email address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := adminClient(cmd)
			if err != nil {
				return err
			}
			created, err := client.CreateInvitation(cmd.Context(), apiclient.Invitation{Email: args[0], Roles: roles})
			if err != nil {
				return err
			}
			pslog.Ctx(cmd.Context()).Info("invitation created", "id", created.ID, "email", created.Email)
			return nil
		},
	}
	invite.Flags().StringSliceVar(&roles, "role", nil, "grant these roles on acceptance")
	cmd.AddCommand(invite)
	cmd.AddCommand(&cobra.Command{
		Use:   "ls",
		Short: "List pending invitations",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := adminClient(cmd)
			if err != nil {
				return err
			}
			invitations, err := client.ListInvitations(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tEMAIL\tROLES\tEXPIRES")
			for _, inv := range invitations {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", inv.ID, inv.Email, strings.Join(inv.Roles, ","), inv.ExpiresAt.Format("2006-01-02"))
			}
			return w.Flush()
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "revoke <id>",
		Short: "Revoke a pending invitation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := adminClient(cmd)
			if err != nil {
				return err
			}
			return client.RevokeInvitation(cmd.Context(), args[0])
		},
	})
	return cmd
}

func newAdminSafeModeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "safe-mode",
		Short: "Inspect or toggle tenant safe mode",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show safe-mode status",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := adminClient(cmd)
			if err != nil {
				return err
			}
			mode, err := client.GetSafeMode(cmd.Context())
			if err != nil {
				return err
			}
			state := "disabled"
			if mode.Enabled {
				state = "enabled"
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "safe mode %s %s\n", state, mode.Reason)
			return err
		},
	})
	var reason string
	enable := &cobra.Command{
		Use:   "enable",
		Short: "Enable safe mode (mutating operations rejected)",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := adminClient(cmd)
			if err != nil {
				return err
			}
			_, err = client.SetSafeMode(cmd.Context(), apiclient.SafeMode{Enabled: true, Reason: reason})
			return err
		},
	}
	enable.Flags().StringVar(&reason, "reason", "", "operator-visible reason")
	cmd.AddCommand(enable)
	cmd.AddCommand(&cobra.Command{
		Use:   "disable",
		Short: "Disable safe mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := adminClient(cmd)
			if err != nil {
				return err
			}
			_, err = client.SetSafeMode(cmd.Context(), apiclient.SafeMode{Enabled: false})
			return err
		},
	})
	return cmd
}
