package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eringen/tantalks"
	"github.com/eringen/tantalks/auth"
)

var (
	userPassword string
	userName     string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage local admin accounts",
}

var userAddCmd = &cobra.Command{
	Use:   "add <email>",
	Short: "Create an admin account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if userPassword == "" {
			return errors.New("--password is required")
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.AuthProvider == tantalks.AuthGoTrue {
			provider := auth.NewGoTrue(cfg.AuthURL, cfg.AnonKey, cfg.ServiceRoleKey)
			u, err := provider.SignUp(cmd.Context(), args[0], userPassword, userName)
			if err != nil {
				return err
			}
			logger.Infof("created remote user %s (%s)", u.Email, u.ID)
			return nil
		}
		local, closeStore, err := openLocal(cfg)
		if err != nil {
			return err
		}
		defer closeStore()
		u, err := local.SignUp(cmd.Context(), args[0], userPassword, userName)
		if err != nil {
			return err
		}
		logger.Infof("created user %s (%s)", u.Email, u.ID)
		return nil
	},
}

var userDeleteCmd = &cobra.Command{
	Use:   "delete <email>",
	Short: "Delete a local admin account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.AuthProvider != tantalks.AuthLocal {
			return fmt.Errorf("user delete needs the local auth provider, config uses %q", cfg.AuthProvider)
		}
		local, closeStore, err := openLocal(cfg)
		if err != nil {
			return err
		}
		defer closeStore()
		if err := local.DeleteUser(cmd.Context(), args[0]); err != nil {
			return err
		}
		logger.Infof("deleted user %s", args[0])
		return nil
	},
}

func openLocal(cfg tantalks.SiteConfig) (*auth.Local, func(), error) {
	store, _, err := openRepository(cfg)
	if err != nil {
		return nil, nil, err
	}
	local, err := auth.NewLocal(store, cfg.SessionSecret, auth.WithTokenTTL(cfg.TokenTTL))
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return local, func() { store.Close() }, nil
}

func init() {
	userAddCmd.Flags().StringVarP(&userPassword, "password", "p", "", "account password (at least 8 characters)")
	userAddCmd.Flags().StringVarP(&userName, "name", "n", "", "display name")
	userCmd.AddCommand(userAddCmd, userDeleteCmd)
	rootCmd.AddCommand(userCmd)
}
