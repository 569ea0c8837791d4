package main

import (
	"errors"
	"fmt"

	"childguard/backend/internal/apiclient"
	"childguard/backend/internal/models"

	"github.com/spf13/cobra"
)

var (
	accountName     string
	accountEmail    string
	accountPassword string
	accountPhone    string
)

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create a reporter account",
	Args:  cobra.NoArgs,
	RunE:  runSignup,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the session locally",
	Args:  cobra.NoArgs,
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Revoke the stored session and forget it",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

func init() {
	for _, cmd := range []*cobra.Command{signupCmd, loginCmd} {
		cmd.Flags().StringVar(&accountEmail, "email", "", "account email")
		cmd.Flags().StringVar(&accountPassword, "password", "", "account password")
		_ = cmd.MarkFlagRequired("email")
		_ = cmd.MarkFlagRequired("password")
	}
	signupCmd.Flags().StringVar(&accountName, "name", "", "display name")
	signupCmd.Flags().StringVar(&accountPhone, "phone", "", "contact phone, used to prefill reports")
}

func sessionStore() (apiclient.FileSessionStore, error) {
	path, err := apiclient.DefaultSessionPath()
	if err != nil {
		return apiclient.FileSessionStore{}, err
	}
	return apiclient.FileSessionStore{Path: path}, nil
}

func runSignup(cmd *cobra.Command, args []string) error {
	client := apiclient.New(baseURL)
	err := client.Signup(cmd.Context(), models.SignupRequest{
		Name:     accountName,
		Email:    accountEmail,
		Password: accountPassword,
		Phone:    accountPhone,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("Signup successful. You can now log in."))
	return nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	store, err := sessionStore()
	if err != nil {
		return err
	}

	resp, err := apiclient.New(baseURL).Login(cmd.Context(), accountEmail, accountPassword)
	if err != nil {
		return err
	}
	if err := store.Save(apiclient.SessionFromLogin(resp)); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("Logged in as "+resp.Name))
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	store, err := sessionStore()
	if err != nil {
		return err
	}

	sess, err := store.Load()
	if errors.Is(err, apiclient.ErrNoSession) {
		fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
		return nil
	}
	if err != nil {
		return err
	}

	// The local session is dropped even when the server call fails; an
	// expired token cannot be revoked anyway.
	if err := apiclient.New(baseURL).WithToken(sess.Token).Signout(cmd.Context()); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "Warning: "+err.Error())
	}
	if err := store.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
	return nil
}
