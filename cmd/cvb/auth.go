package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-builder-cli/internal/api"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate and store a session",
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored session",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	RunE:  runWhoami,
}

var (
	loginEmail    string
	loginPassword string
)

func init() {
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "Account email")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Account password (prompted when omitted)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}

func runLogin(_ *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	email := loginEmail
	password := loginPassword
	reader := bufio.NewReader(os.Stdin)
	if email == "" {
		fmt.Print("Email: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read email: %w", err)
		}
		email = strings.TrimSpace(line)
	}
	if password == "" {
		fmt.Print("Password: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password = strings.TrimSpace(line)
	}

	session, err := a.api.Login(context.Background(), api.LoginRequest{Email: email, Password: password})
	if err != nil {
		return err
	}
	if session.User != nil {
		fmt.Printf("Logged in as %s\n", session.User.Email)
	} else {
		fmt.Println("Logged in")
	}
	return nil
}

func runLogout(_ *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.api.Logout(); err != nil {
		return err
	}
	fmt.Println("Logged out")
	return nil
}

func runWhoami(_ *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	session, err := a.api.Transport().Store().Get()
	if err != nil {
		return err
	}
	if session == nil {
		fmt.Println("Not logged in")
		return nil
	}
	if session.User == nil {
		fmt.Println("Logged in (no cached user record)")
		return nil
	}
	fmt.Printf("%s (%s)\n", session.User.Email, session.User.Role)
	if session.User.CandidateID != "" {
		fmt.Printf("Candidate id: %s\n", session.User.CandidateID)
	}
	return nil
}
