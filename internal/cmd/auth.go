package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/zfogg/socialcommerce/cli/pkg/config"
	"github.com/zfogg/socialcommerce/cli/pkg/prompter"
	"github.com/zfogg/socialcommerce/cli/pkg/service"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  "Sign in with the token from the web sign-in flow, sign out, and check the session",
}

func authService() *service.AuthService {
	return service.NewAuthService(apiClient(), currentSession(),
		prompter.New(os.Stdin, os.Stderr), config.GetString("api.base_url"))
}

var loginCmd = &cobra.Command{
	Use:   "login [token-or-callback-url]",
	Short: "Sign in",
	Long: `Sign in with a token. Open the URL from 'auth signin-url' in a browser,
finish the Google sign-in, then pass the token or the whole callback URL
(…/auth/callback?continue=<token>). Without an argument you are prompted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := ""
		if len(args) == 1 {
			input = args[0]
		}
		return authService().Login(cmd.Context(), input)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and remove the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return authService().Logout()
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the session state",
	RunE: func(cmd *cobra.Command, args []string) error {
		return authService().Status()
	},
}

var signinURLCmd = &cobra.Command{
	Use:   "signin-url",
	Short: "Print the browser sign-in URL",
	Run: func(cmd *cobra.Command, args []string) {
		authService().SignInURL()
	},
}

func init() {
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(statusCmd)
	authCmd.AddCommand(signinURLCmd)
}
