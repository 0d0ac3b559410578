package account

import (
	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/verdictx/vx/internal/auth"
	"github.com/verdictx/vx/internal/cli"
	"github.com/verdictx/vx/internal/configuration"
	"github.com/verdictx/vx/store"
)

// NewLoginCmd instantiates and returns the login command.
func NewLoginCmd(config *configuration.Config) *cobra.Command {
	var opts struct {
		Credential string
	}
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to VerdictX",
		Long:  "Sign in to VerdictX",
		Args:  cobra.ExactArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			// Instantiate store.
			s, err := store.New(config.Storage.DatabasePath)
			cobra.CheckErr(err)
			defer s.Close()

			var user *auth.User
			if opts.Credential != "" {
				user, err = auth.DecodeCredential(opts.Credential)
				cobra.CheckErr(err)
			} else {
				user, err = promptProfile()
				cobra.CheckErr(err)
			}

			cobra.CheckErr(s.SetUser(user))
			cli.UserCommand("#signed in as %s (%s)\n", user.Name, user.Email)
		},
	}
	cmd.Flags().StringVar(&opts.Credential, "credential", "", "sign in with an identity token")
	return cmd
}

// NewLogoutCmd instantiates and returns the logout command.
func NewLogoutCmd(config *configuration.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Sign out of VerdictX",
		Long:  "Sign out of VerdictX",
		Args:  cobra.ExactArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			// Instantiate store.
			s, err := store.New(config.Storage.DatabasePath)
			cobra.CheckErr(err)
			defer s.Close()

			// Chats are kept for the next sign-in.
			cobra.CheckErr(s.ClearUser())
			cobra.CheckErr(s.ClearCurrentChatID())
			cli.UserCommand("#signed out\n")
		},
	}
	return cmd
}

// promptProfile builds a local profile interactively.
func promptProfile() (*auth.User, error) {
	questions := []*survey.Question{
		{
			Name:     "name",
			Prompt:   &survey.Input{Message: "Name:"},
			Validate: survey.Required,
		},
		{
			Name:     "email",
			Prompt:   &survey.Input{Message: "Email:"},
			Validate: survey.Required,
		},
	}
	answers := struct {
		Name  string
		Email string
	}{}
	if err := survey.Ask(questions, &answers); err != nil {
		return nil, err
	}
	return auth.LocalUser(answers.Name, answers.Email)
}
