package cmd

import (
	"github.com/spf13/cobra"
	"github.com/zfogg/socialcommerce/cli/pkg/api"
	"github.com/zfogg/socialcommerce/cli/pkg/service"
)

var profileUpdate api.UpdateProfileRequest

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Profile commands",
	Long:  "View profiles, follow users and complete your own profile",
}

func profileService() *service.ProfileService {
	return service.NewProfileService(apiClient(), currentSession())
}

var profileMeCmd = &cobra.Command{
	Use:   "me",
	Short: "Show your profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		return profileService().Me(cmd.Context())
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show <user-id>",
	Short: "Show a user's profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return profileService().Show(cmd.Context(), args[0])
	},
}

var profileFollowCmd = &cobra.Command{
	Use:   "follow <user-id>",
	Short: "Follow a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return profileService().Follow(cmd.Context(), args[0])
	},
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Complete or edit your profile",
	Long:  "Update contact details. The first update activates a new account.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return profileService().Update(cmd.Context(), profileUpdate)
	},
}

func init() {
	f := profileUpdateCmd.Flags()
	f.StringVar(&profileUpdate.PhoneNumber, "phone", "", "Phone number")
	f.StringVar(&profileUpdate.StreetAddress, "street", "", "Street address")
	f.StringVar(&profileUpdate.State, "state", "", "State or region")
	f.StringVar(&profileUpdate.Country, "country", "", "Country")
	f.StringVar(&profileUpdate.ProfileImagePath, "image", "", "Path to a profile image")

	profileCmd.AddCommand(profileMeCmd)
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileFollowCmd)
	profileCmd.AddCommand(profileUpdateCmd)
}
