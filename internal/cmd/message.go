package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/zfogg/socialcommerce/cli/pkg/chat"
	"github.com/zfogg/socialcommerce/cli/pkg/service"
)

var messageCmd = &cobra.Command{
	Use:     "message",
	Aliases: []string{"messages", "msg"},
	Short:   "Direct message commands",
}

func messageService() *service.MessageService {
	sess := currentSession()
	return service.NewMessageService(apiClient(), sess, chat.ConfigFromSettings(sess.Token()))
}

var messageListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your conversations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return messageService().ListConversations(cmd.Context())
	},
}

var messageThreadCmd = &cobra.Command{
	Use:   "thread <room-id>",
	Short: "Show a conversation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return messageService().ViewThread(cmd.Context(), args[0])
	},
}

var messageSendCmd = &cobra.Command{
	Use:   "send <room-id> <text...>",
	Short: "Send a message",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return messageService().Send(cmd.Context(), args[0], strings.Join(args[1:], " "))
	},
}

var messageWatchCmd = &cobra.Command{
	Use:   "watch <room-id>",
	Short: "Follow a conversation live",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return messageService().Watch(cmd.Context(), args[0])
	},
}

func init() {
	messageCmd.AddCommand(messageListCmd)
	messageCmd.AddCommand(messageThreadCmd)
	messageCmd.AddCommand(messageSendCmd)
	messageCmd.AddCommand(messageWatchCmd)
}
