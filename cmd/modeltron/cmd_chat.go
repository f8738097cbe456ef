package main

import (
	"errors"
	"fmt"
	"strings"

	"modeltron/internal/types"
	"modeltron/internal/upload"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var chatFile string

// chatCmd sends one message to the debugging assistant.
var chatCmd = &cobra.Command{
	Use:   "chat <message...>",
	Short: "Ask the model debugging assistant a question",
	Long: `Sends a single message to the chat assistant. With --file the model file
is uploaded first and the question is asked about it.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatFile, "file", "f", "", "Model file to discuss")
}

func runChat(cmd *cobra.Command, args []string) error {
	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return fmt.Errorf("message is empty")
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	rt, err := newRuntime(ctx, cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	// Without a text provider the debugger answers.
	send := rt.debugger.AnalyzeModel
	if rt.chat != nil {
		send = rt.chat.Send
	}

	sessionID := rt.startSession("cli")
	out := cmd.OutOrStdout()

	name := ""
	if chatFile != "" {
		file, err := upload.NewReader(upload.ChatPolicy(), cfg.Upload.MaxBytes).Read(chatFile)
		if err != nil {
			return errors.New(upload.UserMessage(err))
		}
		reply, err := send(ctx, upload.ChatPrompt(file.Name, file.Content))
		if err != nil {
			logger.Error("file analysis failed", zap.Error(err))
			return fmt.Errorf("file analysis failed: %w", err)
		}
		name = file.Name
		rt.record(sessionID, types.NewMessage(types.RoleSystem, "File uploaded: "+name, types.ModeChat))
		rt.record(sessionID, types.NewMessage(types.RoleAssistant, reply, types.ModeChat))
		fmt.Fprintf(out, "File uploaded: %s\n%s\n\n", name, reply)
	}

	reply, err := send(ctx, upload.RegardingPrompt(name, question))
	if err != nil {
		logger.Error("chat failed", zap.Error(err))
		return fmt.Errorf("chat request failed: %w", err)
	}
	rt.record(sessionID, types.NewMessage(types.RoleUser, question, types.ModeChat))
	rt.record(sessionID, types.NewMessage(types.RoleAssistant, reply, types.ModeChat))
	fmt.Fprintln(out, reply)
	return nil
}
