package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/zhouzirui/navigator/backend/internal/analysis/intent"
	"github.com/zhouzirui/navigator/backend/internal/model/chat"
	"github.com/zhouzirui/navigator/backend/internal/model/component"
	"github.com/zhouzirui/navigator/backend/internal/model/prompt"
	"github.com/zhouzirui/navigator/backend/internal/render"
	"github.com/zhouzirui/navigator/backend/internal/service/assistant"
)

const (
	formatTerminal = "terminal"
	formatHTML     = "html"
	formatJSON     = "json"
)

type options struct {
	format string
	width  int
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "canvastester",
		Short:         "Exercise the assistant and the component renderer from a terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.format, "format", formatTerminal, "output format: terminal, html or json")
	root.PersistentFlags().IntVar(&opts.width, "width", 80, "terminal wrap width")

	root.AddCommand(newAskCmd(opts), newRenderCmd(opts), newPromptsCmd(opts))
	return root
}

func newAskCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <text>",
		Short: "Send text to the assistant and show its reply and components",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := assistant.NewService(cmd.Context(), intent.Respond, 0)
			if err != nil {
				return fmt.Errorf("failed to initialise assistant: %w", err)
			}
			input := strings.Join(args, " ")
			reply, err := svc.Reply(cmd.Context(), "canvastester", nil, input)
			if err != nil {
				return fmt.Errorf("assistant reply failed: %w", err)
			}
			return writeReply(cmd.OutOrStdout(), opts, reply)
		},
	}
}

func newRenderCmd(opts *options) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render descriptors read from a JSON file (or stdin with --file -)",
		RunE: func(cmd *cobra.Command, args []string) error {
			descriptors, err := readDescriptors(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}
			return writeReply(cmd.OutOrStdout(), opts, chat.Reply{Descriptors: descriptors})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "descriptor file; either a JSON array or {\"descriptors\": [...]}")
	return cmd
}

func newPromptsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "prompts",
		Short: "List the built-in sample prompts",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			items := prompt.Seed()
			if opts.format == formatJSON {
				return writeJSON(out, items)
			}
			idWidth := 0
			for _, item := range items {
				idWidth = max(idWidth, runewidth.StringWidth(item.ID))
			}
			for _, item := range items {
				title := runewidth.Truncate(item.Title, max(opts.width-idWidth-1, 10), "...")
				fmt.Fprintf(out, "%s %s\n", runewidth.FillRight(item.ID, idWidth), title)
			}
			return nil
		},
	}
}

func readDescriptors(stdin io.Reader, file string) ([]component.Descriptor, error) {
	var data []byte
	var err error
	if file == "" || file == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return nil, fmt.Errorf("read descriptors: %w", err)
	}

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var list []component.Descriptor
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("decode descriptors: %w", err)
		}
		return list, nil
	}

	var wrapped struct {
		Descriptors []component.Descriptor `json:"descriptors"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("decode descriptors: %w", err)
	}
	return wrapped.Descriptors, nil
}

func writeReply(out io.Writer, opts *options, reply chat.Reply) error {
	views := render.Render(reply.Descriptors)
	switch opts.format {
	case formatJSON:
		return writeJSON(out, map[string]any{
			"text":        reply.Text,
			"descriptors": reply.Descriptors,
			"views":       views,
		})
	case formatHTML:
		if err := render.WriteHTML(out, views); err != nil {
			return err
		}
		_, err := fmt.Fprintln(out)
		return err
	case formatTerminal:
		return writeTerminal(out, opts.width, reply.Text, views)
	default:
		return fmt.Errorf("unknown format %q", opts.format)
	}
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
