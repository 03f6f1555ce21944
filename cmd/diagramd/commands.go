package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"diagramd/internal/common/fsutil"
	"diagramd/internal/registry"
	"diagramd/internal/render"
)

func (c *cli) generateCmd() *cobra.Command {
	var withSource bool
	cmd := &cobra.Command{
		Use:     "generate [prompt...]",
		Short:   "Generate PlantUML markup for a prompt and print it",
		Example: "  diagramd generate --backend openai \"A user logs in\"\n  echo \"A user logs in\" | diagramd generate -",
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt, err := promptFrom(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			gen, err := buildGenerator(c.cfg, c.log)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			res := gen.Generate(ctx, prompt)
			if withSource {
				fmt.Fprintf(cmd.ErrOrStderr(), "source=%s model=%s dur=%s\n", res.Source, res.Model, res.Duration.Round(1e6))
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), res.Text)
			return err
		},
	}
	cmd.Flags().BoolVar(&withSource, "show-source", false, "Print whether the model or the fallback answered (stderr)")
	return cmd
}

// promptFrom joins args, or reads stdin when the only arg is "-".
func promptFrom(args []string, stdin io.Reader) (string, error) {
	if len(args) == 1 && args[0] == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read prompt: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}
	return strings.Join(args, " "), nil
}

func (c *cli) renderCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:     "render <file.puml>",
		Short:   "Render a PlantUML file through the configured server",
		Example: "  diagramd render seq.puml -o seq.png\n  diagramd render seq.puml --format svg --renderer kroki -o seq.svg",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := render.ParseFormat(c.cfg.Format)
			if err != nil {
				return err
			}
			r, err := buildRenderer(c.cfg, c.log)
			if err != nil {
				return err
			}
			src, err := fsutil.ExpandHome(args[0])
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			if d := c.cfg.RenderTimeout.Duration; d > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, d)
				defer cancel()
			}
			res, err := r.Render(ctx, src, format)
			if err != nil {
				return err
			}
			defer os.Remove(res.Path)
			if out == "" {
				out = strings.TrimSuffix(src, ".puml") + format.Ext()
			}
			if err := copyFile(res.Path, out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s, %d bytes)\n", out, res.ContentType, res.Size)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default: input name with the format's extension)")
	return cmd
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, in); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func (c *cli) modelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List GGUF models available to the llama backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := registry.New(c.cfg.ModelsDir)
			if !reg.Available() {
				fmt.Fprintf(cmd.OutOrStdout(), "models directory %s does not exist; set --models-dir\n", reg.Dir())
				return nil
			}
			models, err := reg.List()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tSIZE\tPATH")
			for _, m := range models {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", m.Name, humanSize(m.SizeBytes), m.Path)
			}
			return tw.Flush()
		},
	}
}

func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
