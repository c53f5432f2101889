package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/example/maskpaint/internal/export"
	"github.com/example/maskpaint/internal/imageio"
	"github.com/example/maskpaint/internal/upload"
)

// submitCmd sends an image and mask to the generation service and writes
// the result.
type submitCmd struct {
	base     string
	mask     string
	endpoint string
	output   string
	*root
	fs *flag.FlagSet
}

func (s *submitCmd) FlagSet() *flag.FlagSet {
	return s.fs
}

func parseSubmitCmd(args []string, r *root) (*submitCmd, error) {
	fs := flag.NewFlagSet("submit", flag.ExitOnError)
	s := &submitCmd{root: r.subcommand("submit"), fs: fs}
	fs.Usage = usageFunc(s)
	fs.StringVar(&s.base, "base", "", "working image: an image file or a file holding a data URL")
	fs.StringVar(&s.mask, "mask", "", "mask: an image file or a file holding a data URL")
	fs.StringVar(&s.endpoint, "endpoint", "", "generation service URL (default from config)")
	fs.StringVar(&s.output, "output", "generated.png", "where to write the generated image")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if s.base == "" || s.mask == "" {
		return nil, &UsageError{of: s, msg: "-base and -mask are required"}
	}
	return s, nil
}

// readPayload returns the file at path as a data URL, encoding image files
// as PNG.
func readPayload(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if text := strings.TrimSpace(string(data)); strings.HasPrefix(text, "data:image/") {
		if _, err := export.Bytes(text); err != nil {
			return "", fmt.Errorf("%s: %w", path, err)
		}
		return text, nil
	}
	img, _, err := imageio.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", path, err)
	}
	return export.Encode(imageio.ToRGBA(img))
}

func (s *submitCmd) Run() error {
	cfg := s.config
	endpoint := firstNonEmpty(s.endpoint, cfg.Upload.Endpoint)
	if endpoint == "" {
		return fmt.Errorf("no endpoint: pass -endpoint or set [upload] endpoint")
	}
	client, err := upload.NewClient(endpoint, upload.WithPollInterval(cfg.Upload.PollInterval))
	if err != nil {
		return err
	}
	base, err := readPayload(s.base)
	if err != nil {
		return err
	}
	mask, err := readPayload(s.mask)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if cfg.Upload.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Upload.Timeout)
		defer cancel()
	}
	payload, err := client.Generate(ctx, base, mask, func(p int) {
		fmt.Fprintf(s.stderr, "progress: %d%%\n", p)
	})
	if err != nil {
		s.notifyGenerateFailed(err)
		return fmt.Errorf("generate: %w", err)
	}
	img, err := export.Decode(payload)
	if err != nil {
		s.notifyGenerateFailed(err)
		return fmt.Errorf("generate: %w", err)
	}
	path, err := imageio.SavePNG(s.output, img)
	if err != nil {
		return err
	}
	fmt.Fprintln(s.stdout, path)
	s.notifyGenerated(path, img)
	return nil
}
