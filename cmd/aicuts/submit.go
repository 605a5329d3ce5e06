package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/csheth/aicuts/internal/api"
	"github.com/csheth/aicuts/internal/form"
	"github.com/csheth/aicuts/internal/page"
	"github.com/csheth/aicuts/internal/shapes"
)

const (
	contactRetryMessage = "Error sending message. Please try again."
	uploadRetryMessage  = "Error uploading file. Please try again."
)

func newContactCmd(opts *options) *cobra.Command {
	var first, last, subject string
	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Send a message through the contact form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runContact(cmd, opts, first, last, subject)
		},
	}
	cmd.Flags().StringVar(&first, "first", "", "first name")
	cmd.Flags().StringVar(&last, "last", "", "last name")
	cmd.Flags().StringVar(&subject, "subject", "", "message subject")
	return cmd
}

func runContact(cmd *cobra.Command, opts *options, first, last, subject string) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	setupLogging(cmd, opts.verbose)

	contact, err := form.ValidateContact(first, last, subject)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout)
	defer cancel()

	res := newClient(cfg).SendContact(ctx, api.ContactRequest(contact))
	switch res.Kind {
	case api.Succeeded:
		fmt.Fprintln(cmd.OutOrStdout(), res.Message)
		return nil
	case api.Rejected:
		return errors.New(res.Message)
	default:
		return fmt.Errorf("%s (%w)", contactRetryMessage, res.Err)
	}
}

func newUploadCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "upload PATH",
		Short: "Classify the face shape in a photo and list matching hairstyles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpload(cmd, opts, args[0])
		},
	}
}

func runUpload(cmd *cobra.Command, opts *options, path string) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	setupLogging(cmd, opts.verbose)
	catalog, err := shapes.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		return err
	}

	ref, err := form.Inspect(path)
	if err != nil {
		return err
	}
	if ref, err = form.ValidateUpload(&ref); err != nil {
		return err
	}

	file, err := os.Open(ref.Path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", ref.Path, err)
	}
	defer file.Close()

	bar := progressbar.NewOptions64(ref.Size,
		progressbar.OptionSetDescription("Uploading "+ref.Name),
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(30),
		progressbar.OptionClearOnFinish(),
	)
	reader := progressbar.NewReader(file, bar)

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout)
	defer cancel()
	res := newClient(cfg).Classify(ctx, api.UploadRequest{
		Name:      ref.Name,
		MediaType: ref.MediaType,
		Size:      ref.Size,
		Content:   &reader,
	})
	_ = bar.Finish()

	switch res.Kind {
	case api.Succeeded:
		printClassification(cmd.OutOrStdout(), catalog, res.Value)
		return nil
	case api.Rejected:
		return errors.New(res.Message)
	default:
		return fmt.Errorf("%s (%w)", uploadRetryMessage, res.Err)
	}
}

func printClassification(w io.Writer, catalog *shapes.Catalog, c api.Classification) {
	for _, line := range page.Summary(c) {
		fmt.Fprintln(w, line)
	}
	v := shapes.Plan(strings.ToLower(c.FaceShape))
	styles := v.VisibleStyles()
	if len(styles) == 0 {
		fmt.Fprintln(w, "No recommendations for this face shape.")
		return
	}
	fmt.Fprintln(w)
	if detail, ok := catalog.Shapes[v.Shape]; ok {
		fmt.Fprintf(w, "%s: %s\n", detail.Title, detail.Summary)
	}
	fmt.Fprintln(w, "Recommended hairstyles:")
	for _, style := range styles {
		fmt.Fprintf(w, "  - %s: %s\n", catalog.StyleName(style), catalog.Hairstyles[style].Description)
	}
}

func setupLogging(cmd *cobra.Command, verbose bool) {
	if verbose {
		log.SetOutput(cmd.ErrOrStderr())
		return
	}
	log.SetOutput(io.Discard)
}
