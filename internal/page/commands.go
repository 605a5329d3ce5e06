package page

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/aicuts/internal/api"
	"github.com/csheth/aicuts/internal/form"
)

func contactJob(client api.Client, contact form.Contact, timeout time.Duration) jobRunner {
	req := api.ContactRequest(contact)
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, timeout)
		defer cancel()
		res := client.SendContact(ctx, req)
		return contactResultMsg{result: res}, resultErr(res.Kind, res.Message, res.Err)
	}
}

func uploadJob(client api.Client, ref form.FileRef, timeout time.Duration) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		file, err := os.Open(ref.Path)
		if err != nil {
			err = fmt.Errorf("opening %s: %w", ref.Path, err)
			return uploadResultMsg{name: ref.Name, result: api.Result[api.Classification]{Kind: api.Failed, Err: err}}, err
		}
		defer file.Close()

		ctx, cancel := context.WithTimeout(parent, timeout)
		defer cancel()
		res := client.Classify(ctx, api.UploadRequest{
			Name:      ref.Name,
			MediaType: ref.MediaType,
			Size:      ref.Size,
			Content:   file,
		})
		return uploadResultMsg{name: ref.Name, result: res}, resultErr(res.Kind, res.Message, res.Err)
	}
}

// resultErr reduces a tagged result to the error the job bus logs.
func resultErr(kind api.Kind, message string, err error) error {
	switch kind {
	case api.Succeeded:
		return nil
	case api.Rejected:
		return fmt.Errorf("rejected: %s", message)
	default:
		if err == nil {
			err = errors.New("request failed")
		}
		return err
	}
}
