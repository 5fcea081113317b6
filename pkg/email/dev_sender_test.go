package email_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/email"
)

func TestDevSender(t *testing.T) {
	t.Parallel()

	t.Run("writes body and metadata", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		sender := email.NewDevSender(dir)

		err := sender.SendEmail(context.Background(), email.SendEmailParams{
			SendTo:   "user@example.com",
			Subject:  "Welcome!",
			BodyText: "Thanks for joining.",
			Tag:      "welcome",
		})
		require.NoError(t, err)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 2)

		var sawBody, sawMeta bool
		for _, e := range entries {
			switch filepath.Ext(e.Name()) {
			case ".txt":
				sawBody = true
				data, err := os.ReadFile(filepath.Join(dir, e.Name()))
				require.NoError(t, err)
				assert.Equal(t, "Thanks for joining.", string(data))
			case ".json":
				sawMeta = true
				data, err := os.ReadFile(filepath.Join(dir, e.Name()))
				require.NoError(t, err)
				assert.Contains(t, string(data), "user@example.com")
			}
			assert.True(t, strings.Contains(e.Name(), "welcome"))
		}
		assert.True(t, sawBody)
		assert.True(t, sawMeta)
	})

	t.Run("rejects invalid params", func(t *testing.T) {
		t.Parallel()
		sender := email.NewDevSender(t.TempDir())

		err := sender.SendEmail(context.Background(), email.SendEmailParams{})
		require.ErrorIs(t, err, email.ErrInvalidParams)
	})
}
