package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/entrecon/entrecon/internal/domain/installation"
	"github.com/entrecon/entrecon/internal/domain/subscription"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSubscriptionRepository(t *testing.T) {
	ctx := context.Background()

	path := writeFile(t, "subs.json", `[
		{"id": "AS-1", "status": "active", "product": {"id": "PRD-861-570-450"}},
		{"id": "AS-2", "status": "draft", "product": {"id": "PRD-861-570-450"}},
		{"id": "AS-3", "status": "active", "product": {"id": "PRD-OTHER"}}
	]`)
	repo := NewSubscriptionRepository(path)

	t.Run("filter applies to count and records", func(t *testing.T) {
		q := repo.Find(ctx, subscription.NewFilter(nil))

		count, err := q.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		var ids []string
		for rec, err := range q.Records(ctx) {
			require.NoError(t, err)
			ids = append(ids, rec.Get("id").StringOr(""))
		}
		assert.Equal(t, []string{"AS-1"}, ids)
	})

	t.Run("nil filter returns everything", func(t *testing.T) {
		count, err := repo.Find(ctx, nil).Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, count)
	})

	t.Run("missing file", func(t *testing.T) {
		q := NewSubscriptionRepository("/nonexistent/subs.json").Find(ctx, nil)
		_, err := q.Count(ctx)
		assert.Error(t, err)

		for _, err := range q.Records(ctx) {
			assert.Error(t, err)
		}
	})

	t.Run("not an array", func(t *testing.T) {
		bad := writeFile(t, "bad.json", `{"id": "AS-1"}`)
		count, err := NewSubscriptionRepository(bad).Find(ctx, nil).Count(ctx)
		require.NoError(t, err)
		// A non-array document decodes to zero records.
		assert.Equal(t, 0, count)
	})
}

func TestInstallationRepository(t *testing.T) {
	ctx := context.Background()

	path := writeFile(t, "inst.json", `[
		{"status": "uninstalled", "environment": {"extension": {"id": "SRVC-1"}}},
		{"status": "installed", "environment": {"extension": {"id": "SRVC-1"}, "hostname": "a"}},
		{"status": "installed", "environment": {"extension": {"id": "SRVC-2"}}}
	]`)
	repo := NewInstallationRepository(path)

	t.Run("first match by status and extension", func(t *testing.T) {
		inst, err := repo.First(ctx, &installation.Filter{
			Statuses:     []string{"installed"},
			ExtensionIDs: []string{"SRVC-1"},
		})
		require.NoError(t, err)
		require.False(t, inst.IsNull())
		assert.Equal(t, "a", inst.Get("environment").Get("hostname").StringOr(""))
	})

	t.Run("no match yields a null value", func(t *testing.T) {
		inst, err := repo.First(ctx, &installation.Filter{
			Statuses:     []string{"installed"},
			ExtensionIDs: []string{"SRVC-404"},
		})
		require.NoError(t, err)
		assert.True(t, inst.IsNull())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := NewInstallationRepository("/nonexistent/inst.json").First(ctx, nil)
		assert.Error(t, err)
	})
}
