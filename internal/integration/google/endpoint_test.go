package google

import (
	"context"
	"testing"

	ierr "github.com/entrecon/entrecon/internal/errors"
	"github.com/entrecon/entrecon/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObtainServiceURL(t *testing.T) {
	t.Run("installed extension yields the environment address", func(t *testing.T) {
		repo := testutil.NewInMemoryInstallationStore(testutil.InstallationFixture())

		url, err := ObtainServiceURL(context.Background(), repo)
		require.NoError(t, err)
		assert.Equal(t, "https://gms.example.com", url)
	})

	t.Run("uninstalled extensions are skipped", func(t *testing.T) {
		repo := testutil.NewInMemoryInstallationStore(testutil.MustDecode(`{
			"status": "uninstalled",
			"environment": {
				"hostname": "gms",
				"domain": "example.com",
				"extension": {"id": "SRVC-9722-3113"}
			}
		}`))

		_, err := ObtainServiceURL(context.Background(), repo)
		require.Error(t, err)
		assert.True(t, ierr.IsNotFound(err))
	})

	t.Run("unknown extensions never match", func(t *testing.T) {
		repo := testutil.NewInMemoryInstallationStore(testutil.MustDecode(`{
			"status": "installed",
			"environment": {
				"hostname": "other",
				"domain": "example.com",
				"extension": {"id": "SRVC-0000-0000"}
			}
		}`))

		_, err := ObtainServiceURL(context.Background(), repo)
		require.Error(t, err)
		assert.Equal(t, "The service for the Google Managements Settings was not found.", err.Error())
	})

	t.Run("missing environment fields fall back in the address", func(t *testing.T) {
		repo := testutil.NewInMemoryInstallationStore(testutil.MustDecode(`{
			"status": "installed",
			"environment": {"extension": {"id": "SRVC-5460-5389"}}
		}`))

		url, err := ObtainServiceURL(context.Background(), repo)
		require.NoError(t, err)
		assert.Equal(t, "https://-.-", url)
	})
}
